package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CreateEventRequest is the request body for POST /events
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Date.IsZero() {
		errs = append(errs, "date is required")
	}
	return errs
}

// InviteRequest is the request body for POST /events/{eventID}/invite
type InviteRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(i.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// RespondRequest is the request body for PUT /events/{eventID}/response
type RespondRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (r RespondRequest) Validate() []string {
	var errs []string
	if r.Status == "" {
		errs = append(errs, "status is required")
	} else if !domain.RSVPStatus(r.Status).Valid() {
		errs = append(errs, `status must be one of "Going", "Maybe", "Not Going"`)
	}
	return errs
}

// SearchEventsRequest is the request body for POST /events/search.
// All fields are optional; supplied predicates are combined with AND.
type SearchEventsRequest struct {
	Keyword   string     `json:"keyword"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Role      string     `json:"role"`
}

// Validate implements Validator.
func (s SearchEventsRequest) Validate() []string {
	var errs []string
	if s.Role != "" && !domain.Role(s.Role).Valid() {
		errs = append(errs, `role must be one of "organizer", "attendee"`)
	}
	if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
		errs = append(errs, "end_date must not be before start_date")
	}
	return errs
}

// MessageResponse is a simple confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeEventError maps domain sentinel errors to API responses. Any error it
// does not recognize is logged and reported as 500.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "only the organizer may perform this action")
	case errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "no user registered under that email")
	case errors.Is(err, domain.ErrAlreadyParticipant):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "user is already a participant")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}

// Create godoc
// @Summary Create an event
// @Description Create an event with the authenticated user as organizer. The organizer is enrolled as the sole initial participant.
// @Tags events
// @Accept json
// @Produce json
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Security BearerAuth
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), userID, domain.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetByID godoc
// @Summary Get an event
// @Description Fetch a single event by ID. Participant emails are resolved on a best-effort basis.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Security BearerAuth
// @Router /events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetByID(r.Context(), r.PathValue("eventID"))
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Delete an event. Only the organizer may delete; anyone else receives 404.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=MessageResponse}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Security BearerAuth
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	if err := c.Service.Delete(r.Context(), r.PathValue("eventID"), userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "event deleted"})
}

// Invite godoc
// @Summary Invite a user to an event
// @Description Add the user registered under the given email as an attendee. Organizer only.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body InviteRequest true "Invitee email"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "unknown email or already a participant"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Security BearerAuth
// @Router /events/{eventID}/invite [post]
func (c *EventController) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req InviteRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Invite(r.Context(), r.PathValue("eventID"), userID, req.Email)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Join godoc
// @Summary Join an event
// @Description Add the authenticated user as an attendee. Joining an event the caller is already on succeeds without change.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Security BearerAuth
// @Router /events/{eventID}/join [post]
func (c *EventController) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	event, err := c.Service.Join(r.Context(), r.PathValue("eventID"), userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Respond godoc
// @Summary Set RSVP status
// @Description Set the authenticated participant's RSVP status. The status may be changed any number of times.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body RespondRequest true "RSVP status"
// @Success 200 {object} helpers.APIResponse{data=domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "event absent or caller not a participant"
// @Security BearerAuth
// @Router /events/{eventID}/response [put]
func (c *EventController) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req RespondRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Respond(r.Context(), r.PathValue("eventID"), userID, domain.RSVPStatus(req.Status))
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListOrganized godoc
// @Summary List events organized by the caller
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=[]domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Security BearerAuth
// @Router /events/organized [get]
func (c *EventController) ListOrganized(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	events, err := c.Service.ListOrganized(r.Context(), userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// ListParticipating godoc
// @Summary List events the caller participates in
// @Description List every event the caller appears on, including ones they organize.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse{data=[]domain.Event}
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Security BearerAuth
// @Router /events/invited [get]
func (c *EventController) ListParticipating(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	events, err := c.Service.ListParticipating(r.Context(), userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// Search godoc
// @Summary Search events
// @Description Search events by keyword, date range, and participant role. Predicates are ANDed; an empty body returns all events. Results are sorted by date ascending.
// @Tags events
// @Accept json
// @Produce json
// @Param body body SearchEventsRequest true "Search predicates"
// @Success 200 {object} helpers.APIResponse{data=[]domain.Event}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Security BearerAuth
// @Router /events/search [post]
func (c *EventController) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "not authenticated")
		return
	}
	var req SearchEventsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	events, err := c.Service.Search(r.Context(), userID, domain.SearchFilter{
		Keyword:   req.Keyword,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, events)
}
