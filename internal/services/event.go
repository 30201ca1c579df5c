package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

// unknownEmail is the sentinel shown for participants whose user record
// could not be resolved during enrichment.
const unknownEmail = "Unknown"

type eventService struct {
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewEventService creates an EventService with the given repositories.
// emailService may be nil, in which case no invitation emails are sent.
func NewEventService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID string, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if organizerID == "" {
		return nil, fmt.Errorf("%w: organizer is required", domain.ErrInvalidInput)
	}
	event := domain.NewEvent(in.Title, in.Description, in.Date, in.Location, organizerID)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	s.enrichEvent(ctx, event)
	return event, nil
}

// Delete reports ErrNotFound both for a missing event and for a caller who
// is not the organizer, so unauthorized callers cannot probe for existence.
func (s *eventService) Delete(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if !event.CanDelete(callerID) {
		return domain.ErrNotFound
	}
	// The delete itself is organizer-filtered too, so the check above
	// cannot be raced into deleting on someone else's behalf.
	deleted, err := s.eventRepo.Delete(ctx, eventID, callerID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *eventService) Invite(ctx context.Context, eventID, callerID, email string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !event.CanInvite(callerID) {
		return nil, domain.ErrForbidden
	}

	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if event.IsParticipant(user.ID) {
		return nil, domain.ErrAlreadyParticipant
	}

	added, err := s.eventRepo.AddParticipant(ctx, eventID, domain.Participant{
		UserID: user.ID,
		Role:   domain.RoleAttendee,
	})
	if err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}
	if !added {
		// A concurrent invite or join won the race; same outcome as the
		// duplicate check above.
		return nil, domain.ErrAlreadyParticipant
	}

	refreshed, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.enrichEvent(ctx, refreshed)
	s.sendInvitationEmail(ctx, refreshed, callerID, user.Email)
	return refreshed, nil
}

// Join is idempotent: joining an event the caller already participates in
// returns the event unchanged.
func (s *eventService) Join(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.IsParticipant(callerID) {
		s.enrichEvent(ctx, event)
		return event, nil
	}

	// The append is guarded at the store level; a lost race against a
	// concurrent join of the same user is indistinguishable from the
	// idempotent case and needs no special handling.
	if _, err := s.eventRepo.AddParticipant(ctx, eventID, domain.Participant{
		UserID: callerID,
		Role:   domain.RoleAttendee,
	}); err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}

	refreshed, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.enrichEvent(ctx, refreshed)
	return refreshed, nil
}

func (s *eventService) Respond(ctx context.Context, eventID, callerID string, status domain.RSVPStatus) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.SetParticipantStatus(ctx, eventID, callerID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set participant status: %w", err)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("reload event: %w", err)
	}
	s.enrichEvent(ctx, event)
	return event, nil
}

func (s *eventService) ListOrganized(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organized events: %w", err)
	}
	s.enrichEvents(ctx, events)
	return events, nil
}

func (s *eventService) ListParticipating(ctx context.Context, userID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list participating events: %w", err)
	}
	s.enrichEvents(ctx, events)
	return events, nil
}

// Search is deliberately not restricted to the caller's own events: open
// results are what make discovery and self-service join possible.
func (s *eventService) Search(ctx context.Context, callerID string, filter domain.SearchFilter) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	s.enrichEvents(ctx, events)
	return events, nil
}

// enrichEvent fills participant emails with a single batched identity
// lookup. Participants whose id does not resolve get the "Unknown"
// sentinel. On lookup failure the event is left unenriched; a read never
// fails because of enrichment.
func (s *eventService) enrichEvent(ctx context.Context, event *domain.Event) {
	if event == nil || len(event.Participants) == 0 {
		return
	}
	ids := make([]string, 0, len(event.Participants))
	for _, p := range event.Participants {
		ids = append(ids, p.UserID)
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.WarnContext(ctx, "participant enrichment failed", "event_id", event.ID, "err", err)
		return
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	for i := range event.Participants {
		if email, ok := emails[event.Participants[i].UserID]; ok {
			event.Participants[i].Email = email
		} else {
			event.Participants[i].Email = unknownEmail
		}
	}
}

// enrichEvents enriches each event independently; a failure on one never
// drops the others.
func (s *eventService) enrichEvents(ctx context.Context, events []*domain.Event) {
	for _, event := range events {
		s.enrichEvent(ctx, event)
	}
}

// sendInvitationEmail notifies the invitee. Best effort: a mail failure is
// logged and never fails the invite.
func (s *eventService) sendInvitationEmail(ctx context.Context, event *domain.Event, organizerID, inviteeEmail string) {
	if s.emailService == nil {
		return
	}
	organizerEmail := unknownEmail
	if organizer, err := s.userRepo.GetByID(ctx, organizerID); err == nil {
		organizerEmail = organizer.Email
	}
	data := &domain.EventInvitationEmailData{
		Email:          inviteeEmail,
		OrganizerEmail: organizerEmail,
		EventTitle:     event.Title,
		EventLocation:  event.Location,
		EventDate:      event.Date.Format(time.RFC1123),
	}
	if err := s.emailService.SendEventInvitation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "invitation email failed", "event_id", event.ID, "to", inviteeEmail, "err", err)
	}
}
