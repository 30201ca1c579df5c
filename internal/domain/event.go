package domain

import (
	"context"
	"time"
)

// Role is a participant's role within an event.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleAttendee
}

// RSVPStatus is a participant's self-reported attendance intent. It is only
// ever set by that participant and may change any number of times.
type RSVPStatus string

const (
	StatusGoing    RSVPStatus = "Going"
	StatusMaybe    RSVPStatus = "Maybe"
	StatusNotGoing RSVPStatus = "Not Going"
)

// Valid reports whether s is one of the three RSVP values.
func (s RSVPStatus) Valid() bool {
	return s == StatusGoing || s == StatusMaybe || s == StatusNotGoing
}

// Participant links a user to an event. Status is nil until the participant
// responds. Email is derived from the identity store at read time and is
// never persisted; stale values are overwritten on every read.
// swagger:model Participant
type Participant struct {
	UserID string      `json:"user_id"`
	Role   Role        `json:"role"`
	Status *RSVPStatus `json:"status,omitempty"`
	Email  string      `json:"email,omitempty"`
}

// Event is the aggregate root. Exactly one participant has the organizer
// role and its UserID equals OrganizerID; both are fixed at creation.
// Participants never contains the same user twice.
// swagger:model Event
type Event struct {
	ID string `json:"id"`
	// MongoID mirrors ID under the store's native "_id" key so clients
	// reading either field keep working.
	MongoID      string        `json:"_id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Date         time.Time     `json:"date"`
	Location     string        `json:"location"`
	OrganizerID  string        `json:"organizer_id"`
	Participants []Participant `json:"participants"`
}

// NewEvent returns an Event with the organizer enrolled as its sole
// participant. ID and MongoID are set by the repository on create.
func NewEvent(title, description string, date time.Time, location, organizerID string) *Event {
	return &Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		OrganizerID: organizerID,
		Participants: []Participant{
			{UserID: organizerID, Role: RoleOrganizer},
		},
	}
}

// IsParticipant reports whether userID appears on the participant list.
func (e *Event) IsParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CanDelete reports whether caller may delete the event. Organizer only.
func (e *Event) CanDelete(callerID string) bool {
	return e.OrganizerID == callerID
}

// CanInvite reports whether caller may invite others. Organizer only.
func (e *Event) CanInvite(callerID string) bool {
	return e.OrganizerID == callerID
}

// CanRead is always true: reads are public among authenticated users so
// events can be discovered through search.
func (e *Event) CanRead(callerID string) bool {
	return true
}

// CanJoin is always true: any authenticated user may attempt to join, and
// joining is idempotent for existing participants.
func (e *Event) CanJoin(callerID string) bool {
	return true
}

// SearchFilter holds the optional search predicates. Zero values mean
// "no filter"; all supplied predicates are ANDed.
type SearchFilter struct {
	// Keyword matches title or description, case-insensitive substring.
	Keyword   string
	StartDate *time.Time
	EndDate   *time.Time
	// Role keeps only events that have at least one participant with this
	// role; the returned events still carry all their participants.
	Role Role
}

// EventRepository defines the interface for event storage. Participant
// mutations are single atomic document updates so concurrent calls cannot
// produce duplicate participants or lost updates.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// Delete removes the event only if organizerID is its organizer.
	// Returns false both when the event does not exist and when the caller
	// is not the organizer.
	Delete(ctx context.Context, id, organizerID string) (bool, error)
	// AddParticipant appends p unless a participant with the same user id
	// already exists. Returns false without error when the guard failed,
	// which the caller disambiguates against its own prior read.
	AddParticipant(ctx context.Context, eventID string, p Participant) (added bool, err error)
	// SetParticipantStatus updates one participant's status in place.
	// Returns ErrNotFound if the event is absent or userID is not on it.
	SetParticipantStatus(ctx context.Context, eventID, userID string, status RSVPStatus) error
	ListByOrganizer(ctx context.Context, userID string) ([]*Event, error)
	ListByParticipant(ctx context.Context, userID string) ([]*Event, error)
	// Search returns all events matching filter, sorted by date ascending.
	Search(ctx context.Context, filter SearchFilter) ([]*Event, error)
}

// CreateEventInput carries the caller-supplied fields for a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
}

// EventService defines the business logic for event participation and
// discovery. Returned events are enriched with participant emails on a
// best-effort basis.
type EventService interface {
	Create(ctx context.Context, organizerID string, in CreateEventInput) (*Event, error)
	GetByID(ctx context.Context, eventID string) (*Event, error)
	// Delete returns ErrNotFound both for a missing event and for a caller
	// who is not the organizer.
	Delete(ctx context.Context, eventID, callerID string) error
	// Invite adds the user registered under email as an attendee. Fails
	// with ErrUserNotFound for unknown emails and ErrAlreadyParticipant for
	// users already on the list.
	Invite(ctx context.Context, eventID, callerID, email string) (*Event, error)
	// Join adds the caller as an attendee; joining an event the caller is
	// already on succeeds and leaves the event unchanged.
	Join(ctx context.Context, eventID, callerID string) (*Event, error)
	// Respond sets the caller's RSVP status. Fails with ErrNotFound if the
	// event is absent or the caller is not a participant.
	Respond(ctx context.Context, eventID, callerID string, status RSVPStatus) (*Event, error)
	ListOrganized(ctx context.Context, userID string) ([]*Event, error)
	ListParticipating(ctx context.Context, userID string) ([]*Event, error)
	Search(ctx context.Context, callerID string, filter SearchFilter) ([]*Event, error)
}
