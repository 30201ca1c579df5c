package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"eventplanner/internal/domain"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID       map[string]*domain.User
	nextID     int
	createErr  error
	listErr    error // if set, ListByIDs fails (simulates identity store outage)
	getByIDErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(email string) *domain.User {
	u := &domain.User{ID: fmt.Sprintf("user-%d", f.nextID), Email: email}
	f.nextID++
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeEventRepo is an in-memory EventRepository mimicking the store's
// atomic-update semantics. Reads return copies, like decoding fresh
// documents does, so callers cannot mutate stored state in place.
type fakeEventRepo struct {
	byID       map[string]*domain.Event
	nextID     int
	createErr  error
	searchErr  error
	lastFilter domain.SearchFilter
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func cloneEvent(e *domain.Event) *domain.Event {
	cp := *e
	cp.Participants = make([]domain.Participant, len(e.Participants))
	copy(cp.Participants, e.Participants)
	for i, p := range e.Participants {
		if p.Status != nil {
			s := *p.Status
			cp.Participants[i].Status = &s
		}
	}
	return &cp
}

func (f *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	event.ID = fmt.Sprintf("ev-%d", f.nextID)
	event.MongoID = event.ID
	f.nextID++
	f.byID[event.ID] = cloneEvent(event)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if e, ok := f.byID[id]; ok {
		return cloneEvent(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Delete(ctx context.Context, id, organizerID string) (bool, error) {
	e, ok := f.byID[id]
	if !ok || e.OrganizerID != organizerID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeEventRepo) AddParticipant(ctx context.Context, eventID string, p domain.Participant) (bool, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return false, nil
	}
	for _, existing := range e.Participants {
		if existing.UserID == p.UserID {
			return false, nil
		}
	}
	e.Participants = append(e.Participants, p)
	return true, nil
}

func (f *fakeEventRepo) SetParticipantStatus(ctx context.Context, eventID, userID string, status domain.RSVPStatus) error {
	e, ok := f.byID[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range e.Participants {
		if e.Participants[i].UserID == userID {
			s := status
			e.Participants[i].Status = &s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeEventRepo) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.OrganizerID == userID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range f.byID {
		if e.IsParticipant(userID) {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Event, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastFilter = filter
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// fakeHasher avoids bcrypt cost in service tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "digest:" + password, nil }
func (fakeHasher) Verify(password, digest string) bool  { return digest == "digest:"+password }

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct {
	err error
}

func (f *fakeTokenIssuer) Issue(subjectID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + subjectID, nil
}

// fakeEmailService records invitation emails and can fail on demand.
type fakeEmailService struct {
	err  error
	sent []*domain.EventInvitationEmailData
}

func (f *fakeEmailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
