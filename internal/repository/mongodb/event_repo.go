package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"eventplanner/internal/domain"
)

// eventDocument and participantDocument are the stored shapes of an event.
// The transient Participant.Email field has no column here: emails are
// derived from the Users collection at read time and never persisted.
type eventDocument struct {
	ID           bson.ObjectID         `bson:"_id,omitempty"`
	Title        string                `bson:"title"`
	Description  string                `bson:"description"`
	Date         time.Time             `bson:"date"`
	Location     string                `bson:"location"`
	OrganizerID  string                `bson:"organizer_id"`
	Participants []participantDocument `bson:"participants"`
}

type participantDocument struct {
	UserID string  `bson:"user_id"`
	Role   string  `bson:"role"`
	Status *string `bson:"status,omitempty"`
}

func (d *eventDocument) toDomain() *domain.Event {
	participants := make([]domain.Participant, 0, len(d.Participants))
	for _, p := range d.Participants {
		dp := domain.Participant{
			UserID: p.UserID,
			Role:   domain.Role(p.Role),
		}
		if p.Status != nil {
			status := domain.RSVPStatus(*p.Status)
			dp.Status = &status
		}
		participants = append(participants, dp)
	}
	id := d.ID.Hex()
	return &domain.Event{
		ID:           id,
		MongoID:      id,
		Title:        d.Title,
		Description:  d.Description,
		Date:         d.Date,
		Location:     d.Location,
		OrganizerID:  d.OrganizerID,
		Participants: participants,
	}
}

func toParticipantDocument(p domain.Participant) participantDocument {
	doc := participantDocument{
		UserID: p.UserID,
		Role:   string(p.Role),
	}
	if p.Status != nil {
		s := string(*p.Status)
		doc.Status = &s
	}
	return doc
}

// EventRepo implements domain.EventRepository on the Events collection.
// Every participant mutation is a single atomic update so concurrent calls
// against the same event cannot lose writes or duplicate participants.
type EventRepo struct {
	coll *mongo.Collection
}

// NewEventRepo creates an EventRepo backed by the given database.
func NewEventRepo(db *mongo.Database) *EventRepo {
	return &EventRepo{coll: db.Collection(eventsCollection)}
}

func (r *EventRepo) Create(ctx context.Context, event *domain.Event) error {
	participants := make([]participantDocument, 0, len(event.Participants))
	for _, p := range event.Participants {
		participants = append(participants, toParticipantDocument(p))
	}
	doc := eventDocument{
		Title:        event.Title,
		Description:  event.Description,
		Date:         event.Date,
		Location:     event.Location,
		OrganizerID:  event.OrganizerID,
		Participants: participants,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	event.ID = oid.Hex()
	event.MongoID = event.ID
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc eventDocument
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete filters on both id and organizer so a non-organizer deleting an
// existing event and anyone deleting a missing event look identical.
func (r *EventRepo) Delete(ctx context.Context, id, organizerID string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "organizer_id": organizerID})
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// AddParticipant pushes p onto the participant array guarded by a $ne match
// on the user id, so two concurrent appends of the same user cannot both
// succeed. A false return means the event was missing or the user already
// on the list; the caller disambiguates against its own prior read.
func (r *EventRepo) AddParticipant(ctx context.Context, eventID string, p domain.Participant) (bool, error) {
	oid, err := bson.ObjectIDFromHex(eventID)
	if err != nil {
		return false, domain.ErrNotFound
	}
	filter := bson.M{
		"_id":                  oid,
		"participants.user_id": bson.M{"$ne": p.UserID},
	}
	update := bson.M{"$push": bson.M{"participants": toParticipantDocument(p)}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add participant: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *EventRepo) SetParticipantStatus(ctx context.Context, eventID, userID string, status domain.RSVPStatus) error {
	oid, err := bson.ObjectIDFromHex(eventID)
	if err != nil {
		return domain.ErrNotFound
	}
	filter := bson.M{"_id": oid, "participants.user_id": userID}
	update := bson.M{"$set": bson.M{"participants.$.status": string(status)}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set participant status: %w", err)
	}
	// MatchedCount, not ModifiedCount: re-sending the current status is a
	// valid no-op, whereas matching nothing means event or participant is
	// absent.
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EventRepo) ListByOrganizer(ctx context.Context, userID string) ([]*domain.Event, error) {
	return r.findAll(ctx, bson.M{"organizer_id": userID}, nil)
}

func (r *EventRepo) ListByParticipant(ctx context.Context, userID string) ([]*domain.Event, error) {
	return r.findAll(ctx, bson.M{"participants.user_id": userID}, nil)
}

func (r *EventRepo) Search(ctx context.Context, filter domain.SearchFilter) ([]*domain.Event, error) {
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.findAll(ctx, searchQuery(filter), sort)
}

// searchQuery builds the filter document for Search. All supplied
// predicates are ANDed; the keyword is regex-escaped and matched
// case-insensitively against title or description.
func searchQuery(f domain.SearchFilter) bson.M {
	query := bson.M{}
	if f.Keyword != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Keyword), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	dateRange := bson.M{}
	if f.StartDate != nil {
		dateRange["$gte"] = *f.StartDate
	}
	if f.EndDate != nil {
		dateRange["$lte"] = *f.EndDate
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	if f.Role != "" {
		query["participants.role"] = string(f.Role)
	}
	return query
}

func (r *EventRepo) findAll(ctx context.Context, filter bson.M, opts *options.FindOptionsBuilder) ([]*domain.Event, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.coll.Find(ctx, filter, opts)
	} else {
		cursor, err = r.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*domain.Event{}
	for cursor.Next(ctx) {
		var doc eventDocument
		if err := cursor.Decode(&doc); err != nil {
			// One malformed stored document must not abort the listing.
			continue
		}
		events = append(events, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
