package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "eventbook/internal/bookings/errors"
	mongomigrations "eventbook/internal/migrations/mongo"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	"eventbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = mongomigrations.BookingsCollection

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID string, limit int) ([]*model.Booking, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// bookingDocument is the stored shape; eventId is kept as an ObjectID so it
// matches events._id.
type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	EventID   primitive.ObjectID `bson:"eventId"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *bookingDocument) toModel() *model.Booking {
	return &model.Booking{
		ID:        d.ID.Hex(),
		EventID:   d.EventID.Hex(),
		Email:     d.Email,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type mongoBookingRepository struct {
	cfg *config.Config
	db  mongodb.DatabaseProvider
}

func NewMongoBookingRepository(cfg *config.Config, db mongodb.DatabaseProvider) BookingRepository {
	return &mongoBookingRepository{
		cfg: cfg,
		db:  db,
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(CollectionName), nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	eventID, err := primitive.ObjectIDFromHex(booking.EventID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, booking.EventID)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := bookingDocument{
		EventID:   eventID,
		Email:     booking.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var doc bookingDocument
	err = coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return doc.toModel(), nil
}

// ListByEvent returns the most recent bookings first. The sort matches the
// (eventId, createdAt desc) index.
func (r *mongoBookingRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]*model.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, eventID)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{"eventId": objectID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toModel())
	}
	return bookings, nil
}

func (r *mongoBookingRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidEventID, eventID)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"eventId": objectID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// Delete removes a booking. Only used to roll back an insert whose event
// disappeared concurrently.
func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}

	return nil
}
