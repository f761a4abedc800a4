package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventserrors "eventbook/internal/events/errors"
	mongomigrations "eventbook/internal/migrations/mongo"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	"eventbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = mongomigrations.EventsCollection

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error)
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, event *model.Event) error
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, event *model.Event) error
}

type mongoEventRepository struct {
	cfg *config.Config
	db  mongodb.DatabaseProvider
}

func NewMongoEventRepository(cfg *config.Config, db mongodb.DatabaseProvider) EventRepository {
	return &mongoEventRepository{
		cfg: cfg,
		db:  db,
	}
}

// withTimeout bounds ctx by timeout, keeping an earlier caller deadline.
func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(CollectionName), nil
}

func (r *mongoEventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	event.ID = ""
	event.CreatedAt = now
	event.UpdatedAt = now

	result, err := coll.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", eventserrors.ErrSlugConflict, event.Slug)
		}
		return fmt.Errorf("failed to create event: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		event.ID = oid.Hex()
	}

	return nil
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoEventRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, slug)
}

func (r *mongoEventRepository) findOne(ctx context.Context, filter bson.M, key string) (*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	var event model.Event
	err = coll.FindOne(ctx, filter).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", eventserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return &event, nil
}

func (r *mongoEventRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Event, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []*model.Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

func (r *mongoEventRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Exists reports whether an event with the given ID is stored. A malformed ID
// yields ErrInvalidID rather than false.
func (r *mongoEventRepository) Exists(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return false, err
	}

	count, err := coll.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to look up event: %w", err)
	}
	return count > 0, nil
}

func (r *mongoEventRepository) Update(ctx context.Context, id string, event *model.Event) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	event.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": objectID}
	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"slug":        event.Slug,
			"description": event.Description,
			"overview":    event.Overview,
			"image":       event.Image,
			"venue":       event.Venue,
			"location":    event.Location,
			"date":        event.Date,
			"time":        event.Time,
			"mode":        event.Mode,
			"audience":    event.Audience,
			"agenda":      event.Agenda,
			"organizer":   event.Organizer,
			"tags":        event.Tags,
			"updatedAt":   event.UpdatedAt,
		},
	}

	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", eventserrors.ErrSlugConflict, event.Slug)
		}
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", eventserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoEventRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, id)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", eventserrors.ErrNotFound, id)
	}

	return nil
}

// Restore re-inserts a deleted event under its original ID and timestamps.
func (r *mongoEventRepository) Restore(ctx context.Context, event *model.Event) error {
	objectID, err := primitive.ObjectIDFromHex(event.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", eventserrors.ErrInvalidID, event.ID)
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	coll, err := r.collection(ctx)
	if err != nil {
		return err
	}

	doc := *event
	doc.ID = ""
	raw, err := bson.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	fields["_id"] = objectID

	if _, err := coll.InsertOne(ctx, fields); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", eventserrors.ErrSlugConflict, event.Slug)
		}
		return fmt.Errorf("failed to restore event: %w", err)
	}

	return nil
}
