package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventbook/internal/migrations/mongo/validators"
	"eventbook/pkg/logger"
)

const (
	EventsCollection   = "events"
	BookingsCollection = "bookings"

	SlugIndexName = "slug_unique"
)

var (
	EventsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName(SlugIndexName).SetUnique(true),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{
			{Key: "eventId", Value: 1},
			{Key: "createdAt", Value: -1},
		}},
	}
)

type collectionDef struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the stores write to, in creation order.
func Collections() []collectionDef {
	return []collectionDef{
		{Name: EventsCollection, Indexes: EventsIndexes, Validator: validators.EventValidator},
		{Name: BookingsCollection, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
	}
}

// RunMigration creates the collections, their $jsonSchema validators and
// their indexes. Re-running it against an up-to-date database is harmless.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully", "database", db.Name())
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			// Another process may have created it between the list and the create.
			if !isNamespaceExists(err) {
				return fmt.Errorf("failed creating %s: %w", name, err)
			}
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating collection validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	coll := db.Collection(name)
	created, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Debug("Ensured indexes", "collection", name, "indexes", created)
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 48 || cmdErr.Name == "NamespaceExists"
	}
	return false
}
