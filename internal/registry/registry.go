// Package registry is the single access point to the persistence core. It
// owns the connection manager, registers the schema once per connected
// client and hands out the event and booking services.
package registry

import (
	"context"
	"errors"
	"sync"

	bookingsrepository "eventbook/internal/bookings/repository"
	bookingsservice "eventbook/internal/bookings/service"
	bookingsvalidator "eventbook/internal/bookings/validator"
	"eventbook/internal/events/cache"
	eventsrepository "eventbook/internal/events/repository"
	eventsservice "eventbook/internal/events/service"
	eventsvalidator "eventbook/internal/events/validator"
	mongomigrations "eventbook/internal/migrations/mongo"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	"eventbook/pkg/kafka"
	"eventbook/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// MigrateFunc registers collections, validators and indexes on db.
type MigrateFunc func(ctx context.Context, db *mongo.Database, log *logger.Logger) error

type Option func(*Registry)

func WithEventCache(c cache.EventCache) Option {
	return func(r *Registry) { r.cache = c }
}

func WithPublishers(events, bookings kafka.Publisher) Option {
	return func(r *Registry) {
		r.eventsPublisher = events
		r.bookingsPublisher = bookings
	}
}

func WithMigrate(fn MigrateFunc) Option {
	return func(r *Registry) { r.migrate = fn }
}

func withRedis(client *redis.Client) Option {
	return func(r *Registry) {
		r.redis = client
		r.closers = append(r.closers, client.Close)
	}
}

type Registry struct {
	cfg     *config.Config
	log     *logger.Logger
	manager *mongodb.Manager
	migrate MigrateFunc

	cache             cache.EventCache
	eventsPublisher   kafka.Publisher
	bookingsPublisher kafka.Publisher
	redis             *redis.Client
	closers           []func() error

	mu            sync.Mutex
	registeredFor *mongo.Client

	events   eventsservice.EventService
	bookings bookingsservice.BookingService
}

func New(cfg *config.Config, manager *mongodb.Manager, opts ...Option) *Registry {
	r := &Registry{
		cfg:               cfg,
		log:               cfg.Log.Component("registry"),
		manager:           manager,
		migrate:           mongomigrations.RunMigration,
		cache:             cache.NewNoopEventCache(),
		eventsPublisher:   kafka.NewNoopPublisher(),
		bookingsPublisher: kafka.NewNoopPublisher(),
	}
	for _, opt := range opts {
		opt(r)
	}

	eventRepo := eventsrepository.NewMongoEventRepository(cfg, r)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg, r)

	r.events = eventsservice.NewEventService(
		eventRepo,
		eventsvalidator.NewEventValidator(cfg.Log),
		bookingRepo,
		r.cache,
		r.eventsPublisher,
		cfg,
	)
	r.bookings = bookingsservice.NewBookingService(
		bookingRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		r.events,
		r.bookingsPublisher,
		cfg,
	)

	return r
}

func (r *Registry) Events() eventsservice.EventService {
	return r.events
}

func (r *Registry) Bookings() bookingsservice.BookingService {
	return r.bookings
}

func (r *Registry) Manager() *mongodb.Manager {
	return r.manager
}

// Redis returns the shared redis client, or nil when REDIS_ADDR is unset or
// unreachable.
func (r *Registry) Redis() *redis.Client {
	return r.redis
}

// Database connects if needed and returns the configured database with the
// schema registered. A failed registration is retried on the next call.
func (r *Registry) Database(ctx context.Context) (*mongo.Database, error) {
	client, err := r.manager.Connect(ctx)
	if err != nil {
		return nil, err
	}
	db := client.Database(r.cfg.MongoDatabaseName)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registeredFor == client {
		return db, nil
	}

	if err := r.migrate(ctx, db, r.log); err != nil {
		r.log.Error("Schema registration failed",
			"database", r.cfg.MongoDatabaseName,
			"error", err,
		)
		return nil, mongodb.StoreError("Failed to register schema", err)
	}
	r.registeredFor = client
	r.log.Info("Schema registered", "database", r.cfg.MongoDatabaseName)

	return db, nil
}

// Ping checks the store is reachable.
func (r *Registry) Ping(ctx context.Context) error {
	return r.manager.Ping(ctx)
}

// Close flushes publishers, closes the cache client and disconnects.
func (r *Registry) Close(ctx context.Context) error {
	var errs []error
	if err := r.eventsPublisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.bookingsPublisher.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := r.manager.Disconnect(ctx); err != nil {
		errs = append(errs, err)
	}

	r.mu.Lock()
	r.registeredFor = nil
	r.mu.Unlock()

	return errors.Join(errs...)
}
