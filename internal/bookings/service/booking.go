package service

import (
	"context"
	"errors"

	bookingserrors "eventbook/internal/bookings/errors"
	"eventbook/internal/bookings/repository"
	"eventbook/internal/bookings/validator"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	apperrors "eventbook/pkg/errors"
	"eventbook/pkg/kafka"
	"eventbook/pkg/model"
	"eventbook/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByEvent(ctx context.Context, eventID string, limit int) ([]*model.Booking, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

// EventLookup resolves the event a booking points at. A lookup failure must
// be returned as an error, not as false.
type EventLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	events    EventLookup
	publisher kafka.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	events EventLookup,
	publisher kafka.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		events:    events,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs validate, normalize, the referential check and the insert in
// that order. Nothing is written unless every step before the insert passed.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	s.sanitize(booking)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"event_id", booking.EventID,
			"error", err,
		)
		var verr validator.ValidationError
		if errors.As(err, &verr) {
			return apperrors.Validation(verr.Message, map[string]any{"field": verr.Field})
		}
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.checkEventExists(ctx, booking.EventID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidEventID) {
			return apperrors.InvalidInput("Invalid event ID format")
		}
		s.cfg.Log.Error("Failed to create booking",
			"event_id", booking.EventID,
			"error", err,
		)
		return mongodb.StoreError("Failed to create booking", err)
	}

	// The event may have been deleted between the check and the insert.
	if err := s.checkEventExists(ctx, booking.EventID); err != nil {
		s.rollback(ctx, booking)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"event_id", booking.EventID,
	)
	s.publisher.Publish(ctx, kafka.EventTypeBookingCreated, booking.EventID, booking)

	return nil
}

func (s *bookingService) checkEventExists(ctx context.Context, eventID string) error {
	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		s.cfg.Log.Error("Failed to verify booked event",
			"event_id", eventID,
			"error", err,
		)
		return mongodb.StoreError("Failed to verify event", err)
	}
	if !exists {
		s.cfg.Log.Warn("Booking references a missing event", "event_id", eventID)
		appErr := apperrors.ReferentialIntegrity("Event", eventID)
		appErr.Details["event_id"] = eventID
		return appErr
	}
	return nil
}

func (s *bookingService) rollback(ctx context.Context, booking *model.Booking) {
	if err := s.repo.Delete(ctx, booking.ID); err != nil {
		s.cfg.Log.Error("Failed to roll back booking for deleted event",
			"id", booking.ID,
			"event_id", booking.EventID,
			"error", err,
		)
		return
	}
	s.cfg.Log.Warn("Rolled back booking for deleted event",
		"id", booking.ID,
		"event_id", booking.EventID,
	)
	booking.ID = ""
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID",
			"id", id,
			"error", err,
		)
		return nil, mongodb.StoreError("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByEvent(ctx context.Context, eventID string, limit int) ([]*model.Booking, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}
	limit = config.NormalizePaginationLimit(limit)

	bookings, err := s.repo.ListByEvent(ctx, eventID, limit)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidEventID) {
			return nil, apperrors.InvalidInput("Invalid event ID format")
		}
		s.cfg.Log.Error("Failed to list bookings for event",
			"event_id", eventID,
			"limit", limit,
			"error", err,
		)
		return nil, mongodb.StoreError("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	count, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidEventID) {
			return 0, apperrors.InvalidInput("Invalid event ID format")
		}
		return 0, mongodb.StoreError("Failed to count bookings", err)
	}
	return count, nil
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.EventID = sanitizer.NormalizeLine(b.EventID)
	b.Email = sanitizer.NormalizeEmail(b.Email)
}
