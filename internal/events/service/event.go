package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventbook/internal/events/cache"
	eventserrors "eventbook/internal/events/errors"
	"eventbook/internal/events/repository"
	"eventbook/internal/events/validator"
	"eventbook/pkg/config"
	mongodb "eventbook/pkg/db/mongo"
	apperrors "eventbook/pkg/errors"
	"eventbook/pkg/kafka"
	"eventbook/pkg/model"
	"eventbook/pkg/sanitizer"
)

type EventService interface {
	Create(ctx context.Context, event *model.Event) error
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	Update(ctx context.Context, slug string, updates *model.EventUpdate) (*model.Event, error)
	Delete(ctx context.Context, slug string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingCounter reports how many bookings reference an event.
type BookingCounter interface {
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

type eventService struct {
	repo      repository.EventRepository
	validator *validator.EventValidator
	bookings  BookingCounter
	cache     cache.EventCache
	publisher kafka.Publisher
	cfg       *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	validator *validator.EventValidator,
	bookings BookingCounter,
	cache cache.EventCache,
	publisher kafka.Publisher,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:      repo,
		validator: validator,
		bookings:  bookings,
		cache:     cache,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *eventService) Create(ctx context.Context, event *model.Event) error {
	event.ID = ""
	event.Slug = ""
	s.sanitize(event)

	if err := s.validateAndNormalize(nil, event); err != nil {
		s.cfg.Log.Warn("Event validation failed",
			"title", event.Title,
			"error", err,
		)
		return err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		if errors.Is(err, eventserrors.ErrSlugConflict) {
			s.cfg.Log.Warn("Event slug already taken",
				"title", event.Title,
				"slug", event.Slug,
			)
			return apperrors.UniquenessConflict("slug", event.Slug, err)
		}
		s.cfg.Log.Error("Failed to create event",
			"title", event.Title,
			"slug", event.Slug,
			"error", err,
		)
		return mongodb.StoreError("Failed to create event", err)
	}

	s.cfg.Log.Info("Event created successfully",
		"id", event.ID,
		"slug", event.Slug,
		"date", event.Date,
		"time", event.Time,
	)
	s.publisher.Publish(ctx, kafka.EventTypeEventCreated, event.ID, event)

	return nil
}

func (s *eventService) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	slug = sanitizer.NormalizeLine(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("Event slug cannot be empty")
	}

	if event, ok := s.cache.Get(ctx, slug); ok {
		return event, nil
	}

	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.lookupError(err, "slug", slug)
	}

	s.cache.Set(ctx, event)
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Event ID cannot be empty")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, "id", id)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var events []*model.Event
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count events", "error", err)
			errCount = mongodb.StoreError("Failed to count events", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		events, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list events",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = mongodb.StoreError("Failed to retrieve events", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return events, count, nil
}

func (s *eventService) Update(ctx context.Context, slug string, updates *model.EventUpdate) (*model.Event, error) {
	slug = sanitizer.NormalizeLine(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("Event slug cannot be empty")
	}

	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, s.lookupError(err, "slug", slug)
	}

	s.sanitizeUpdate(updates)
	merged := updates.Apply(existing)
	if err := s.validateAndNormalize(existing, merged); err != nil {
		s.cfg.Log.Warn("Event validation failed",
			"id", existing.ID,
			"slug", slug,
			"error", err,
		)
		return nil, err
	}

	if err := s.repo.Update(ctx, existing.ID, merged); err != nil {
		switch {
		case errors.Is(err, eventserrors.ErrSlugConflict):
			return nil, apperrors.UniquenessConflict("slug", merged.Slug, err)
		case errors.Is(err, eventserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Event", slug)
		}
		s.cfg.Log.Error("Failed to update event",
			"id", existing.ID,
			"error", err,
		)
		return nil, mongodb.StoreError("Failed to update event", err)
	}
	s.cache.Invalidate(ctx, existing.Slug, merged.Slug)

	s.cfg.Log.Info("Event updated successfully",
		"id", merged.ID,
		"slug", merged.Slug,
	)
	s.publisher.Publish(ctx, kafka.EventTypeEventUpdated, merged.ID, merged)

	return merged, nil
}

// Delete removes an event that no booking references. Events with bookings
// are kept and reported as a conflict.
func (s *eventService) Delete(ctx context.Context, slug string) error {
	slug = sanitizer.NormalizeLine(slug)
	if slug == "" {
		return apperrors.InvalidInput("Event slug cannot be empty")
	}

	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return s.lookupError(err, "slug", slug)
	}

	count, err := s.bookings.CountByEvent(ctx, existing.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings for event",
			"id", existing.ID,
			"error", err,
		)
		return mongodb.StoreError("Failed to check event bookings", err)
	}
	if count > 0 {
		s.cfg.Log.Warn("Refusing to delete event with bookings",
			"id", existing.ID,
			"slug", slug,
			"bookings", count,
		)
		return hasBookingsError(existing, count)
	}

	if err := s.repo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event", slug)
		}
		s.cfg.Log.Error("Failed to delete event",
			"id", existing.ID,
			"error", err,
		)
		return mongodb.StoreError("Failed to delete event", err)
	}
	s.cache.Invalidate(ctx, existing.Slug)

	// A booking inserted between the count and the delete would be left
	// pointing at nothing. Count again and put the event back if one landed.
	count, err = s.bookings.CountByEvent(ctx, existing.ID)
	if err != nil || count > 0 {
		if restoreErr := s.repo.Restore(ctx, existing); restoreErr != nil {
			s.cfg.Log.Error("Failed to restore event after concurrent booking",
				"id", existing.ID,
				"error", restoreErr,
			)
			return mongodb.StoreError("Failed to restore event", restoreErr)
		}
		if err != nil {
			s.cfg.Log.Error("Failed to recount bookings for event",
				"id", existing.ID,
				"error", err,
			)
			return mongodb.StoreError("Failed to check event bookings", err)
		}
		s.cfg.Log.Warn("Restored event after concurrent booking",
			"id", existing.ID,
			"slug", slug,
			"bookings", count,
		)
		return hasBookingsError(existing, count)
	}

	s.cfg.Log.Info("Event deleted successfully", "id", existing.ID, "slug", slug)
	s.publisher.Publish(ctx, kafka.EventTypeEventDeleted, existing.ID, map[string]string{
		"id":   existing.ID,
		"slug": existing.Slug,
	})

	return nil
}

func hasBookingsError(event *model.Event, count int64) *apperrors.AppError {
	return apperrors.Conflict(fmt.Sprintf("Event %q has %d booking(s) and cannot be deleted", event.Slug, count)).
		WithDetails(map[string]any{
			"event_id": event.ID,
			"bookings": count,
			"reason":   eventserrors.ErrHasBookings.Error(),
		})
}

// Exists backs the booking referential check. Lookup failures are returned
// as errors, never as false.
func (s *eventService) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, apperrors.InvalidInput("Event ID cannot be empty")
	}

	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		if errors.Is(err, eventserrors.ErrInvalidID) {
			return false, apperrors.InvalidInput("Invalid event ID format")
		}
		s.cfg.Log.Error("Failed to look up event", "id", id, "error", err)
		return false, mongodb.StoreError("Failed to look up event", err)
	}
	return ok, nil
}

func (s *eventService) validateAndNormalize(prev, next *model.Event) error {
	err := s.validator.Validate(next)
	if err == nil {
		err = s.validator.Normalize(prev, next)
	}
	if err == nil {
		return nil
	}

	var verr validator.ValidationError
	if errors.As(err, &verr) {
		return apperrors.Validation(verr.Message, map[string]any{
			"field": verr.Field,
		})
	}
	return apperrors.Validation("Event validation failed", map[string]any{
		"error": err.Error(),
	})
}

func (s *eventService) lookupError(err error, key, value string) error {
	switch {
	case errors.Is(err, eventserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Event", value)
	case errors.Is(err, eventserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid event ID format")
	}
	s.cfg.Log.Error("Failed to get event",
		key, value,
		"error", err,
	)
	return mongodb.StoreError("Failed to retrieve event", err)
}

func (s *eventService) sanitize(event *model.Event) {
	event.Title = sanitizer.NormalizeLine(event.Title)
	event.Description = sanitizer.NormalizeText(event.Description)
	event.Overview = sanitizer.NormalizeText(event.Overview)
	event.Image = sanitizer.NormalizeLine(event.Image)
	event.Venue = sanitizer.NormalizeLine(event.Venue)
	event.Location = sanitizer.NormalizeLine(event.Location)
	event.Date = sanitizer.NormalizeLine(event.Date)
	event.Time = sanitizer.NormalizeLine(event.Time)
	event.Mode = sanitizer.NormalizeMode(event.Mode)
	event.Audience = sanitizer.NormalizeLine(event.Audience)
	event.Agenda = sanitizer.NormalizeAgenda(event.Agenda)
	event.Organizer = sanitizer.NormalizeLine(event.Organizer)
	event.Tags = sanitizer.NormalizeTags(event.Tags)
}

func (s *eventService) sanitizeUpdate(u *model.EventUpdate) {
	if u == nil {
		return
	}
	line := func(p *string) {
		if p != nil {
			*p = sanitizer.NormalizeLine(*p)
		}
	}
	line(u.Title)
	line(u.Image)
	line(u.Venue)
	line(u.Location)
	line(u.Date)
	line(u.Time)
	line(u.Audience)
	line(u.Organizer)
	if u.Description != nil {
		*u.Description = sanitizer.NormalizeText(*u.Description)
	}
	if u.Overview != nil {
		*u.Overview = sanitizer.NormalizeText(*u.Overview)
	}
	if u.Mode != nil {
		*u.Mode = sanitizer.NormalizeMode(*u.Mode)
	}
	if u.Agenda != nil {
		*u.Agenda = sanitizer.NormalizeAgenda(*u.Agenda)
	}
	if u.Tags != nil {
		*u.Tags = sanitizer.NormalizeTags(*u.Tags)
	}
}
