package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"eventbook/internal/bookings/service"
	apperrors "eventbook/pkg/errors"
	httputil "eventbook/pkg/http"
	"eventbook/pkg/logger"
	"eventbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// EventResolver finds the event behind a slug in the URL.
type EventResolver interface {
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
}

type BookingHandler struct {
	service service.BookingService
	events  EventResolver
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, events EventResolver, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		events:  events,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.GET("/api/v1/events/:slug/bookings", h.ListByEvent)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// ListByEvent returns the most recent bookings for the event, newest first.
func (h *BookingHandler) ListByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.writeError(w, "ListByEvent", apperrors.InvalidInput("invalid limit parameter: "+s))
			return
		}
		limit = v
	}

	event, err := h.events.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		h.writeError(w, "ListByEvent", err)
		return
	}

	bookings, err := h.service.ListByEvent(r.Context(), event.ID, limit)
	if err != nil {
		h.writeError(w, "ListByEvent", err)
		return
	}

	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByEvent", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
