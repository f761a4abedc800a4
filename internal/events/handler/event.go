package handler

import (
	"encoding/json"
	"net/http"

	"eventbook/internal/events/service"
	apperrors "eventbook/pkg/errors"
	httputil "eventbook/pkg/http"
	"eventbook/pkg/logger"
	"eventbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type EventHandler struct {
	service service.EventService
	log     *logger.Logger
}

func NewEventHandler(service service.EventService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		log:     log,
	}
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/events", h.Create)
	router.GET("/api/v1/events", h.List)
	router.GET("/api/v1/events/:slug", h.GetBySlug)
	router.PATCH("/api/v1/events/:slug", h.Update)
	router.DELETE("/api/v1/events/:slug", h.Delete)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &event); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, event); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	events, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, events, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *EventHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		h.writeError(w, "GetBySlug", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	event, err := h.service.Update(r.Context(), ps.ByName("slug"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, event); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("slug")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EventHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
