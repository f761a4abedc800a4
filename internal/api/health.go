package api

import (
	"context"
	"net/http"
	"time"

	httputil "eventbook/pkg/http"
	kafka_middleware "eventbook/pkg/kafka/middleware"
	"eventbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const readyTimeout = 2 * time.Second

// Pinger checks the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status   string                            `json:"status"`
	Database string                            `json:"database,omitempty"`
	Publish  *kafka_middleware.MetricsSnapshot `json:"publish,omitempty"`
}

type HealthHandler struct {
	db      Pinger
	metrics *kafka_middleware.Metrics
	log     *logger.Logger
}

func NewHealthHandler(db Pinger, metrics *kafka_middleware.Metrics, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		metrics: metrics,
		log:     log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp := HealthResponse{Status: "ok"}
	if h.metrics != nil {
		snap := h.metrics.Snapshot()
		resp.Publish = &snap
	}
	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

// Ready connects on first use, so a cold instance becomes ready on the first
// readiness check that reaches the database.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ready",
		Database: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}
