package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eventbook/pkg/config"
	"eventbook/pkg/logger"
	"eventbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

type routes func(*httprouter.Router)

func (r routes) RegisterRoutes(router *httprouter.Router) { r(router) }

func testConfig() *config.Config {
	return &config.Config{
		Port:            config.DefaultPort,
		RequestTimeout:  time.Second,
		MaxRequestSize:  1024,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
		Log:             logger.Discard(),
	}
}

func TestSetApp_RoutesAndMiddleware(t *testing.T) {
	store := middleware.NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
		r.GET("/ready", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	})
	api := routes(func(r *httprouter.Router) {
		r.POST("/api/v1/events", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		})
		r.GET("/api/v1/panic", func(http.ResponseWriter, *http.Request, httprouter.Params) {
			panic("boom")
		})
	})

	a := NewApplication(testConfig())
	a.SetApp(health, api, store)
	h := a.Handler()

	do := func(method, path, contentType string) int {
		req := httptest.NewRequest(method, path, strings.NewReader("{}"))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/health", ""))
	assert.Equal(t, http.StatusServiceUnavailable, do(http.MethodGet, "/ready", ""))
	assert.Equal(t, http.StatusCreated, do(http.MethodPost, "/api/v1/events", "application/json"))
	assert.Equal(t, http.StatusUnsupportedMediaType, do(http.MethodPost, "/api/v1/events", "text/plain"))
	assert.Equal(t, http.StatusInternalServerError, do(http.MethodGet, "/api/v1/panic", ""))
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/unknown", ""))
}
