package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kafka_middleware "eventbook/pkg/kafka/middleware"
	"eventbook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func serveHealth(h *HealthHandler, path string) *httptest.ResponseRecorder {
	router := httprouter.New()
	h.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReady(t *testing.T) {
	rec := serveHealth(NewHealthHandler(fakePinger{}, nil, logger.Discard()), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serveHealth(NewHealthHandler(fakePinger{err: errors.New("no primary")}, nil, logger.Discard()), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body.Status)
}

func TestHealth_ReportsPublishMetrics(t *testing.T) {
	metrics := &kafka_middleware.Metrics{}
	metrics.MessagesPublished.Add(3)

	rec := serveHealth(NewHealthHandler(fakePinger{err: errors.New("down")}, metrics, logger.Discard()), "/health")
	require.Equal(t, http.StatusOK, rec.Code, "liveness does not depend on the database")

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Publish)
	assert.Equal(t, int64(3), body.Publish.MessagesPublished)
}
