package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "eventbook/pkg/errors"
	httputil "eventbook/pkg/http"
	"eventbook/pkg/logger"
	"eventbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEventService struct {
	createFunc func(ctx context.Context, event *model.Event) error
	listFunc   func(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error)
	getFunc    func(ctx context.Context, slug string) (*model.Event, error)
	updateFunc func(ctx context.Context, slug string, updates *model.EventUpdate) (*model.Event, error)
	deleteFunc func(ctx context.Context, slug string) error
}

func (m *mockEventService) Create(ctx context.Context, event *model.Event) error {
	return m.createFunc(ctx, event)
}

func (m *mockEventService) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return m.getFunc(ctx, slug)
}

func (m *mockEventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return nil, apperrors.NotFound("Event")
}

func (m *mockEventService) List(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
	return m.listFunc(ctx, limit, offset)
}

func (m *mockEventService) Update(ctx context.Context, slug string, updates *model.EventUpdate) (*model.Event, error) {
	return m.updateFunc(ctx, slug, updates)
}

func (m *mockEventService) Delete(ctx context.Context, slug string) error {
	return m.deleteFunc(ctx, slug)
}

func (m *mockEventService) Exists(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func newRouter(svc *mockEventService) *httprouter.Router {
	router := httprouter.New()
	NewEventHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	svc := &mockEventService{
		createFunc: func(ctx context.Context, event *model.Event) error {
			event.ID = "65f1c0a2e4b0a1b2c3d4e5f6"
			event.Slug = "react-summit"
			return nil
		},
	}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/events", `{"title":"React Summit"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Data model.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "react-summit", body.Data.Slug)
	assert.Equal(t, "React Summit", body.Data.Title)
}

func TestCreate_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed body", `{"title":`, nil, http.StatusBadRequest},
		{"validation", `{}`, apperrors.Validation("Title cannot be empty", map[string]any{"field": "title"}), http.StatusUnprocessableEntity},
		{"slug taken", `{}`, apperrors.UniquenessConflict("slug", "react-summit", nil), http.StatusConflict},
		{"store down", `{}`, apperrors.Unavailable("Database", nil), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockEventService{
				createFunc: func(ctx context.Context, event *model.Event) error { return tt.err },
			}
			rec := serve(newRouter(svc), http.MethodPost, "/api/v1/events", tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestList_InvalidQueryParameters(t *testing.T) {
	var receivedLimit int
	var receivedOffset int64
	svc := &mockEventService{
		listFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Event, int64, error) {
			receivedLimit, receivedOffset = limit, offset
			return []*model.Event{}, 0, nil
		},
	}
	router := newRouter(svc)

	rec := serve(router, http.MethodGet, "/api/v1/events?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(router, http.MethodGet, "/api/v1/events?limit=5&offset=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, receivedLimit)
	assert.Equal(t, int64(10), receivedOffset)

	var body httputil.PaginatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Limit)
	assert.Equal(t, int64(10), body.Offset)
}

func TestGetUpdateDelete(t *testing.T) {
	var updatedVenue string
	svc := &mockEventService{
		getFunc: func(ctx context.Context, slug string) (*model.Event, error) {
			if slug != "react-summit" {
				return nil, apperrors.NotFoundWithID("Event", slug)
			}
			return &model.Event{Slug: slug}, nil
		},
		updateFunc: func(ctx context.Context, slug string, updates *model.EventUpdate) (*model.Event, error) {
			updatedVenue = *updates.Venue
			return &model.Event{Slug: slug, Venue: *updates.Venue}, nil
		},
		deleteFunc: func(ctx context.Context, slug string) error {
			return apperrors.Conflict("Event has bookings")
		},
	}
	router := newRouter(svc)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/events/react-summit", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/events/missing", "").Code)

	rec := serve(router, http.MethodPatch, "/api/v1/events/react-summit", `{"venue":"Online"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Online", updatedVenue)

	assert.Equal(t, http.StatusConflict, serve(router, http.MethodDelete, "/api/v1/events/react-summit", "").Code)
}
