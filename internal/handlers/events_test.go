package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/api/internal/models"
	"eventdesk/api/internal/repository"
	"eventdesk/api/internal/service"
)

// memEventStore keeps just enough state to drive the event handlers through
// the real service without a database.
type memEventStore struct {
	nextID int64
	events map[int64]models.Event
	byID   map[int64][]models.Session
}

func newMemEventStore() *memEventStore {
	return &memEventStore{nextID: 1, events: map[int64]models.Event{}, byID: map[int64][]models.Session{}}
}

func (m *memEventStore) Create(_ context.Context, event models.Event, sessions []models.Session) (int64, error) {
	event.ID = m.nextID
	m.nextID++
	event.CreatedAt = time.Now()
	m.events[event.ID] = event
	for i := range sessions {
		sessions[i].ID = int64(i + 1)
		sessions[i].EventID = event.ID
	}
	m.byID[event.ID] = sessions
	return event.ID, nil
}

func (m *memEventStore) ListActive(context.Context) ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.events {
		if e.Status == models.EventStatusArchived {
			continue
		}
		e.Sessions = m.byID[e.ID]
		out = append(out, e)
	}
	return out, nil
}

func (m *memEventStore) GetActive(_ context.Context, id int64) (models.Event, error) {
	e, ok := m.events[id]
	if !ok || e.Status == models.EventStatusArchived {
		return models.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (m *memEventStore) GetStatus(_ context.Context, id int64) (models.EventStatus, error) {
	e, ok := m.events[id]
	if !ok {
		return "", repository.ErrEventNotFound
	}
	return e.Status, nil
}

func (m *memEventStore) TransitionStatus(_ context.Context, id int64, to models.EventStatus) (bool, error) {
	e, ok := m.events[id]
	if !ok || e.Status == models.EventStatusArchived {
		return false, nil
	}
	e.Status = to
	m.events[id] = e
	return true, nil
}

func (m *memEventStore) SessionsWithVenue(_ context.Context, eventID int64) ([]models.Session, error) {
	return m.byID[eventID], nil
}

type memUsers struct{}

func (memUsers) ListByIDs(context.Context, []int64) ([]models.User, error) { return nil, nil }

func newEventsRouter(store *memEventStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := HandlerSet{
		log:    zerolog.Nop(),
		events: service.NewEventService(store, memUsers{}, zerolog.Nop()),
	}

	actor := models.User{ID: 42, Role: models.RoleElevated}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("current_user", actor)
	})
	r.POST("/events", h.CreateEvent)
	r.GET("/events/:id", h.ViewEvent)
	r.PATCH("/events/:id/publish", h.PublishEvent)
	r.PATCH("/events/:id/archive", h.ArchiveEvent)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateEventEndToEnd(t *testing.T) {
	store := newMemEventStore()
	r := newEventsRouter(store)

	body := `{
		"event_name": "Seminar",
		"start_datetime": "2025-01-01T09:00:00Z",
		"end_datetime": "2025-01-01T17:00:00Z",
		"sessions": [{
			"session_topic": "Intro",
			"session_date": "2025-01-01",
			"session_start_time": "09:00",
			"session_end_time": "10:00",
			"session_building_id": 1,
			"session_floor_id": 2,
			"session_room_id": 101
		}]
	}`

	w := do(r, http.MethodPost, "/events", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":1`)

	view := do(r, http.MethodGet, "/events/1", "")
	require.Equal(t, http.StatusOK, view.Code)
	assert.Contains(t, view.Body.String(), `"status":"draft"`)
	assert.Contains(t, view.Body.String(), `"topic":"Intro"`)
	assert.Contains(t, view.Body.String(), `"date":"2025-01-01"`)

	event := store.events[1]
	assert.Equal(t, int64(42), event.HostUserID)
}

func TestCreateEventRejectsMissingFields(t *testing.T) {
	r := newEventsRouter(newMemEventStore())

	w := do(r, http.MethodPost, "/events", `{"event_description":"no name"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEventRejectsBadSessionDate(t *testing.T) {
	r := newEventsRouter(newMemEventStore())

	body := `{
		"event_name": "Seminar",
		"start_datetime": "2025-01-01T09:00:00Z",
		"end_datetime": "2025-01-01T17:00:00Z",
		"sessions": [{
			"session_date": "01/01/2025",
			"session_start_time": "09:00",
			"session_end_time": "10:00",
			"session_building_id": 1,
			"session_floor_id": 2,
			"session_room_id": 101
		}]
	}`

	w := do(r, http.MethodPost, "/events", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "session_date")
}

func TestPublishArchiveLifecycle(t *testing.T) {
	store := newMemEventStore()
	r := newEventsRouter(store)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/events",
		`{"event_name":"E","start_datetime":"2025-01-01T09:00:00Z","end_datetime":"2025-01-01T17:00:00Z"}`).Code)

	w := do(r, http.MethodPatch, "/events/1/publish", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"published"`)

	w = do(r, http.MethodPatch, "/events/1/archive", "")
	require.Equal(t, http.StatusOK, w.Code)

	// Archived is terminal: re-archive and publish both conflict, and the
	// event disappears from view.
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/events/1/archive", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/events/1/publish", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/events/1", "").Code)
}

func TestTransitionMissingEventIs404(t *testing.T) {
	r := newEventsRouter(newMemEventStore())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/events/7/publish", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/events/7/archive", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/events/abc/publish", "").Code)
}
