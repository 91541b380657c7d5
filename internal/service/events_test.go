package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/api/internal/models"
	"eventdesk/api/internal/repository"
)

type fakeEventStore struct {
	nextID   int64
	events   map[int64]models.Event
	sessions map[int64][]models.Session
	order    []int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{
		nextID:   1,
		events:   make(map[int64]models.Event),
		sessions: make(map[int64][]models.Session),
	}
}

func (f *fakeEventStore) Create(_ context.Context, event models.Event, sessions []models.Session) (int64, error) {
	event.ID = f.nextID
	event.CreatedAt = time.Now()
	f.nextID++
	f.events[event.ID] = event
	for i := range sessions {
		sessions[i].EventID = event.ID
		sessions[i].ID = int64(i + 1)
	}
	f.sessions[event.ID] = sessions
	f.order = append(f.order, event.ID)
	return event.ID, nil
}

func (f *fakeEventStore) ListActive(context.Context) ([]models.Event, error) {
	var out []models.Event
	for i := len(f.order) - 1; i >= 0; i-- {
		e := f.events[f.order[i]]
		if e.Status == models.EventStatusArchived {
			continue
		}
		e.Sessions = f.sessions[e.ID]
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventStore) GetActive(_ context.Context, id int64) (models.Event, error) {
	e, ok := f.events[id]
	if !ok || e.Status == models.EventStatusArchived {
		return models.Event{}, repository.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventStore) GetStatus(_ context.Context, id int64) (models.EventStatus, error) {
	e, ok := f.events[id]
	if !ok {
		return "", repository.ErrEventNotFound
	}
	return e.Status, nil
}

func (f *fakeEventStore) TransitionStatus(_ context.Context, id int64, to models.EventStatus) (bool, error) {
	e, ok := f.events[id]
	if !ok || e.Status == models.EventStatusArchived {
		return false, nil
	}
	e.Status = to
	f.events[id] = e
	return true, nil
}

func (f *fakeEventStore) SessionsWithVenue(_ context.Context, eventID int64) ([]models.Session, error) {
	return f.sessions[eventID], nil
}

type fakeUserDirectory struct {
	users map[int64]models.User
}

func (f *fakeUserDirectory) ListByIDs(_ context.Context, ids []int64) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func newEventService(store *fakeEventStore, users *fakeUserDirectory) *EventService {
	if users == nil {
		users = &fakeUserDirectory{users: map[int64]models.User{}}
	}
	return NewEventService(store, users, zerolog.Nop())
}

func chainedRoom(building string) *models.Room {
	return &models.Room{
		RoomNo: "101",
		Floor: &models.Floor{
			Name:     "Ground",
			Building: &models.Building{Name: building},
		},
	}
}

func TestCreateDefaultsToDraft(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{
		Name:          "Seminar",
		StartDatetime: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 1, 1, 17, 0, 0, 0, time.UTC),
	}, models.User{ID: 3})
	require.NoError(t, err)

	event := store.events[id]
	assert.Equal(t, models.EventStatusDraft, event.Status)
	assert.Equal(t, int64(3), event.HostUserID)
}

func TestCreateRejectsTerminalInitialStatus(t *testing.T) {
	svc := newEventService(newFakeEventStore(), nil)

	_, err := svc.Create(context.Background(), CreateEventInput{
		Name:          "Seminar",
		Status:        models.EventStatusArchived,
		StartDatetime: time.Now(),
		EndDatetime:   time.Now(),
	}, models.User{ID: 3})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListVenueFirstResolvedSessionWins(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Expo"}, models.User{ID: 1})
	require.NoError(t, err)

	// First session has a broken chain, second resolves.
	store.sessions[id] = []models.Session{
		{ID: 1, EventID: id, Room: &models.Room{RoomNo: "13"}},
		{ID: 2, EventID: id, Room: chainedRoom("Science Hall")},
	}

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	assert.Equal(t, 2, summaries[0].SessionsCount)
	require.NotNil(t, summaries[0].Venue)
	assert.Equal(t, "Science Hall", *summaries[0].Venue)
}

func TestListVenueNilWhenNoChainResolves(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Expo"}, models.User{ID: 1})
	require.NoError(t, err)
	store.sessions[id] = []models.Session{
		{ID: 1, EventID: id},
		{ID: 2, EventID: id, Room: &models.Room{RoomNo: "5", Floor: &models.Floor{Name: "2F"}}},
	}

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].Venue)
	assert.Equal(t, 2, summaries[0].SessionsCount)
}

func TestListExcludesArchived(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	keep, err := svc.Create(context.Background(), CreateEventInput{Name: "Keep"}, models.User{ID: 1})
	require.NoError(t, err)
	gone, err := svc.Create(context.Background(), CreateEventInput{Name: "Gone"}, models.User{ID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(context.Background(), gone))

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, keep, summaries[0].ID)
}

func TestViewMissingSpeakerRowYieldsNilSpeaker(t *testing.T) {
	store := newFakeEventStore()
	users := &fakeUserDirectory{users: map[int64]models.User{
		21: {ID: 21, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.edu"},
	}}
	svc := newEventService(store, users)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Talks"}, models.User{ID: 1})
	require.NoError(t, err)

	known := int64(21)
	unknown := int64(99)
	store.sessions[id] = []models.Session{
		{ID: 1, EventID: id, SpeakerID: &known, Room: chainedRoom("Main")},
		{ID: 2, EventID: id, SpeakerID: &unknown},
		{ID: 3, EventID: id},
	}

	details, err := svc.View(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, details.Sessions, 3)

	require.NotNil(t, details.Sessions[0].Speaker)
	assert.Equal(t, "Ada Lovelace", details.Sessions[0].Speaker.Name)
	assert.Equal(t, "ada@example.edu", details.Sessions[0].Speaker.Email)
	require.NotNil(t, details.Sessions[0].Venue)
	assert.Equal(t, "Main", details.Sessions[0].Venue.Building)

	assert.Nil(t, details.Sessions[1].Speaker)
	assert.Nil(t, details.Sessions[1].Venue)
	assert.Nil(t, details.Sessions[2].Speaker)
}

func TestViewArchivedIsNotFound(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Old"}, models.User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(context.Background(), id))

	_, err = svc.View(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishTransitions(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Launch", Status: models.EventStatusUpcoming}, models.User{ID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Publish(context.Background(), id))
	assert.Equal(t, models.EventStatusPublished, store.events[id].Status)

	assert.ErrorIs(t, svc.Publish(context.Background(), 999), ErrNotFound)
}

func TestPublishArchivedConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Launch"}, models.User{ID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(context.Background(), id))

	assert.ErrorIs(t, svc.Publish(context.Background(), id), ErrConflict)
}

func TestArchiveTwiceConflicts(t *testing.T) {
	store := newFakeEventStore()
	svc := newEventService(store, nil)

	id, err := svc.Create(context.Background(), CreateEventInput{Name: "Old"}, models.User{ID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.Archive(context.Background(), id))
	assert.ErrorIs(t, svc.Archive(context.Background(), id), ErrConflict)
	assert.ErrorIs(t, svc.Archive(context.Background(), 999), ErrNotFound)
}
