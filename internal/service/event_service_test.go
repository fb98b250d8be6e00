package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/pkg/maps"
)

type fakeEventStore struct {
	nextID uint
	events map[uint]*models.Event
}

func newFakeEventStore(events ...*models.Event) *fakeEventStore {
	store := &fakeEventStore{events: make(map[uint]*models.Event)}
	for _, e := range events {
		store.events[e.ID] = e
		if e.ID > store.nextID {
			store.nextID = e.ID
		}
	}
	return store
}

func (f *fakeEventStore) Create(event *models.Event) (*models.Event, error) {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventStore) GetByID(id uint) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return event, nil
}

func (f *fakeEventStore) Update(event *models.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) Delete(id uint) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) GetByOrganizerID(organizerID uint) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListApproved(filter models.EventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.ApprovalStatus == models.StatusApproved && e.HasCoordinates() {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListPending() ([]models.Event, error) {
	var out []models.Event
	for _, e := range f.events {
		if e.ApprovalStatus == models.StatusPending {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeGeocoder struct {
	locations map[string]maps.Location
}

func (f *fakeGeocoder) Geocode(ctx context.Context, address string) (maps.Location, bool) {
	loc, ok := f.locations[address]
	return loc, ok
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(key string, reader io.Reader, size int64, contentType string) error {
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeStorage) Delete(key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type eventFixture struct {
	svc      *EventService
	store    *fakeEventStore
	rsvps    *fakeRSVPStore
	notifier *fakeNotifier
	geo      *fakeGeocoder
}

func newEventFixture(events ...*models.Event) *eventFixture {
	store := newFakeEventStore(events...)
	rsvps := newFakeRSVPStore()
	notifier := &fakeNotifier{}
	geo := &fakeGeocoder{locations: make(map[string]maps.Location)}
	dir := &fakeUserDirectory{users: map[string]*models.User{
		"org": {ID: 10, Username: "org", Email: "org@example.com"},
	}}

	svc := NewEventService(store, dir, rsvps, notifier, geo, &fakeStorage{}, zap.NewNop())
	return &eventFixture{svc: svc, store: store, rsvps: rsvps, notifier: notifier, geo: geo}
}

func strPtr(s string) *string { return &s }

func TestCreateEvent(t *testing.T) {
	baseReq := models.EventRequest{
		Title:    "Summer Concert",
		Location: "Central Park",
		City:     "New York",
		Date:     "2026-10-01",
		Category: "music",
	}

	t.Run("invalid date", func(t *testing.T) {
		fx := newEventFixture()
		req := baseReq
		req.Date = "10/01/2026"

		_, err := fx.svc.CreateEvent(context.Background(), 10, req)
		assert.ErrorIs(t, err, ErrInvalidEventDate)
	})

	t.Run("geocoded on create", func(t *testing.T) {
		fx := newEventFixture()
		fx.geo.locations["Central Park, New York"] = maps.Location{Latitude: 40.78, Longitude: -73.96}

		event, err := fx.svc.CreateEvent(context.Background(), 10, baseReq)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, event.ApprovalStatus)
		assert.NotEmpty(t, event.Slug)
		require.True(t, event.HasCoordinates())
		assert.Equal(t, 40.78, *event.Latitude)
	})

	t.Run("geocode miss still creates", func(t *testing.T) {
		fx := newEventFixture()

		event, err := fx.svc.CreateEvent(context.Background(), 10, baseReq)
		require.NoError(t, err)
		assert.False(t, event.HasCoordinates())
	})
}

func TestGetVisibleEvent(t *testing.T) {
	pending := geocodedEvent(2)
	pending.ApprovalStatus = models.StatusPending
	fx := newEventFixture(geocodedEvent(1), pending)

	event, err := fx.svc.GetVisibleEvent(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), event.ID)

	// Pending events do not exist publicly.
	_, err = fx.svc.GetVisibleEvent(2)
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = fx.svc.GetVisibleEvent(99)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestListEvents_RadiusFilter(t *testing.T) {
	manhattan := geocodedEvent(1)

	boston := geocodedEvent(2)
	boston.Latitude = floatPtr(42.36)
	boston.Longitude = floatPtr(-71.06)

	fx := newEventFixture(manhattan, boston)

	// Without coordinates, everything approved comes back.
	all, err := fx.svc.ListEvents(models.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Searching near midtown Manhattan keeps only the local event.
	near, err := fx.svc.ListEvents(models.EventFilter{
		Lat:      floatPtr(40.75),
		Lng:      floatPtr(-73.98),
		RadiusKm: 25,
	})
	require.NoError(t, err)
	require.Len(t, near, 1)
	assert.Equal(t, manhattan.ID, near[0].ID)
}

func TestUpdateEvent(t *testing.T) {
	t.Run("only the owner can update", func(t *testing.T) {
		event := geocodedEvent(1)
		event.OrganizerID = 10
		fx := newEventFixture(event)

		_, err := fx.svc.UpdateEvent(context.Background(), 1, 42, models.UpdateEventRequest{Title: strPtr("New")})
		assert.ErrorIs(t, err, ErrNotEventOwner)
	})

	t.Run("location change re-geocodes", func(t *testing.T) {
		event := geocodedEvent(1)
		event.OrganizerID = 10
		event.City = "New York"
		fx := newEventFixture(event)
		fx.geo.locations["Harlem, New York"] = maps.Location{Latitude: 40.81, Longitude: -73.94}

		updated, err := fx.svc.UpdateEvent(context.Background(), 1, 10, models.UpdateEventRequest{
			Location: strPtr("Harlem"),
		})
		require.NoError(t, err)
		require.True(t, updated.HasCoordinates())
		assert.Equal(t, 40.81, *updated.Latitude)
	})

	t.Run("location change with geocode miss drops coordinates", func(t *testing.T) {
		event := geocodedEvent(1)
		event.OrganizerID = 10
		fx := newEventFixture(event)

		updated, err := fx.svc.UpdateEvent(context.Background(), 1, 10, models.UpdateEventRequest{
			Location: strPtr("Somewhere unknown"),
		})
		require.NoError(t, err)
		assert.False(t, updated.HasCoordinates())
	})
}

func TestSetApprovalStatus(t *testing.T) {
	t.Run("approval notifies the organizer once", func(t *testing.T) {
		event := geocodedEvent(1)
		event.OrganizerID = 10
		event.ApprovalStatus = models.StatusPending
		fx := newEventFixture(event)

		approved, err := fx.svc.SetApprovalStatus(1, models.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, approved.ApprovalStatus)
		assert.Equal(t, []string{"approved:org@example.com"}, fx.notifier.sent)

		// Re-approving is a no-op and sends nothing.
		_, err = fx.svc.SetApprovalStatus(1, models.StatusApproved)
		require.NoError(t, err)
		assert.Len(t, fx.notifier.sent, 1)
	})

	t.Run("rejection notifies the organizer", func(t *testing.T) {
		event := geocodedEvent(1)
		event.OrganizerID = 10
		event.ApprovalStatus = models.StatusPending
		fx := newEventFixture(event)

		_, err := fx.svc.SetApprovalStatus(1, models.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, []string{"rejected:org@example.com"}, fx.notifier.sent)
	})
}

func TestDeleteEvent(t *testing.T) {
	event := geocodedEvent(1)
	event.OrganizerID = 10
	fx := newEventFixture(event)

	err := fx.svc.DeleteEvent(1, 42)
	assert.ErrorIs(t, err, ErrNotEventOwner)

	require.NoError(t, fx.svc.DeleteEvent(1, 10))
	_, err = fx.store.GetByID(1)
	assert.Error(t, err)
}

func TestUploadEventImage_RejectsNonImages(t *testing.T) {
	event := geocodedEvent(1)
	event.OrganizerID = 10
	fx := newEventFixture(event)

	file := &multipart.FileHeader{
		Filename: "notes.txt",
		Header:   textproto.MIMEHeader{"Content-Type": []string{"text/plain"}},
	}

	_, err := fx.svc.UploadEventImage(1, 10, file)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = fx.svc.UploadEventImage(1, 42, file)
	assert.ErrorIs(t, err, ErrNotEventOwner)
}
