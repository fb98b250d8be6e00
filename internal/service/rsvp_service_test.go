package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventsphere/backend/internal/models"
)

type rsvpKey struct {
	eventID    uint
	attendeeID uint
}

type fakeRSVPStore struct {
	rows map[rsvpKey]*models.RSVP
}

func newFakeRSVPStore() *fakeRSVPStore {
	return &fakeRSVPStore{rows: make(map[rsvpKey]*models.RSVP)}
}

func (f *fakeRSVPStore) Upsert(rsvp *models.RSVP) error {
	key := rsvpKey{rsvp.EventID, rsvp.AttendeeID}
	if existing, ok := f.rows[key]; ok {
		existing.Status = rsvp.Status
		existing.ContactEmail = rsvp.ContactEmail
		*rsvp = *existing
		return nil
	}
	rsvp.ID = uint(len(f.rows) + 1)
	f.rows[key] = rsvp
	return nil
}

func (f *fakeRSVPStore) GetByEventAndAttendee(eventID, attendeeID uint) (*models.RSVP, error) {
	rsvp, ok := f.rows[rsvpKey{eventID, attendeeID}]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return rsvp, nil
}

func (f *fakeRSVPStore) Delete(eventID, attendeeID uint) error {
	delete(f.rows, rsvpKey{eventID, attendeeID})
	return nil
}

func (f *fakeRSVPStore) DeleteByEvent(eventID uint) error {
	for key := range f.rows {
		if key.eventID == eventID {
			delete(f.rows, key)
		}
	}
	return nil
}

func (f *fakeRSVPStore) ListEventAttendees(eventID uint) ([]models.AttendeeEntry, error) {
	return nil, nil
}

func (f *fakeRSVPStore) ListNotificationEmails(eventID uint) ([]string, error) {
	return nil, nil
}

func (f *fakeRSVPStore) ListEventsForAttendee(attendeeID uint) ([]models.Event, error) {
	return nil, nil
}

// fakeNotifier records every email it was asked to send. When failWith
// is set, all sends fail with it.
type fakeNotifier struct {
	failWith error
	sent     []string
}

func (f *fakeNotifier) record(kind, to string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, kind+":"+to)
	return nil
}

func (f *fakeNotifier) SendWelcomeEmail(to, username string) error {
	return f.record("welcome", to)
}

func (f *fakeNotifier) SendEventApprovedEmail(to, title, location string, date time.Time) error {
	return f.record("approved", to)
}

func (f *fakeNotifier) SendEventRejectedEmail(to, title string) error {
	return f.record("rejected", to)
}

func (f *fakeNotifier) SendRSVPConfirmationEmail(to, title, status string) error {
	return f.record("rsvp-confirm", to)
}

func (f *fakeNotifier) SendRSVPCancellationEmail(to, title string) error {
	return f.record("rsvp-cancel", to)
}

func (f *fakeNotifier) SendEventCancelledEmail(to, title string, date time.Time) error {
	return f.record("event-cancelled", to)
}

func newRSVPFixture(events ...*models.Event) (*RSVPService, *fakeRSVPStore, *fakeNotifier) {
	store := newFakeRSVPStore()
	finder := &fakeEventFinder{events: make(map[uint]*models.Event)}
	for _, e := range events {
		finder.events[e.ID] = e
	}
	dir := &fakeUserDirectory{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com"},
	}}
	notifier := &fakeNotifier{}
	return NewRSVPService(store, finder, dir, notifier), store, notifier
}

func TestRSVPUpsert(t *testing.T) {
	pending := geocodedEvent(2)
	pending.ApprovalStatus = models.StatusPending

	t.Run("unknown event", func(t *testing.T) {
		svc, _, _ := newRSVPFixture()
		_, err := svc.Upsert(99, 1, models.RSVPRequest{Status: "GOING"})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("event not approved", func(t *testing.T) {
		svc, _, _ := newRSVPFixture(pending)
		_, err := svc.Upsert(2, 1, models.RSVPRequest{Status: "GOING"})
		assert.ErrorIs(t, err, ErrEventNotBookable)
	})

	t.Run("creates and confirms", func(t *testing.T) {
		svc, store, notifier := newRSVPFixture(geocodedEvent(1))

		rsvp, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "GOING"})
		require.NoError(t, err)
		assert.Equal(t, models.RSVPGoing, rsvp.Status)
		assert.Len(t, store.rows, 1)
		assert.Equal(t, []string{"rsvp-confirm:alice@example.com"}, notifier.sent)
	})

	t.Run("contact email override wins", func(t *testing.T) {
		svc, _, notifier := newRSVPFixture(geocodedEvent(1))

		_, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "GOING", ContactEmail: "other@example.com"})
		require.NoError(t, err)
		assert.Equal(t, []string{"rsvp-confirm:other@example.com"}, notifier.sent)
	})

	t.Run("resubmission updates in place", func(t *testing.T) {
		svc, store, _ := newRSVPFixture(geocodedEvent(1))

		first, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "INTERESTED"})
		require.NoError(t, err)

		second, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "GOING"})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, models.RSVPGoing, second.Status)
		assert.Len(t, store.rows, 1)
	})

	t.Run("email failure does not fail the rsvp", func(t *testing.T) {
		svc, store, notifier := newRSVPFixture(geocodedEvent(1))
		notifier.failWith = fmt.Errorf("smtp down")

		_, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "GOING"})
		require.NoError(t, err)
		assert.Len(t, store.rows, 1)
	})
}

func TestRSVPCancel(t *testing.T) {
	t.Run("no existing rsvp", func(t *testing.T) {
		svc, _, _ := newRSVPFixture(geocodedEvent(1))
		err := svc.Cancel(1, 1)
		assert.ErrorIs(t, err, ErrRSVPNotFound)
	})

	t.Run("removes and notifies", func(t *testing.T) {
		svc, store, notifier := newRSVPFixture(geocodedEvent(1))

		_, err := svc.Upsert(1, 1, models.RSVPRequest{Status: "GOING"})
		require.NoError(t, err)

		require.NoError(t, svc.Cancel(1, 1))
		assert.Empty(t, store.rows)
		assert.Contains(t, notifier.sent, "rsvp-cancel:alice@example.com")
	})
}
