package service

import (
	"errors"

	"github.com/eventsphere/backend/internal/models"
)

var (
	ErrRSVPNotFound     = errors.New("no RSVP found for this event")
	ErrEventNotBookable = errors.New("this event is not open for RSVPs")
)

type RSVPService struct {
	rsvps  RSVPStore
	events EventFinder
	users  UserDirectory
	mailer Notifier
}

func NewRSVPService(rsvps RSVPStore, events EventFinder, users UserDirectory, mailer Notifier) *RSVPService {
	return &RSVPService{
		rsvps:  rsvps,
		events: events,
		users:  users,
		mailer: mailer,
	}
}

// Upsert records or updates the attendee's RSVP for an approved event.
// Repeated submissions for the same pair always resolve to one row.
// The confirmation email is best effort.
func (s *RSVPService) Upsert(eventID, attendeeID uint, req models.RSVPRequest) (*models.RSVP, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.ApprovalStatus != models.StatusApproved {
		return nil, ErrEventNotBookable
	}

	rsvp := &models.RSVP{
		EventID:      eventID,
		AttendeeID:   attendeeID,
		Status:       models.RSVPStatus(req.Status),
		ContactEmail: req.ContactEmail,
	}
	if err := s.rsvps.Upsert(rsvp); err != nil {
		return nil, err
	}

	if to := s.notificationAddress(attendeeID, rsvp.ContactEmail); to != "" {
		_ = s.mailer.SendRSVPConfirmationEmail(to, event.Title, string(rsvp.Status))
	}

	return rsvp, nil
}

// Cancel removes the RSVP and sends a best-effort cancellation notice.
func (s *RSVPService) Cancel(eventID, attendeeID uint) error {
	rsvp, err := s.rsvps.GetByEventAndAttendee(eventID, attendeeID)
	if err != nil {
		return ErrRSVPNotFound
	}

	if err := s.rsvps.Delete(eventID, attendeeID); err != nil {
		return err
	}

	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil
	}
	if to := s.notificationAddress(attendeeID, rsvp.ContactEmail); to != "" {
		_ = s.mailer.SendRSVPCancellationEmail(to, event.Title)
	}

	return nil
}

func (s *RSVPService) GetMyEvents(attendeeID uint) ([]models.Event, error) {
	return s.rsvps.ListEventsForAttendee(attendeeID)
}

func (s *RSVPService) notificationAddress(attendeeID uint, contactOverride string) string {
	if contactOverride != "" {
		return contactOverride
	}
	if user, err := s.users.GetByID(attendeeID); err == nil {
		return user.Email
	}
	return ""
}
