package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/pkg/maps"
	"github.com/eventsphere/backend/pkg/storage"
	"github.com/eventsphere/backend/pkg/utils"
)

var (
	ErrNotEventOwner    = errors.New("you don't have permission to manage this event")
	ErrInvalidEventDate = errors.New("invalid event date")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// EventStore is the persistence surface of the event catalog.
// *repository.EventRepository satisfies it.
type EventStore interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id uint) (*models.Event, error)
	Update(event *models.Event) error
	Delete(id uint) error
	GetByOrganizerID(organizerID uint) ([]models.Event, error)
	ListApproved(filter models.EventFilter) ([]models.Event, error)
	ListPending() ([]models.Event, error)
}

// RSVPStore is the persistence surface of the RSVP ledger.
// *repository.RSVPRepository satisfies it.
type RSVPStore interface {
	Upsert(rsvp *models.RSVP) error
	GetByEventAndAttendee(eventID, attendeeID uint) (*models.RSVP, error)
	Delete(eventID, attendeeID uint) error
	DeleteByEvent(eventID uint) error
	ListEventAttendees(eventID uint) ([]models.AttendeeEntry, error)
	ListNotificationEmails(eventID uint) ([]string, error)
	ListEventsForAttendee(attendeeID uint) ([]models.Event, error)
}

// Notifier sends the notification emails triggered by catalog and
// ledger mutations. Failures are logged by the implementation and
// never surfaced to the end user.
type Notifier interface {
	SendWelcomeEmail(to, username string) error
	SendEventApprovedEmail(to, title, location string, date time.Time) error
	SendEventRejectedEmail(to, title string) error
	SendRSVPConfirmationEmail(to, title, status string) error
	SendRSVPCancellationEmail(to, title string) error
	SendEventCancelledEmail(to, title string, date time.Time) error
}

// Geocoder enriches free-text locations with coordinates.
// *maps.Client satisfies it.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (maps.Location, bool)
}

type EventService struct {
	events  EventStore
	users   UserDirectory
	rsvps   RSVPStore
	mailer  Notifier
	geo     Geocoder
	storage storage.StorageService
	logger  *zap.Logger
}

func NewEventService(
	events EventStore,
	users UserDirectory,
	rsvps RSVPStore,
	mailer Notifier,
	geo Geocoder,
	store storage.StorageService,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events:  events,
		users:   users,
		rsvps:   rsvps,
		mailer:  mailer,
		geo:     geo,
		storage: store,
		logger:  logger,
	}
}

// CreateEvent registers a new event for approval. The location is
// geocoded up front; when geocoding misses, the event is stored
// without coordinates and stays out of discovery until edited.
func (s *EventService) CreateEvent(ctx context.Context, organizerID uint, req models.EventRequest) (*models.Event, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidEventDate
	}

	event := &models.Event{
		OrganizerID:    organizerID,
		Slug:           utils.GenerateSlug(),
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		City:           req.City,
		Date:           date,
		Time:           req.Time,
		Price:          req.Price,
		Capacity:       req.Capacity,
		TicketURL:      req.TicketURL,
		Category:       models.EventCategory(req.Category),
		ApprovalStatus: models.StatusPending,
	}

	s.geocodeEvent(ctx, event)

	return s.events.Create(event)
}

// GetVisibleEvent returns an event for the public detail page. Only
// approved events exist from the public's point of view.
func (s *EventService) GetVisibleEvent(eventID uint) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.ApprovalStatus != models.StatusApproved {
		return nil, ErrEventNotFound
	}
	return event, nil
}

// ListEvents is the discovery query: approved, geocoded events with
// optional category, city, and radius filters.
func (s *EventService) ListEvents(filter models.EventFilter) ([]models.Event, error) {
	events, err := s.events.ListApproved(filter)
	if err != nil {
		return nil, err
	}

	if filter.Lat == nil || filter.Lng == nil || filter.RadiusKm <= 0 {
		return events, nil
	}

	within := make([]models.Event, 0, len(events))
	for _, event := range events {
		if !event.HasCoordinates() {
			continue
		}
		if haversineKm(*filter.Lat, *filter.Lng, *event.Latitude, *event.Longitude) <= filter.RadiusKm {
			within = append(within, event)
		}
	}
	return within, nil
}

func (s *EventService) GetMyEvents(organizerID uint) ([]models.Event, error) {
	return s.events.GetByOrganizerID(organizerID)
}

func (s *EventService) UpdateEvent(ctx context.Context, eventID, organizerID uint, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}

	locationChanged := false
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil && *req.Location != event.Location {
		event.Location = *req.Location
		locationChanged = true
	}
	if req.City != nil && *req.City != event.City {
		event.City = *req.City
		locationChanged = true
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrInvalidEventDate
		}
		event.Date = date
	}
	if req.Time != nil {
		event.Time = *req.Time
	}
	if req.Price != nil {
		event.Price = *req.Price
	}
	if req.Capacity != nil {
		event.Capacity = req.Capacity
	}
	if req.TicketURL != nil {
		event.TicketURL = *req.TicketURL
	}
	if req.Category != nil {
		event.Category = models.EventCategory(*req.Category)
	}

	if locationChanged {
		event.Latitude = nil
		event.Longitude = nil
		s.geocodeEvent(ctx, event)
	}

	if err := s.events.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes the event and its RSVPs, then emails everyone
// who was going or interested. Notification failures are logged only.
func (s *EventService) DeleteEvent(eventID, organizerID uint) error {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return ErrNotEventOwner
	}

	recipients, err := s.rsvps.ListNotificationEmails(eventID)
	if err != nil {
		s.logger.Warn("failed to collect cancellation recipients",
			zap.Uint("event_id", eventID), zap.Error(err))
		recipients = nil
	}

	if err := s.rsvps.DeleteByEvent(eventID); err != nil {
		return err
	}
	if err := s.events.Delete(eventID); err != nil {
		return err
	}

	for _, to := range recipients {
		_ = s.mailer.SendEventCancelledEmail(to, event.Title, event.Date)
	}

	return nil
}

// SetApprovalStatus is the admin approval workflow. An actual status
// transition notifies the organizer; approving an already-approved
// event sends nothing.
func (s *EventService) SetApprovalStatus(eventID uint, status models.ApprovalStatus) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.ApprovalStatus == status {
		return event, nil
	}

	event.ApprovalStatus = status
	if err := s.events.Update(event); err != nil {
		return nil, err
	}

	organizer, err := s.users.GetByID(event.OrganizerID)
	if err != nil {
		s.logger.Warn("organizer lookup failed for status notification",
			zap.Uint("event_id", eventID), zap.Error(err))
		return event, nil
	}

	switch status {
	case models.StatusApproved:
		_ = s.mailer.SendEventApprovedEmail(organizer.Email, event.Title, event.Location, event.Date)
	case models.StatusRejected:
		_ = s.mailer.SendEventRejectedEmail(organizer.Email, event.Title)
	}

	return event, nil
}

func (s *EventService) ListPendingEvents() ([]models.Event, error) {
	return s.events.ListPending()
}

// UploadEventImage stores the image on R2 under a fresh key and saves
// the public URL on the event.
func (s *EventService) UploadEventImage(eventID, organizerID uint, file *multipart.FileHeader) (*models.Event, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := "events/" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := s.storage.Upload(key, src, file.Size, contentType); err != nil {
		return nil, err
	}

	if event.ImageKey != "" {
		if err := s.storage.Delete(event.ImageKey); err != nil {
			s.logger.Warn("failed to delete previous event image",
				zap.String("key", event.ImageKey), zap.Error(err))
		}
	}

	event.ImageKey = key
	event.ImageURL = s.storage.PublicURL(key)
	if err := s.events.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) ListAttendees(eventID, organizerID uint) ([]models.AttendeeEntry, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if event.OrganizerID != organizerID {
		return nil, ErrNotEventOwner
	}
	return s.rsvps.ListEventAttendees(eventID)
}

func (s *EventService) geocodeEvent(ctx context.Context, event *models.Event) {
	address := event.Location
	if event.City != "" {
		address = address + ", " + event.City
	}

	if loc, ok := s.geo.Geocode(ctx, address); ok {
		event.Latitude = &loc.Latitude
		event.Longitude = &loc.Longitude
	} else {
		s.logger.Info("event location could not be geocoded",
			zap.String("address", address))
	}
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
