package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventsphere/backend/internal/models"
)

type RSVPRepository struct {
	db *gorm.DB
}

func NewRSVPRepository(db *gorm.DB) *RSVPRepository {
	return &RSVPRepository{db: db}
}

// Upsert writes the RSVP for an (event, attendee) pair. Concurrent
// submissions hit the unique index and collapse into an update.
func (r *RSVPRepository) Upsert(rsvp *models.RSVP) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "attendee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "contact_email", "updated_at"}),
	}).Create(rsvp).Error
}

func (r *RSVPRepository) GetByEventAndAttendee(eventID, attendeeID uint) (*models.RSVP, error) {
	var rsvp models.RSVP
	err := r.db.Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *RSVPRepository) Delete(eventID, attendeeID uint) error {
	return r.db.Where("event_id = ? AND attendee_id = ?", eventID, attendeeID).
		Delete(&models.RSVP{}).Error
}

func (r *RSVPRepository) DeleteByEvent(eventID uint) error {
	return r.db.Where("event_id = ?", eventID).Delete(&models.RSVP{}).Error
}

func (r *RSVPRepository) ListEventAttendees(eventID uint) ([]models.AttendeeEntry, error) {
	var entries []models.AttendeeEntry
	err := r.db.Model(&models.RSVP{}).
		Select("users.username, users.email, rsvps.status, rsvps.contact_email, rsvps.created_at").
		Joins("JOIN users ON users.id = rsvps.attendee_id").
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.created_at ASC").
		Scan(&entries).Error
	return entries, err
}

// ListNotificationEmails returns the addresses to notify when an event
// is cancelled: everyone going or interested, preferring the RSVP's
// contact override over the account email.
func (r *RSVPRepository) ListNotificationEmails(eventID uint) ([]string, error) {
	var rows []struct {
		Email        string
		ContactEmail string
	}
	err := r.db.Model(&models.RSVP{}).
		Select("users.email, rsvps.contact_email").
		Joins("JOIN users ON users.id = rsvps.attendee_id").
		Where("rsvps.event_id = ? AND rsvps.status IN ?", eventID,
			[]models.RSVPStatus{models.RSVPGoing, models.RSVPInterested}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.ContactEmail != "" {
			emails = append(emails, row.ContactEmail)
		} else {
			emails = append(emails, row.Email)
		}
	}
	return emails, nil
}

func (r *RSVPRepository) ListEventsForAttendee(attendeeID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Model(&models.Event{}).
		Joins("JOIN rsvps ON rsvps.event_id = events.id").
		Where("rsvps.attendee_id = ?", attendeeID).
		Order("events.date ASC").
		Find(&events).Error
	return events, err
}

func (r *RSVPRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.RSVP{}).Count(&count).Error
	return count, err
}

func (r *RSVPRepository) CountDistinctAttendees() (int64, error) {
	var count int64
	err := r.db.Model(&models.RSVP{}).Distinct("attendee_id").Count(&count).Error
	return count, err
}

func (r *RSVPRepository) CountByCity() ([]models.CityCount, error) {
	var counts []models.CityCount
	err := r.db.Model(&models.RSVP{}).
		Select("events.city, COUNT(rsvps.id) AS count").
		Joins("JOIN events ON events.id = rsvps.event_id").
		Where("events.city <> ''").
		Group("events.city").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
