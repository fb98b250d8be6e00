package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/eventsphere/backend/internal/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	result := r.db.Create(event)
	if result.Error != nil {
		return nil, result.Error
	}
	return event, nil
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

func (r *EventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}

func (r *EventRepository) GetByOrganizerID(organizerID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("organizer_id = ?", organizerID).Order("date ASC").Find(&events).Error
	return events, err
}

// ListApproved returns the publicly discoverable events: approved and
// geocoded. Radius filtering happens above this layer.
func (r *EventRepository) ListApproved(filter models.EventFilter) ([]models.Event, error) {
	query := r.db.Where("approval_status = ?", models.StatusApproved).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}

	var events []models.Event
	err := query.Order("date ASC").Find(&events).Error
	return events, err
}

func (r *EventRepository) ListPending() ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("approval_status = ?", models.StatusPending).
		Order("created_at ASC").Find(&events).Error
	return events, err
}

func (r *EventRepository) CountUpcomingApproved(from time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).
		Where("approval_status = ? AND date >= ?", models.StatusApproved, from).
		Count(&count).Error
	return count, err
}

func (r *EventRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Event{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *EventRepository) CountByCity() ([]models.CityCount, error) {
	var counts []models.CityCount
	err := r.db.Model(&models.Event{}).
		Select("city, COUNT(id) AS count").
		Where("city <> ''").
		Group("city").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
