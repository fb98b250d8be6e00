package models

import (
	"time"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

type EventCategory string

const (
	CategoryMusic     EventCategory = "music"
	CategorySports    EventCategory = "sports"
	CategoryArts      EventCategory = "arts"
	CategoryFood      EventCategory = "food"
	CategoryTech      EventCategory = "tech"
	CategoryBusiness  EventCategory = "business"
	CategoryEducation EventCategory = "education"
	CategoryOther     EventCategory = "other"
)

type Event struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizerID    uint           `json:"organizer_id" gorm:"not null;index"`
	Slug           string         `json:"slug" gorm:"unique;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"`
	Location       string         `json:"location" gorm:"not null"`
	City           string         `json:"city"`
	Latitude       *float64       `json:"latitude"`
	Longitude      *float64       `json:"longitude"`
	Date           time.Time      `json:"date" gorm:"not null"`
	Time           string         `json:"time"`
	Price          float64        `json:"price" gorm:"default:0"`
	Capacity       *int           `json:"capacity"`
	TicketURL      string         `json:"ticket_url"`
	ImageURL       string         `json:"image_url"`
	ImageKey       string         `json:"-"`
	Category       EventCategory  `json:"category" gorm:"not null;default:'other'"`
	ApprovalStatus ApprovalStatus `json:"approval_status" gorm:"not null;default:'PENDING'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// HasCoordinates reports whether the event was successfully geocoded.
// Only approved events with coordinates show up in discovery.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

type EventRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	City        string   `json:"city"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string   `json:"time"`
	Price       float64  `json:"price" validate:"gte=0"`
	Capacity    *int     `json:"capacity" validate:"omitempty,gt=0"`
	TicketURL   string   `json:"ticket_url" validate:"omitempty,url"`
	Category    string   `json:"category" validate:"required,event_category"`
}

type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Location    *string  `json:"location"`
	City        *string  `json:"city"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        *string  `json:"time"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Capacity    *int     `json:"capacity"`
	TicketURL   *string  `json:"ticket_url" validate:"omitempty,url"`
	Category    *string  `json:"category" validate:"omitempty,event_category"`
}

// EventFilter narrows public discovery queries. RadiusKm only applies
// when both Lat and Lng are present.
type EventFilter struct {
	Category string
	City     string
	Lat      *float64
	Lng      *float64
	RadiusKm float64
}

type AttendeeEntry struct {
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Status       RSVPStatus `json:"status"`
	ContactEmail string     `json:"contact_email"`
	CreatedAt    time.Time  `json:"created_at"`
}
