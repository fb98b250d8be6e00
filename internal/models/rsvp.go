package models

import (
	"time"
)

type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "GOING"
	RSVPInterested RSVPStatus = "INTERESTED"
	RSVPNotGoing   RSVPStatus = "NOT_GOING"
)

// RSVP is unique per (event, attendee). Writes go through an upsert so
// concurrent submissions for the same pair collapse into one row.
type RSVP struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	EventID      uint       `json:"event_id" gorm:"not null;uniqueIndex:idx_event_attendee"`
	AttendeeID   uint       `json:"attendee_id" gorm:"not null;uniqueIndex:idx_event_attendee"`
	Status       RSVPStatus `json:"status" gorm:"not null"`
	ContactEmail string     `json:"contact_email"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type RSVPRequest struct {
	Status       string `json:"status" validate:"required,oneof=GOING INTERESTED NOT_GOING"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}
