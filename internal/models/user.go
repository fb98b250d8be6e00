package models

import (
	"time"
)

type UserRole string

const (
	RoleOrganizer UserRole = "ORGANIZER"
	RoleAttendee  UserRole = "ATTENDEE"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	IsAdmin   bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProfile holds the role-specific half of an account. Organization
// fields are only meaningful for ORGANIZER profiles.
type UserProfile struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"user_id" gorm:"unique;not null"`
	Role             UserRole  `json:"role" gorm:"not null;default:'ATTENDEE'"`
	ContactEmail     string    `json:"contact_email"`
	OrganizationName string    `json:"organization_name"`
	PhoneNumber      string    `json:"phone_number"`
	Bio              string    `json:"bio"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
