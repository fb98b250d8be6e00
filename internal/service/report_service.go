package service

import (
	"bytes"
	"encoding/csv"
	"math"
	"time"

	"github.com/eventsphere/backend/internal/models"
)

// UserCounter, EventReporter, and RSVPReporter are the read-only
// aggregation surfaces behind the admin dashboard.
type UserCounter interface {
	CountUsers() (int64, error)
	CountUsersSince(since time.Time) (int64, error)
}

type EventReporter interface {
	CountUpcomingApproved(from time.Time) (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	CountByCity() ([]models.CityCount, error)
}

type RSVPReporter interface {
	CountAll() (int64, error)
	CountDistinctAttendees() (int64, error)
	CountByCity() ([]models.CityCount, error)
}

type ReportService struct {
	users  UserCounter
	events EventReporter
	rsvps  RSVPReporter
}

func NewReportService(users UserCounter, events EventReporter, rsvps RSVPReporter) *ReportService {
	return &ReportService{
		users:  users,
		events: events,
		rsvps:  rsvps,
	}
}

// Dashboard assembles the admin overview from the underlying stores.
func (s *ReportService) Dashboard() (*models.DashboardStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthAgo := now.AddDate(0, 0, -30)

	totalUsers, err := s.users.CountUsers()
	if err != nil {
		return nil, err
	}

	activeEvents, err := s.events.CountUpcomingApproved(today)
	if err != nil {
		return nil, err
	}

	totalRSVPs, err := s.rsvps.CountAll()
	if err != nil {
		return nil, err
	}

	engagedUsers, err := s.rsvps.CountDistinctAttendees()
	if err != nil {
		return nil, err
	}

	var engagementRate float64
	if totalUsers > 0 {
		engagementRate = math.Round(float64(engagedUsers)/float64(totalUsers)*100*100) / 100
	}

	eventsByCity, err := s.events.CountByCity()
	if err != nil {
		return nil, err
	}

	rsvpsByCity, err := s.rsvps.CountByCity()
	if err != nil {
		return nil, err
	}

	recentUsers, err := s.users.CountUsersSince(monthAgo)
	if err != nil {
		return nil, err
	}

	recentEvents, err := s.events.CountCreatedSince(monthAgo)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalUsers:     totalUsers,
		ActiveEvents:   activeEvents,
		TotalRSVPs:     totalRSVPs,
		EngagedUsers:   engagedUsers,
		EngagementRate: engagementRate,
		EventsByCity:   eventsByCity,
		RSVPsByCity:    rsvpsByCity,
		RecentUsers:    recentUsers,
		RecentEvents:   recentEvents,
	}, nil
}

// AttendeesCSV renders an attendee list as a CSV document.
func AttendeesCSV(entries []models.AttendeeEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"username", "email", "status", "contact_email", "created_at"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.Username,
			entry.Email,
			string(entry.Status),
			entry.ContactEmail,
			entry.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
