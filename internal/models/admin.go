package models

type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// DashboardStats is the read-only aggregate view for the admin panel.
type DashboardStats struct {
	TotalUsers     int64       `json:"total_users"`
	ActiveEvents   int64       `json:"active_events"`
	TotalRSVPs     int64       `json:"total_rsvps"`
	EngagedUsers   int64       `json:"engaged_users"`
	EngagementRate float64     `json:"engagement_rate"`
	EventsByCity   []CityCount `json:"events_by_city"`
	RSVPsByCity    []CityCount `json:"rsvps_by_city"`
	RecentUsers    int64       `json:"recent_users"`
	RecentEvents   int64       `json:"recent_events"`
}
