package maps

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/eventsphere/backend/internal/config"
)

const (
	geocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	routesURL  = "https://routes.googleapis.com/directions/v2:computeRoutes"
)

// Client talks to the Google Maps geocoding and routing APIs. Every
// call carries the configured timeout.
type Client struct {
	httpClient *http.Client
	apiKey     string
	logger     *zap.Logger
}

func NewClient(cfg config.MapsConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
