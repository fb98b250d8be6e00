package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Travel modes accepted by the routing API.
const (
	ModeDrive   = "DRIVE"
	ModeWalk    = "WALK"
	ModeTransit = "TRANSIT"
	ModeBicycle = "BICYCLE"
)

type Route struct {
	DistanceMeters float64
	Duration       string // seconds with an "s" suffix, e.g. "3665s"
	Polyline       string
}

type computeRoutesRequest struct {
	Origin      waypoint `json:"origin"`
	Destination waypoint `json:"destination"`
	TravelMode  string   `json:"travelMode"`
}

type waypoint struct {
	Location struct {
		LatLng LatLng `json:"latLng"`
	} `json:"location"`
}

type computeRoutesResponse struct {
	Routes []struct {
		DistanceMeters float64 `json:"distanceMeters"`
		Duration       string  `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
}

// Route requests a single route for one travel mode. Callers are
// expected to treat errors as a degraded mode, not a fatal failure.
func (c *Client) Route(ctx context.Context, origin, destination LatLng, mode string) (Route, error) {
	reqBody := computeRoutesRequest{TravelMode: mode}
	reqBody.Origin.Location.LatLng = origin
	reqBody.Destination.Location.LatLng = destination

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Route{}, fmt.Errorf("failed to encode route request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, routesURL, bytes.NewReader(payload))
	if err != nil {
		return Route{}, fmt.Errorf("failed to build route request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", "routes.distanceMeters,routes.duration,routes.polyline.encodedPolyline")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("routing API returned status %d", resp.StatusCode)
	}

	var body computeRoutesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("failed to decode route response: %w", err)
	}

	if len(body.Routes) == 0 {
		return Route{}, fmt.Errorf("no route found")
	}

	r := body.Routes[0]
	return Route{
		DistanceMeters: r.DistanceMeters,
		Duration:       r.Duration,
		Polyline:       r.Polyline.EncodedPolyline,
	}, nil
}
