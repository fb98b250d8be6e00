package maps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type Location struct {
	Latitude  float64
	Longitude float64
	Address   string
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Geocode resolves a free-text address. Upstream failures are logged
// and reported as a plain miss, never as an error.
func (c *Client) Geocode(ctx context.Context, address string) (Location, bool) {
	if address == "" {
		return Location{}, false
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		c.logger.Warn("geocoding request build failed", zap.Error(err))
		return Location{}, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("geocoding request failed", zap.String("address", address), zap.Error(err))
		return Location{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("geocoding returned non-OK status",
			zap.String("address", address),
			zap.Int("status", resp.StatusCode),
		)
		return Location{}, false
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("geocoding response decode failed", zap.Error(err))
		return Location{}, false
	}

	if len(body.Results) == 0 {
		return Location{}, false
	}

	loc := body.Results[0]
	return Location{
		Latitude:  loc.Geometry.Location.Lat,
		Longitude: loc.Geometry.Location.Lng,
		Address:   loc.FormattedAddress,
	}, true
}
