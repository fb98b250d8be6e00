package models

// TravelCost is a synthetic estimate derived from driving distance.
// Zero amounts are formatted as "Free".
type TravelCost struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
	Range     string  `json:"range,omitempty"`
}

// TravelOption is the per-mode result of the aggregator. When
// Available is false only Mode and Error are meaningful.
type TravelOption struct {
	Mode           string      `json:"mode"`
	Available      bool        `json:"available"`
	Error          string      `json:"error,omitempty"`
	Distance       string      `json:"distance,omitempty"`
	DistanceMeters float64     `json:"distance_meters,omitempty"`
	DistanceMiles  float64     `json:"distance_miles,omitempty"`
	Duration       string      `json:"duration,omitempty"`
	Cost           *TravelCost `json:"cost,omitempty"`
	DeepLink       string      `json:"deep_link,omitempty"`
}

type TravelPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

type TravelOptionsResponse struct {
	EventID        uint           `json:"event_id"`
	Origin         TravelPoint    `json:"origin"`
	Destination    TravelPoint    `json:"destination"`
	Options        []TravelOption `json:"options"`
	AvailableModes []string       `json:"available_modes"`
	TotalModes     int            `json:"total_modes"`
}
