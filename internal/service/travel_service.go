package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/pkg/maps"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNotGeocoded    = errors.New("event location has no coordinates")
	ErrOriginRequired      = errors.New("an origin address or coordinates are required")
	ErrInvalidOriginCoords = errors.New("invalid origin coordinates")
	ErrMapsKeyMissing      = errors.New("maps API key is not configured")
	ErrOriginNotFound      = errors.New("origin location not found")
)

// Synthetic cost model constants. Everything except the transit fare is
// a function of driving distance.
const (
	metersPerMile     = 1609.34
	gasPricePerGallon = 3.50
	milesPerGallon    = 25.0
	transitFare       = 2.75

	uberBaseFare   = 2.50
	uberPerMile    = 1.75
	uberBookingFee = 2.75

	lyftBaseFare   = 2.00
	lyftPerMile    = 1.65
	lyftBookingFee = 3.00
)

// MapsAPI is the slice of pkg/maps the aggregator consumes.
type MapsAPI interface {
	HasAPIKey() bool
	Geocode(ctx context.Context, address string) (maps.Location, bool)
	Route(ctx context.Context, origin, destination maps.LatLng, mode string) (maps.Route, error)
}

// EventFinder resolves event IDs. *repository.EventRepository
// satisfies it.
type EventFinder interface {
	GetByID(id uint) (*models.Event, error)
}

// TravelOrigin is the caller-supplied starting point: either explicit
// coordinates or a free-text address to geocode.
type TravelOrigin struct {
	Address   string
	Latitude  *float64
	Longitude *float64
}

// TravelService aggregates cost and time estimates across travel
// modes. It keeps no state of its own.
type TravelService struct {
	events  EventFinder
	maps    MapsAPI
	timeout time.Duration
	logger  *zap.Logger
}

func NewTravelService(events EventFinder, mapsAPI MapsAPI, timeout time.Duration, logger *zap.Logger) *TravelService {
	return &TravelService{
		events:  events,
		maps:    mapsAPI,
		timeout: timeout,
		logger:  logger,
	}
}

// ComputeTravelOptions fans out one routing call per travel mode and
// derives cost estimates. A failing mode degrades to unavailable in
// the payload; the call as a whole succeeds once the preconditions
// have passed.
func (s *TravelService) ComputeTravelOptions(ctx context.Context, eventID uint, origin TravelOrigin) (*models.TravelOptionsResponse, error) {
	if !s.maps.HasAPIKey() {
		return nil, ErrMapsKeyMissing
	}

	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, ErrEventNotFound
	}
	if !event.HasCoordinates() {
		return nil, ErrEventNotGeocoded
	}

	originPoint, err := s.resolveOrigin(ctx, origin)
	if err != nil {
		return nil, err
	}

	originLL := maps.LatLng{Latitude: originPoint.Latitude, Longitude: originPoint.Longitude}
	destLL := maps.LatLng{Latitude: *event.Latitude, Longitude: *event.Longitude}

	routingModes := []string{maps.ModeDrive, maps.ModeWalk, maps.ModeTransit, maps.ModeBicycle}

	type routeResult struct {
		route maps.Route
		err   error
	}
	results := make([]routeResult, len(routingModes))

	// The four routing calls are independent; one slow or failing call
	// must not hold up or sink the others, so each gets its own timeout.
	g, gctx := errgroup.WithContext(ctx)
	for i, mode := range routingModes {
		i, mode := i, mode
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.timeout)
			defer cancel()

			route, err := s.maps.Route(callCtx, originLL, destLL, mode)
			if err != nil {
				s.logger.Warn("travel mode degraded",
					zap.Uint("event_id", eventID),
					zap.String("mode", mode),
					zap.Error(err),
				)
			}
			results[i] = routeResult{route: route, err: err}
			return nil
		})
	}
	g.Wait()

	drive := s.buildRouteOption("drive", results[0].route, results[0].err, originLL, destLL)
	walk := s.buildRouteOption("walk", results[1].route, results[1].err, originLL, destLL)
	transit := s.buildRouteOption("transit", results[2].route, results[2].err, originLL, destLL)
	bicycle := s.buildRouteOption("bicycle", results[3].route, results[3].err, originLL, destLL)

	// Ride-hail estimates derive from the drive result; they never make
	// their own routing call.
	uber := buildRideHailOption("uber", drive, uberBaseFare, uberPerMile, uberBookingFee,
		fmt.Sprintf("uber://?action=setPickup&pickup[latitude]=%f&pickup[longitude]=%f&dropoff[latitude]=%f&dropoff[longitude]=%f",
			originLL.Latitude, originLL.Longitude, destLL.Latitude, destLL.Longitude))
	lyft := buildRideHailOption("lyft", drive, lyftBaseFare, lyftPerMile, lyftBookingFee,
		fmt.Sprintf("lyft://ridetype?id=lyft&pickup[latitude]=%f&pickup[longitude]=%f&destination[latitude]=%f&destination[longitude]=%f",
			originLL.Latitude, originLL.Longitude, destLL.Latitude, destLL.Longitude))

	options := []models.TravelOption{drive, walk, transit, bicycle, uber, lyft}

	var available []string
	for _, opt := range options {
		if opt.Available {
			available = append(available, opt.Mode)
		}
	}

	return &models.TravelOptionsResponse{
		EventID: event.ID,
		Origin:  originPoint,
		Destination: models.TravelPoint{
			Latitude:  *event.Latitude,
			Longitude: *event.Longitude,
			Address:   event.Location,
		},
		Options:        options,
		AvailableModes: available,
		TotalModes:     len(options),
	}, nil
}

func (s *TravelService) resolveOrigin(ctx context.Context, origin TravelOrigin) (models.TravelPoint, error) {
	if origin.Latitude != nil || origin.Longitude != nil {
		if origin.Latitude == nil || origin.Longitude == nil ||
			math.Abs(*origin.Latitude) > 90 || math.Abs(*origin.Longitude) > 180 {
			return models.TravelPoint{}, ErrInvalidOriginCoords
		}
		return models.TravelPoint{
			Latitude:  *origin.Latitude,
			Longitude: *origin.Longitude,
		}, nil
	}

	address := strings.TrimSpace(origin.Address)
	if address == "" {
		return models.TravelPoint{}, ErrOriginRequired
	}

	geocodeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loc, ok := s.maps.Geocode(geocodeCtx, address)
	if !ok {
		return models.TravelPoint{}, ErrOriginNotFound
	}
	return models.TravelPoint{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   loc.Address,
	}, nil
}

func (s *TravelService) buildRouteOption(mode string, route maps.Route, err error, origin, destination maps.LatLng) models.TravelOption {
	if err != nil {
		return models.TravelOption{
			Mode:      mode,
			Available: false,
			Error:     err.Error(),
		}
	}

	miles := metersToMiles(route.DistanceMeters)

	var cost *models.TravelCost
	switch mode {
	case "drive":
		cost = newTravelCost(gasCost(route.DistanceMeters), "")
	case "transit":
		cost = newTravelCost(transitFare, "")
	default:
		cost = newTravelCost(0, "")
	}

	return models.TravelOption{
		Mode:           mode,
		Available:      true,
		Distance:       formatDistance(route.DistanceMeters),
		DistanceMeters: route.DistanceMeters,
		DistanceMiles:  roundMiles(miles),
		Duration:       humanizeDuration(route.Duration),
		Cost:           cost,
		DeepLink:       mapsDeepLink(mode, origin, destination),
	}
}

func buildRideHailOption(mode string, drive models.TravelOption, base, perMile, fee float64, deepLink string) models.TravelOption {
	if !drive.Available {
		return models.TravelOption{
			Mode:      mode,
			Available: false,
			Error:     "driving route unavailable",
		}
	}

	estimate := base + perMile*drive.DistanceMiles + fee
	return models.TravelOption{
		Mode:           mode,
		Available:      true,
		Distance:       drive.Distance,
		DistanceMeters: drive.DistanceMeters,
		DistanceMiles:  drive.DistanceMiles,
		Duration:       drive.Duration,
		Cost:           newTravelCost(estimate, costRange(estimate)),
		DeepLink:       deepLink,
	}
}

// gasCost estimates fuel spend for a driving distance in meters.
func gasCost(distanceMeters float64) float64 {
	return metersToMiles(distanceMeters) / milesPerGallon * gasPricePerGallon
}

func newTravelCost(amount float64, costRange string) *models.TravelCost {
	return &models.TravelCost{
		Amount:    math.Round(amount*100) / 100,
		Formatted: formatCost(amount),
		Range:     costRange,
	}
}

func formatCost(amount float64) string {
	if amount == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", amount)
}

// costRange widens a point estimate into the -10%/+30% band shown for
// ride-hail fares.
func costRange(amount float64) string {
	return fmt.Sprintf("$%.2f - $%.2f", amount*0.9, amount*1.3)
}

func metersToMiles(meters float64) float64 {
	return meters / metersPerMile
}

func roundMiles(miles float64) float64 {
	return math.Round(miles*100) / 100
}

func formatDistance(meters float64) string {
	return fmt.Sprintf("%.1f mi", metersToMiles(meters))
}

// humanizeDuration turns the routing API's "3665s" style durations
// into "1h 1min" / "1 min" / "45 sec". Zero or unparsable input
// renders as "Unknown".
func humanizeDuration(duration string) string {
	raw := strings.TrimSuffix(strings.TrimSpace(duration), "s")
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil || seconds <= 0 {
		return "Unknown"
	}

	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dmin", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%d min", minutes)
	default:
		return fmt.Sprintf("%d sec", total)
	}
}

func mapsDeepLink(mode string, origin, destination maps.LatLng) string {
	travelMode := map[string]string{
		"drive":   "driving",
		"walk":    "walking",
		"transit": "transit",
		"bicycle": "bicycling",
	}[mode]

	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%f,%f&destination=%f,%f&travelmode=%s",
		origin.Latitude, origin.Longitude,
		destination.Latitude, destination.Longitude,
		travelMode,
	)
}
