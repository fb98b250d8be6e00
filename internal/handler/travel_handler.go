package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/service"
)

type TravelHandler struct {
	travelService *service.TravelService
}

func NewTravelHandler(travelService *service.TravelService) *TravelHandler {
	return &TravelHandler{travelService: travelService}
}

// GetTravelOptions estimates cost and time for reaching an event from
// either a free-text origin address or explicit origin coordinates.
func (h *TravelHandler) GetTravelOptions(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	origin := service.TravelOrigin{Address: c.Query("origin")}

	if latStr, lngStr := c.Query("origin_lat"), c.Query("origin_lng"); latStr != "" || lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid origin coordinates"))
		}
		origin.Latitude = &lat
		origin.Longitude = &lng
	}

	resp, err := h.travelService.ComputeTravelOptions(c.UserContext(), eventID, origin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrEventNotGeocoded),
			errors.Is(err, service.ErrOriginRequired),
			errors.Is(err, service.ErrInvalidOriginCoords),
			errors.Is(err, service.ErrOriginNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrMapsKeyMissing):
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(resp, "Travel options calculated successfully"))
}
