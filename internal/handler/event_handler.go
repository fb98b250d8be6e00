package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/service"
	"github.com/eventsphere/backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		validator:    validator,
	}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	userID := c.Locals("userID").(uint)

	event, err := h.eventService.CreateEvent(c.UserContext(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEventDate) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(event, "Event submitted for approval"))
}

// ListEvents is public discovery: approved, geocoded events with
// optional category, city, and radius filters.
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	filter := models.EventFilter{
		Category: c.Query("category"),
		City:     c.Query("city"),
	}

	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" || lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid coordinates"))
		}
		filter.Lat = &lat
		filter.Lng = &lng
		filter.RadiusKm = 25 // default search radius
		if radiusStr := c.Query("radius"); radiusStr != "" {
			radius, err := strconv.ParseFloat(radiusStr, 64)
			if err != nil || radius <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid radius"))
			}
			filter.RadiusKm = radius
		}
	}

	events, err := h.eventService.ListEvents(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	event, err := h.eventService.GetVisibleEvent(eventID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Event not found"))
	}

	return c.JSON(models.SuccessResponse(event, "Event retrieved successfully"))
}

func (h *EventHandler) GetMyEvents(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	events, err := h.eventService.GetMyEvents(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	userID := c.Locals("userID").(uint)

	event, err := h.eventService.UpdateEvent(c.UserContext(), eventID, userID, req)
	if err != nil {
		return h.mapEventError(c, err)
	}

	return c.JSON(models.SuccessResponse(event, "Event updated successfully"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	userID := c.Locals("userID").(uint)

	if err := h.eventService.DeleteEvent(eventID, userID); err != nil {
		return h.mapEventError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Event successfully deleted"))
}

func (h *EventHandler) UploadEventImage(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No image uploaded"))
	}

	userID := c.Locals("userID").(uint)

	event, err := h.eventService.UploadEventImage(eventID, userID, file)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
		return h.mapEventError(c, err)
	}

	return c.JSON(models.SuccessResponse(event, "Image uploaded successfully"))
}

func (h *EventHandler) GetEventAttendees(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	userID := c.Locals("userID").(uint)

	attendees, err := h.eventService.ListAttendees(eventID, userID)
	if err != nil {
		return h.mapEventError(c, err)
	}

	return c.JSON(models.SuccessResponse(attendees, "Attendees retrieved successfully"))
}

func (h *EventHandler) ExportEventAttendees(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	userID := c.Locals("userID").(uint)

	attendees, err := h.eventService.ListAttendees(eventID, userID)
	if err != nil {
		return h.mapEventError(c, err)
	}

	data, err := service.AttendeesCSV(attendees)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="event_%d_attendees.csv"`, eventID))
	return c.Send(data)
}

func (h *EventHandler) mapEventError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrNotEventOwner):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidEventDate):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
