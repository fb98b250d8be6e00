package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/service"
	"github.com/eventsphere/backend/pkg/utils"
)

type RSVPHandler struct {
	rsvpService *service.RSVPService
	validator   *utils.Validator
}

func NewRSVPHandler(rsvpService *service.RSVPService, validator *utils.Validator) *RSVPHandler {
	return &RSVPHandler{
		rsvpService: rsvpService,
		validator:   validator,
	}
}

func (h *RSVPHandler) UpsertRSVP(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.RSVPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	userID := c.Locals("userID").(uint)

	rsvp, err := h.rsvpService.Upsert(eventID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrEventNotBookable):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.JSON(models.SuccessResponse(rsvp, "RSVP recorded successfully"))
}

func (h *RSVPHandler) CancelRSVP(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	userID := c.Locals("userID").(uint)

	if err := h.rsvpService.Cancel(eventID, userID); err != nil {
		if errors.Is(err, service.ErrRSVPNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "RSVP cancelled successfully"))
}

func (h *RSVPHandler) GetMyEvents(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	events, err := h.rsvpService.GetMyEvents(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}
