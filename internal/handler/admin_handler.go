package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/service"
)

type AdminHandler struct {
	eventService  *service.EventService
	reportService *service.ReportService
}

func NewAdminHandler(eventService *service.EventService, reportService *service.ReportService) *AdminHandler {
	return &AdminHandler{
		eventService:  eventService,
		reportService: reportService,
	}
}

func (h *AdminHandler) GetDashboard(c *fiber.Ctx) error {
	stats, err := h.reportService.Dashboard()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(stats, "Dashboard statistics retrieved successfully"))
}

func (h *AdminHandler) GetPendingEvents(c *fiber.Ctx) error {
	events, err := h.eventService.ListPendingEvents()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(events, "Pending events retrieved successfully"))
}

func (h *AdminHandler) ApproveEvent(c *fiber.Ctx) error {
	return h.setApprovalStatus(c, models.StatusApproved, "Event approved")
}

func (h *AdminHandler) RejectEvent(c *fiber.Ctx) error {
	return h.setApprovalStatus(c, models.StatusRejected, "Event rejected")
}

func (h *AdminHandler) setApprovalStatus(c *fiber.Ctx, status models.ApprovalStatus, message string) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	event, err := h.eventService.SetApprovalStatus(eventID, status)
	if err != nil {
		if err == service.ErrEventNotFound {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(event, message))
}
