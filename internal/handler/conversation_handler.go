package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/eventsphere/backend/internal/models"
	"github.com/eventsphere/backend/internal/service"
	"github.com/eventsphere/backend/pkg/utils"
)

type ConversationHandler struct {
	conversationService *service.ConversationService
	validator           *utils.Validator
}

func NewConversationHandler(conversationService *service.ConversationService, validator *utils.Validator) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		validator:           validator,
	}
}

func actingUser(c *fiber.Ctx) *models.User {
	return &models.User{
		ID:       c.Locals("userID").(uint),
		Username: c.Locals("username").(string),
	}
}

func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	summaries, err := h.conversationService.List(actingUser(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(summaries, "Conversations retrieved successfully"))
}

func (h *ConversationHandler) StartConversation(c *fiber.Ctx) error {
	var req models.StartConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	conv, err := h.conversationService.Start(actingUser(c), req.Usernames)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUsernames),
			errors.Is(err, service.ErrUsernamesNotFound),
			errors.Is(err, service.ErrSelfConversation):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
		}
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(conv, "Conversation ready"))
}

// GetConversation returns the detail view. Opening it marks every
// pending message as read for the viewer.
func (h *ConversationHandler) GetConversation(c *fiber.Ctx) error {
	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid conversation ID"))
	}

	detail, err := h.conversationService.GetConversation(conversationID, actingUser(c))
	if err != nil {
		return h.mapConversationError(c, err)
	}

	return c.JSON(models.SuccessResponse(detail, "Conversation retrieved successfully"))
}

func (h *ConversationHandler) PostMessage(c *fiber.Ctx) error {
	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid conversation ID"))
	}

	var req models.PostMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	user := actingUser(c)

	// Membership is the posting precondition; the service trusts it.
	member, err := h.conversationService.IsParticipant(conversationID, user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
	if !member {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(service.ErrNotParticipant.Error()))
	}

	if err := h.conversationService.PostMessage(conversationID, user.ID, req.Text); err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(nil, "Message sent"))
}

func (h *ConversationHandler) AddParticipant(c *fiber.Ctx) error {
	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid conversation ID"))
	}

	var req models.AddParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.conversationService.AddParticipant(conversationID, actingUser(c), req.Username); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrAlreadyMember):
			return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
		default:
			return h.mapConversationError(c, err)
		}
	}

	return c.JSON(models.SuccessResponse(nil, "Participant added"))
}

func (h *ConversationHandler) RenameConversation(c *fiber.Ctx) error {
	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid conversation ID"))
	}

	var req models.RenameConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.conversationService.Rename(conversationID, actingUser(c), req.Name); err != nil {
		return h.mapConversationError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Conversation renamed"))
}

func (h *ConversationHandler) SetNickname(c *fiber.Ctx) error {
	conversationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid conversation ID"))
	}

	var req models.SetNicknameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.conversationService.SetNickname(conversationID, actingUser(c), req.TargetUserID, req.Nickname); err != nil {
		if errors.Is(err, service.ErrNotAMember) {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
		}
		return h.mapConversationError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Nickname updated"))
}

func (h *ConversationHandler) mapConversationError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrConversationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}
}
