package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ntubimd/camping-backend/internal/core/services"
	"github.com/ntubimd/camping-backend/internal/pkg/pagination"
	"github.com/ntubimd/camping-backend/internal/pkg/response"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List lists the caller's notifications
// @Summary List notifications
// @Description List the caller's notifications, newest first
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	notifications, total, err := h.notificationService.ListByAccount(c.Context(), account, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to get notifications")
	}

	return response.Success(c, "Notifications retrieved successfully",
		pagination.NewResponse(notifications, params, total))
}

// MarkRead marks a notification as read
// @Summary Mark notification read
// @Description Mark one of the caller's notifications as read
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	account, ok := c.Locals("account").(string)
	if !ok || account == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), uint(id), account); err != nil {
		return response.InternalServerError(c, "Failed to mark notification read")
	}

	return response.Success(c, "Notification marked read", nil)
}
