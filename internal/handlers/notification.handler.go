package handlers

import (
	"vehiclecare/internal/app"
	notificationController "vehiclecare/internal/controllers/notifications"
	"vehiclecare/internal/services"
	"vehiclecare/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Handler
	notificationController notificationController.NotificationControllerInterface
}

func NewNotificationHandler(app app.App, router fiber.Router) *NotificationHandler {
	return &NotificationHandler{
		notificationController: app.Controllers.Notification,
		Handler:                newHandler(app, router, "notification_handler"),
	}
}

func (h *NotificationHandler) Register() {
	notifications := h.router.Group("/notifications", h.middleware.RequireAuth())

	notifications.Get("/", h.listNotifications)
	notifications.Get("/unread-count", h.unreadCount)
	notifications.Patch("/read-all", h.markAllAsRead)
	notifications.Get("/settings", h.getSettings)
	notifications.Put("/settings", h.updateSettings)
	notifications.Patch("/:id/read", h.markAsRead)
	notifications.Delete("/:id", h.deleteNotification)
}

func (h *NotificationHandler) listNotifications(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	page, err := h.notificationController.List(c.UserContext(), user, notificationController.ListQuery{
		Page:       c.QueryInt("page", utils.DefaultPage),
		Limit:      c.QueryInt("limit", utils.DefaultLimit),
		UnreadOnly: c.QueryBool("unreadOnly"),
		Category:   c.Query("category"),
		Channel:    c.Query("channel"),
	})
	if err != nil {
		return h.handleError(c, err, "Failed to list notifications")
	}

	return c.JSON(page)
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	count, err := h.notificationController.UnreadCount(c.UserContext(), user)
	if err != nil {
		return h.handleError(c, err, "Failed to count notifications")
	}

	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) markAsRead(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to mark notification as read")
	}

	if err := h.notificationController.MarkAsRead(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to mark notification as read")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) markAllAsRead(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	updated, err := h.notificationController.MarkAllAsRead(c.UserContext(), user)
	if err != nil {
		return h.handleError(c, err, "Failed to mark notifications as read")
	}

	return c.JSON(fiber.Map{"updated": updated})
}

func (h *NotificationHandler) deleteNotification(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to delete notification")
	}

	if err := h.notificationController.Delete(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to delete notification")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) getSettings(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	settings, err := h.notificationController.GetSettings(c.UserContext(), user)
	if err != nil {
		return h.handleError(c, err, "Failed to load notification settings")
	}

	return c.JSON(settings)
}

func (h *NotificationHandler) updateSettings(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.UpdateSettingsInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update notification settings")
	}

	settings, err := h.notificationController.UpdateSettings(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update notification settings")
	}

	return c.JSON(settings)
}
