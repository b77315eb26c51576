package handlers

import (
	"vehiclecare/internal/app"
	reminderController "vehiclecare/internal/controllers/reminders"
	"vehiclecare/internal/services"

	"github.com/gofiber/fiber/v2"
)

const defaultUpcomingDays = 30

type ReminderHandler struct {
	Handler
	reminderController reminderController.ReminderControllerInterface
}

func NewReminderHandler(app app.App, router fiber.Router) *ReminderHandler {
	return &ReminderHandler{
		reminderController: app.Controllers.Reminder,
		Handler:            newHandler(app, router, "reminder_handler"),
	}
}

func (h *ReminderHandler) Register() {
	reminders := h.router.Group("/reminders", h.middleware.RequireAuth())

	reminders.Get("/", h.listReminders)
	reminders.Post("/", h.createReminder)
	reminders.Get("/upcoming", h.upcoming)
	reminders.Get("/smart/types", h.smartTypes)
	reminders.Post("/smart", h.createSmartReminder)
	reminders.Post("/mileage", h.createMileageReminder)
	reminders.Get("/:id", h.getReminder)
	reminders.Put("/:id", h.updateReminder)
	reminders.Patch("/:id/complete", h.completeReminder)
	reminders.Delete("/:id", h.deleteReminder)
}

func (h *ReminderHandler) listReminders(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	vehicleID, err := queryUUID(c, "vehicleId")
	if err != nil {
		return h.handleError(c, err, "Failed to list reminders")
	}

	reminders, err := h.reminderController.List(c.UserContext(), user, reminderController.ListQuery{
		VehicleID: vehicleID,
		Type:      c.Query("type"),
		Completed: queryBool(c, "completed"),
	})
	if err != nil {
		return h.handleError(c, err, "Failed to list reminders")
	}

	return c.JSON(fiber.Map{"reminders": reminders})
}

func (h *ReminderHandler) upcoming(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	vehicleID, err := queryUUID(c, "vehicleId")
	if err != nil {
		return h.handleError(c, err, "Failed to list upcoming reminders")
	}

	days := c.QueryInt("days", defaultUpcomingDays)
	reminders, err := h.reminderController.Upcoming(c.UserContext(), user, vehicleID, days)
	if err != nil {
		return h.handleError(c, err, "Failed to list upcoming reminders")
	}

	return c.JSON(fiber.Map{"reminders": reminders})
}

func (h *ReminderHandler) smartTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": h.reminderController.SmartTypes()})
}

func (h *ReminderHandler) createReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.CreateReminderInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	reminder, err := h.reminderController.Create(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

// createSmartReminder builds a reminder from a named template and the vehicle's mileage
func (h *ReminderHandler) createSmartReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req reminderController.SmartReminderRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	reminder, err := h.reminderController.CreateSmart(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (h *ReminderHandler) createMileageReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.CreateMileageReminderInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	reminder, err := h.reminderController.CreateMileageReminder(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func (h *ReminderHandler) getReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to load reminder")
	}

	reminder, err := h.reminderController.Get(c.UserContext(), user, id)
	if err != nil {
		return h.handleError(c, err, "Failed to load reminder")
	}

	return c.JSON(reminder)
}

func (h *ReminderHandler) updateReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to update reminder")
	}

	var req services.UpdateReminderInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update reminder")
	}

	reminder, err := h.reminderController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update reminder")
	}

	return c.JSON(reminder)
}

// completeReminder marks the reminder done and schedules the next one when it recurs
func (h *ReminderHandler) completeReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to complete reminder")
	}

	reminder, err := h.reminderController.Complete(c.UserContext(), user, id)
	if err != nil {
		return h.handleError(c, err, "Failed to complete reminder")
	}

	return c.JSON(reminder)
}

func (h *ReminderHandler) deleteReminder(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to delete reminder")
	}

	if err := h.reminderController.Delete(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to delete reminder")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
