package handlers

import (
	"vehiclecare/internal/app"
	maintenanceController "vehiclecare/internal/controllers/maintenances"
	"vehiclecare/internal/services"

	"github.com/gofiber/fiber/v2"
)

type MaintenanceHandler struct {
	Handler
	maintenanceController maintenanceController.MaintenanceControllerInterface
}

func NewMaintenanceHandler(app app.App, router fiber.Router) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceController: app.Controllers.Maintenance,
		Handler:               newHandler(app, router, "maintenance_handler"),
	}
}

func (h *MaintenanceHandler) Register() {
	maintenances := h.router.Group("/maintenances", h.middleware.RequireAuth())

	maintenances.Get("/", h.listMaintenances)
	maintenances.Post("/", h.createMaintenance)
	maintenances.Get("/:id", h.getMaintenance)
	maintenances.Put("/:id", h.updateMaintenance)
	maintenances.Delete("/:id", h.deleteMaintenance)
}

func (h *MaintenanceHandler) listMaintenances(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	vehicleID, err := queryUUID(c, "vehicleId")
	if err != nil {
		return h.handleError(c, err, "Failed to list maintenances")
	}

	maintenances, err := h.maintenanceController.List(
		c.UserContext(),
		user,
		maintenanceController.ListQuery{VehicleID: vehicleID, Status: c.Query("status")},
	)
	if err != nil {
		return h.handleError(c, err, "Failed to list maintenances")
	}

	return c.JSON(fiber.Map{"maintenances": maintenances})
}

// createMaintenance also creates the linked expense and reminder side effects
func (h *MaintenanceHandler) createMaintenance(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.CreateMaintenanceInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create maintenance")
	}

	maintenance, err := h.maintenanceController.Create(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create maintenance")
	}

	return c.Status(fiber.StatusCreated).JSON(maintenance)
}

func (h *MaintenanceHandler) getMaintenance(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to load maintenance")
	}

	maintenance, err := h.maintenanceController.Get(c.UserContext(), user, id)
	if err != nil {
		return h.handleError(c, err, "Failed to load maintenance")
	}

	return c.JSON(maintenance)
}

func (h *MaintenanceHandler) updateMaintenance(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to update maintenance")
	}

	var req services.UpdateMaintenanceInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update maintenance")
	}

	maintenance, err := h.maintenanceController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update maintenance")
	}

	return c.JSON(maintenance)
}

func (h *MaintenanceHandler) deleteMaintenance(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to delete maintenance")
	}

	if err := h.maintenanceController.Delete(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to delete maintenance")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
