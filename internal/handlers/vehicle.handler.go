package handlers

import (
	"vehiclecare/internal/app"
	vehicleController "vehiclecare/internal/controllers/vehicles"
	"vehiclecare/internal/services"

	"github.com/gofiber/fiber/v2"
)

const defaultMileageHistoryLimit = 50

type VehicleHandler struct {
	Handler
	vehicleController vehicleController.VehicleControllerInterface
}

func NewVehicleHandler(app app.App, router fiber.Router) *VehicleHandler {
	return &VehicleHandler{
		vehicleController: app.Controllers.Vehicle,
		Handler:           newHandler(app, router, "vehicle_handler"),
	}
}

func (h *VehicleHandler) Register() {
	vehicles := h.router.Group("/vehicles", h.middleware.RequireAuth())

	vehicles.Get("/", h.listVehicles)
	vehicles.Post("/", h.createVehicle)
	vehicles.Get("/:id", h.getVehicle)
	vehicles.Put("/:id", h.updateVehicle)
	vehicles.Delete("/:id", h.deleteVehicle)

	vehicles.Put("/:id/mileage", h.updateMileage)
	vehicles.Post("/:id/mileage/check", h.checkMileage)
	vehicles.Get("/:id/mileage-history", h.mileageHistory)
}

func (h *VehicleHandler) listVehicles(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	vehicles, err := h.vehicleController.List(c.UserContext(), user)
	if err != nil {
		return h.handleError(c, err, "Failed to list vehicles")
	}

	return c.JSON(fiber.Map{"vehicles": vehicles})
}

func (h *VehicleHandler) createVehicle(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.CreateVehicleInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create vehicle")
	}

	vehicle, err := h.vehicleController.Create(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create vehicle")
	}

	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

func (h *VehicleHandler) getVehicle(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to load vehicle")
	}

	vehicle, err := h.vehicleController.Get(c.UserContext(), user, id)
	if err != nil {
		return h.handleError(c, err, "Failed to load vehicle")
	}

	return c.JSON(vehicle)
}

func (h *VehicleHandler) updateVehicle(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to update vehicle")
	}

	var req services.UpdateVehicleInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update vehicle")
	}

	vehicle, err := h.vehicleController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update vehicle")
	}

	return c.JSON(vehicle)
}

func (h *VehicleHandler) deleteVehicle(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to delete vehicle")
	}

	if err := h.vehicleController.Delete(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to delete vehicle")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// updateMileage records a reading, notifying the owner of every reminder it reaches
func (h *VehicleHandler) updateMileage(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to update mileage")
	}

	var req vehicleController.MileageRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update mileage")
	}

	result, err := h.vehicleController.UpdateMileage(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update mileage")
	}

	return c.JSON(result)
}

func (h *VehicleHandler) checkMileage(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to check mileage")
	}

	var req vehicleController.MileageRequest
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to check mileage")
	}

	result, err := h.vehicleController.CheckMileage(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to check mileage")
	}

	return c.JSON(result)
}

func (h *VehicleHandler) mileageHistory(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to load mileage history")
	}

	limit := c.QueryInt("limit", defaultMileageHistoryLimit)
	records, err := h.vehicleController.MileageHistory(c.UserContext(), user, id, limit)
	if err != nil {
		return h.handleError(c, err, "Failed to load mileage history")
	}

	return c.JSON(fiber.Map{"records": records})
}
