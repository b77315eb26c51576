package handlers

import (
	"vehiclecare/internal/app"
	adminController "vehiclecare/internal/controllers/admin"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler:         newHandler(app, router, "admin_handler"),
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireAdmin())

	jobs := admin.Group("/jobs")
	jobs.Get("/", h.listJobs)
	jobs.Post("/:name", h.triggerJob)
}

func (h *AdminHandler) listJobs(c *fiber.Ctx) error {
	return c.JSON(h.adminController.ListJobs())
}

// triggerJob runs a scheduled job immediately, outside its schedule
func (h *AdminHandler) triggerJob(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	name := c.Params("name")
	if err := h.adminController.TriggerJob(c.UserContext(), user, name); err != nil {
		return h.handleError(c, err, "Failed to trigger job")
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Job triggered",
		"job":     name,
	})
}
