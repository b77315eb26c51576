package handlers

import (
	"vehiclecare/internal/app"
	userController "vehiclecare/internal/controllers/users"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	return &UserHandler{
		userController: app.Controllers.User,
		Handler:        newHandler(app, router, "user_handler"),
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users", h.middleware.RequireAuth())
	users.Get("/me", h.getCurrentUser)
}

// getCurrentUser returns the caller's profile with a small dashboard summary
func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	response, err := h.userController.GetMe(c.UserContext(), user)
	if err != nil {
		return h.handleError(c, err, "Failed to load profile")
	}

	return c.JSON(response)
}
