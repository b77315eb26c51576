package handlers

import (
	"vehiclecare/internal/app"
	authController "vehiclecare/internal/controllers/auth"
	"vehiclecare/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	return &AuthHandler{
		authController: app.Controllers.Auth,
		Handler:        newHandler(app, router, "auth_handler"),
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/register", h.register)
	auth.Post("/login", h.login)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to register")
	}

	result, err := h.authController.Register(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to register")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to log in")
	}

	result, err := h.authController.Login(c.UserContext(), req)
	if err != nil {
		return h.handleError(c, err, "Failed to log in")
	}

	return c.JSON(result)
}
