package handlers

import (
	"vehiclecare/internal/app"
	predictionController "vehiclecare/internal/controllers/predictions"

	"github.com/gofiber/fiber/v2"
)

type PredictionHandler struct {
	Handler
	predictionController predictionController.PredictionControllerInterface
}

func NewPredictionHandler(app app.App, router fiber.Router) *PredictionHandler {
	return &PredictionHandler{
		predictionController: app.Controllers.Prediction,
		Handler:              newHandler(app, router, "prediction_handler"),
	}
}

func (h *PredictionHandler) Register() {
	predictions := h.router.Group("/predictions", h.middleware.RequireAuth())
	predictions.Get("/:vehicleId", h.getPredictions)
}

// getPredictions computes fresh predictions; ?type= narrows to expense or maintenance
func (h *PredictionHandler) getPredictions(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	vehicleID, err := paramUUID(c, "vehicleId")
	if err != nil {
		return h.handleError(c, err, "Failed to generate predictions")
	}

	predictions, err := h.predictionController.Get(c.UserContext(), user, vehicleID, c.Query("type"))
	if err != nil {
		return h.handleError(c, err, "Failed to generate predictions")
	}

	return c.JSON(fiber.Map{"predictions": predictions})
}
