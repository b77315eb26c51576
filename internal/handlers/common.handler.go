package handlers

import (
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/handlers/middleware"
	"vehiclecare/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// handleError maps AppErrors to their status; anything else is logged and hidden behind
// a generic 500.
func (h *Handler) handleError(c *fiber.Ctx, err error, fallback string) error {
	if appErr, ok := apperrors.As(err); ok {
		return c.Status(appErr.HTTPCode()).JSON(fiber.Map{
			"error": appErr.Message(),
			"code":  appErr.Code(),
		})
	}

	h.log.TraceFromContext(c.UserContext()).Function("handleError").Er(fallback, err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fallback,
	})
}

func (h *Handler) currentUser(c *fiber.Ctx) (*models.User, error) {
	user := middleware.GetUser(c)
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func (h *Handler) parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid " + name)
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Validation("invalid " + name)
	}
	return &id, nil
}

// queryTime accepts either a calendar date (2006-01-02) or an RFC3339 timestamp.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperrors.Validation("invalid " + name + ", expected YYYY-MM-DD or RFC3339")
}

func queryBool(c *fiber.Ctx, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value := c.QueryBool(name)
	return &value
}
