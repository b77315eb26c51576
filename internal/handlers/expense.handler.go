package handlers

import (
	"vehiclecare/internal/app"
	expenseController "vehiclecare/internal/controllers/expenses"
	"vehiclecare/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ExpenseHandler struct {
	Handler
	expenseController expenseController.ExpenseControllerInterface
}

func NewExpenseHandler(app app.App, router fiber.Router) *ExpenseHandler {
	return &ExpenseHandler{
		expenseController: app.Controllers.Expense,
		Handler:           newHandler(app, router, "expense_handler"),
	}
}

func (h *ExpenseHandler) Register() {
	expenses := h.router.Group("/expenses", h.middleware.RequireAuth())

	expenses.Get("/", h.listExpenses)
	expenses.Post("/", h.createExpense)
	expenses.Get("/summary", h.summary)
	expenses.Get("/:id", h.getExpense)
	expenses.Put("/:id", h.updateExpense)
	expenses.Delete("/:id", h.deleteExpense)
}

func parseExpenseQuery(c *fiber.Ctx) (expenseController.ListQuery, error) {
	vehicleID, err := queryUUID(c, "vehicleId")
	if err != nil {
		return expenseController.ListQuery{}, err
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return expenseController.ListQuery{}, err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return expenseController.ListQuery{}, err
	}

	return expenseController.ListQuery{
		VehicleID: vehicleID,
		Category:  c.Query("category"),
		From:      from,
		To:        to,
	}, nil
}

func (h *ExpenseHandler) listExpenses(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	query, err := parseExpenseQuery(c)
	if err != nil {
		return h.handleError(c, err, "Failed to list expenses")
	}

	expenses, err := h.expenseController.List(c.UserContext(), user, query)
	if err != nil {
		return h.handleError(c, err, "Failed to list expenses")
	}

	return c.JSON(fiber.Map{"expenses": expenses})
}

func (h *ExpenseHandler) summary(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	query, err := parseExpenseQuery(c)
	if err != nil {
		return h.handleError(c, err, "Failed to summarize expenses")
	}

	summary, err := h.expenseController.Summary(c.UserContext(), user, query)
	if err != nil {
		return h.handleError(c, err, "Failed to summarize expenses")
	}

	return c.JSON(summary)
}

func (h *ExpenseHandler) createExpense(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	var req services.CreateExpenseInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to create expense")
	}

	expense, err := h.expenseController.Create(c.UserContext(), user, req)
	if err != nil {
		return h.handleError(c, err, "Failed to create expense")
	}

	return c.Status(fiber.StatusCreated).JSON(expense)
}

func (h *ExpenseHandler) getExpense(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to load expense")
	}

	expense, err := h.expenseController.Get(c.UserContext(), user, id)
	if err != nil {
		return h.handleError(c, err, "Failed to load expense")
	}

	return c.JSON(expense)
}

func (h *ExpenseHandler) updateExpense(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to update expense")
	}

	var req services.UpdateExpenseInput
	if err := h.parseBody(c, &req); err != nil {
		return h.handleError(c, err, "Failed to update expense")
	}

	expense, err := h.expenseController.Update(c.UserContext(), user, id, req)
	if err != nil {
		return h.handleError(c, err, "Failed to update expense")
	}

	return c.JSON(expense)
}

func (h *ExpenseHandler) deleteExpense(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return h.handleError(c, err, "Authentication required")
	}

	id, err := paramUUID(c, "id")
	if err != nil {
		return h.handleError(c, err, "Failed to delete expense")
	}

	if err := h.expenseController.Delete(c.UserContext(), user, id); err != nil {
		return h.handleError(c, err, "Failed to delete expense")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
