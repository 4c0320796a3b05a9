package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expense-tracker-api/internal/domain"
	"expense-tracker-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
	}
}

// CreateExpenseRequest represents the create expense request body.
// The amount accepts both JSON numbers and numeric strings.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// UpdateExpenseRequest represents the update expense request body.
// Omitted fields are left unchanged.
type UpdateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty" swaggertype:"number"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int64  `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
}

// TotalResponse represents the expense total in API responses. Category
// echoes the requested filter and is null when none was given.
type TotalResponse struct {
	Total    string  `json:"total"`
	Count    int64   `json:"count"`
	Category *string `json:"category"`
}

// CategoryStatsResponse represents one category's aggregate in the stats response
type CategoryStatsResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	Count      int64  `json:"count"`
	Percentage string `json:"percentage"`
}

// StatsResponse represents overall expense statistics in API responses
type StatsResponse struct {
	TotalAmount   string                  `json:"total_amount"`
	TotalExpenses int64                   `json:"total_expenses"`
	Categories    []CategoryStatsResponse `json:"categories"`
}

// MessageResponse represents a simple confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// DeleteAllResponse represents the bulk delete result in API responses
type DeleteAllResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// CreateExpense godoc
// @Summary Create an expense
// @Description Create a new expense record
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body CreateExpenseRequest true "Expense creation request"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.CreateExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be greater than 0"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength)},
			})
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, invalidCategoryDetail(), nil)
		}
		log.Error().Err(err).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	log.Info().Int64("expense_id", expense.ID).Str("category", expense.Category).Msg("Expense created")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// GetExpenses godoc
// @Summary List expenses
// @Description Get expenses with optional filtering, sorting and pagination
// @Tags expenses
// @Accept json
// @Produce json
// @Param category query string false "Filter by category (or 'all')"
// @Param limit query int false "Maximum number of expenses to return" default(100)
// @Param offset query int false "Number of expenses to skip" default(0)
// @Param sort_by query string false "Sort field: id, amount, description, category, date, created_at" default(date)
// @Param sort_order query string false "Sort order: asc or desc" default(desc)
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) GetExpenses(c echo.Context) error {
	limit := domain.DefaultListLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil || v < 1 || v > domain.MaxListLimit {
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "limit", Message: fmt.Sprintf("Must be an integer between 1 and %d", domain.MaxListLimit)},
			})
		}
		limit = v
	}

	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil || v < 0 {
			return NewValidationError(c, "Invalid offset", []ValidationError{
				{Field: "offset", Message: "Must be a non-negative integer"},
			})
		}
		offset = v
	}

	sortOrder := c.QueryParam("sort_order")
	if sortOrder == "" {
		sortOrder = "desc"
	}

	input := service.ListExpensesInput{
		Category:  c.QueryParam("category"),
		Limit:     limit,
		Offset:    offset,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: sortOrder,
	}

	expenses, err := h.expenseService.ListExpenses(c.Request().Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, invalidCategoryDetail(), nil)
		}
		log.Error().Err(err).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	resp := make([]ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		resp = append(resp, toExpenseResponse(expense))
	}

	return c.JSON(http.StatusOK, resp)
}

// GetExpense godoc
// @Summary Get an expense
// @Description Get a single expense by ID
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int64("expense_id", id).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense godoc
// @Summary Update an expense
// @Description Partially update an expense. Omitted fields are unchanged.
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param request body UpdateExpenseRequest true "Expense update request"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}

	expense, err := h.expenseService.UpdateExpense(c.Request().Context(), id, input)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be greater than 0"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: "Description is required"},
			})
		}
		if errors.Is(err, domain.ErrDescriptionTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "description", Message: fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLength)},
			})
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, invalidCategoryDetail(), nil)
		}
		log.Error().Err(err).Int64("expense_id", id).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	log.Info().Int64("expense_id", expense.ID).Msg("Expense updated")

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Description Delete a single expense by ID
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := parseIDParam(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int64("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	log.Info().Int64("expense_id", id).Msg("Expense deleted")

	return c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

// DeleteAllExpenses godoc
// @Summary Delete all expenses
// @Description Delete every expense, optionally restricted to one category. Requires confirm=true.
// @Tags expenses
// @Accept json
// @Produce json
// @Param category query string false "Delete only expenses from this category"
// @Param confirm query bool false "Must be true to proceed" default(false)
// @Success 200 {object} DeleteAllResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [delete]
func (h *ExpenseHandler) DeleteAllExpenses(c echo.Context) error {
	confirm, err := strconv.ParseBool(c.QueryParam("confirm"))
	if err != nil {
		confirm = false
	}
	category := c.QueryParam("category")

	count, err := h.expenseService.DeleteAllExpenses(c.Request().Context(), category, confirm)
	if err != nil {
		if errors.Is(err, domain.ErrConfirmationRequired) {
			return NewValidationError(c, "Confirmation required. Add ?confirm=true to the request", nil)
		}
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, invalidCategoryDetail(), nil)
		}
		log.Error().Err(err).Msg("Failed to delete expenses")
		return NewInternalError(c, "Failed to delete expenses")
	}

	message := "All expenses deleted successfully"
	if !domain.IsAllCategories(category) {
		message = fmt.Sprintf("All %s expenses deleted successfully", category)
	}

	log.Info().Int64("deleted_count", count).Str("category", category).Msg("Expenses bulk deleted")

	return c.JSON(http.StatusOK, DeleteAllResponse{Message: message, DeletedCount: count})
}

// GetTotal godoc
// @Summary Get expense total
// @Description Get the total amount and count of expenses, optionally restricted to one category
// @Tags expenses
// @Accept json
// @Produce json
// @Param category query string false "Filter by category (or 'all')"
// @Success 200 {object} TotalResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses/total [get]
func (h *ExpenseHandler) GetTotal(c echo.Context) error {
	category := c.QueryParam("category")

	total, err := h.expenseService.GetTotal(c.Request().Context(), category)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, invalidCategoryDetail(), nil)
		}
		log.Error().Err(err).Msg("Failed to total expenses")
		return NewInternalError(c, "Failed to total expenses")
	}

	resp := TotalResponse{
		Total: total.Total.StringFixed(2),
		Count: total.Count,
	}
	if category != "" {
		resp.Category = &category
	}

	return c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary Get expense statistics
// @Description Get overall totals and a per-category breakdown with percentages
// @Tags expenses
// @Accept json
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /expenses/stats [get]
func (h *ExpenseHandler) GetStats(c echo.Context) error {
	stats, err := h.expenseService.GetStats(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute expense stats")
		return NewInternalError(c, "Failed to compute expense stats")
	}

	resp := StatsResponse{
		TotalAmount:   stats.TotalAmount.StringFixed(2),
		TotalExpenses: stats.TotalExpenses,
		Categories:    make([]CategoryStatsResponse, 0, len(stats.Categories)),
	}
	for _, cs := range stats.Categories {
		resp.Categories = append(resp.Categories, CategoryStatsResponse{
			Category:   cs.Category,
			Total:      cs.Total.StringFixed(2),
			Count:      cs.Count,
			Percentage: cs.Percentage.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, resp)
}

func toExpenseResponse(expense *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          expense.ID,
		Amount:      expense.Amount.StringFixed(2),
		Description: expense.Description,
		Category:    expense.Category,
		Date:        expense.Date.Format(time.RFC3339),
		CreatedAt:   expense.CreatedAt.Format(time.RFC3339),
	}
}

func invalidCategoryDetail() string {
	return "Invalid category. Must be one of: " + strings.Join(domain.Categories, ", ")
}

func parseIDParam(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid ID")
	}
	return id, nil
}
