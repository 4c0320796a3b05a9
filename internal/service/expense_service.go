package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"expense-tracker-api/internal/domain"

	"github.com/shopspring/decimal"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
	}
}

// CreateExpenseInput contains the data needed to create an expense
type CreateExpenseInput struct {
	Amount      decimal.Decimal
	Description string
	Category    string
}

// UpdateExpenseInput contains the fields that can be updated on an expense.
// Nil fields are left unchanged.
type UpdateExpenseInput struct {
	Amount      *decimal.Decimal
	Description *string
	Category    *string
}

// ListExpensesInput contains the query options for listing expenses
type ListExpensesInput struct {
	Category  string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// CreateExpense creates a new expense with validation
func (s *ExpenseService) CreateExpense(ctx context.Context, input CreateExpenseInput) (*domain.Expense, error) {
	// Validate amount
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	// Validate description
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	// Validate category
	if !domain.IsValidCategory(input.Category) {
		return nil, domain.ErrInvalidCategory
	}

	// The expense date and creation timestamp are pinned to the same instant
	now := time.Now().UTC()

	expense := &domain.Expense{
		Amount:      input.Amount,
		Description: description,
		Category:    input.Category,
		Date:        now,
		CreatedAt:   now,
	}

	return s.expenseRepo.Create(ctx, expense)
}

// GetExpense retrieves a single expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id int64) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ctx, id)
}

// ListExpenses retrieves expenses with optional filtering, sorting and pagination
func (s *ExpenseService) ListExpenses(ctx context.Context, input ListExpensesInput) ([]*domain.Expense, error) {
	category, err := resolveCategoryFilter(input.Category)
	if err != nil {
		return nil, err
	}

	filters := &domain.ExpenseFilters{
		Category:  category,
		Limit:     input.Limit,
		Offset:    input.Offset,
		SortBy:    domain.ParseSortField(input.SortBy),
		SortOrder: domain.ParseSortOrder(input.SortOrder),
	}

	return s.expenseRepo.List(ctx, filters)
}

// UpdateExpense applies a partial update to an existing expense.
// Each provided field is validated with the same rules as creation.
func (s *ExpenseService) UpdateExpense(ctx context.Context, id int64, input UpdateExpenseInput) (*domain.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrInvalidAmount
		}
		expense.Amount = *input.Amount
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, domain.ErrDescriptionRequired
		}
		if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
			return nil, domain.ErrDescriptionTooLong
		}
		expense.Description = description
	}

	if input.Category != nil {
		if !domain.IsValidCategory(*input.Category) {
			return nil, domain.ErrInvalidCategory
		}
		expense.Category = *input.Category
	}

	return s.expenseRepo.Update(ctx, expense)
}

// DeleteExpense deletes a single expense by ID
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	return s.expenseRepo.Delete(ctx, id)
}

// DeleteAllExpenses removes every expense, optionally restricted to one
// category. The confirm flag must be set; it is the guard against
// accidental bulk deletion. Returns the number of expenses removed.
func (s *ExpenseService) DeleteAllExpenses(ctx context.Context, category string, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrConfirmationRequired
	}

	filter, err := resolveCategoryFilter(category)
	if err != nil {
		return 0, err
	}

	return s.expenseRepo.DeleteAll(ctx, filter)
}

// GetTotal returns the sum and count of expenses, optionally restricted
// to one category
func (s *ExpenseService) GetTotal(ctx context.Context, category string) (*domain.ExpenseTotal, error) {
	filter, err := resolveCategoryFilter(category)
	if err != nil {
		return nil, err
	}

	return s.expenseRepo.Total(ctx, filter)
}

// GetStats returns aggregate statistics with each category's share of the
// overall total. Percentages are zero when there is no spend recorded.
func (s *ExpenseService) GetStats(ctx context.Context) (*domain.ExpenseStats, error) {
	stats, err := s.expenseRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	hundred := decimal.NewFromInt(100)
	for i := range stats.Categories {
		if stats.TotalAmount.IsZero() {
			stats.Categories[i].Percentage = decimal.Zero
			continue
		}
		stats.Categories[i].Percentage = stats.Categories[i].Total.
			Div(stats.TotalAmount).
			Mul(hundred).
			Round(2)
	}

	return stats, nil
}

// resolveCategoryFilter validates an optional category filter. An empty
// value or the "all" sentinel means no filter.
func resolveCategoryFilter(category string) (*string, error) {
	if domain.IsAllCategories(category) {
		return nil, nil
	}
	if !domain.IsValidCategory(category) {
		return nil, domain.ErrInvalidCategory
	}
	return &category, nil
}
