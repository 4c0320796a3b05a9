package testutil

import (
	"context"
	"sort"

	"expense-tracker-api/internal/domain"

	"github.com/shopspring/decimal"
)

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses    map[int64]*domain.Expense
	NextID      int64
	CreateFn    func(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	GetByIDFn   func(ctx context.Context, id int64) (*domain.Expense, error)
	ListFn      func(ctx context.Context, filters *domain.ExpenseFilters) ([]*domain.Expense, error)
	UpdateFn    func(ctx context.Context, expense *domain.Expense) (*domain.Expense, error)
	DeleteFn    func(ctx context.Context, id int64) error
	DeleteAllFn func(ctx context.Context, category *string) (int64, error)
	TotalFn     func(ctx context.Context, category *string) (*domain.ExpenseTotal, error)
	StatsFn     func(ctx context.Context) (*domain.ExpenseStats, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int64]*domain.Expense),
		NextID:   1,
	}
}

// Create stores a new expense and assigns it an ID
func (m *MockExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, expense)
	}
	expense.ID = m.NextID
	m.NextID++
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense by ID
func (m *MockExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	expense, ok := m.Expenses[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// List retrieves expenses with filtering, sorting and pagination applied
// in memory, mirroring what the SQL implementations do
func (m *MockExpenseRepository) List(ctx context.Context, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filters)
	}

	if filters == nil {
		filters = &domain.ExpenseFilters{}
	}
	expenses := m.collect(filters.Category)
	sortExpenses(expenses, filters.SortBy, filters.SortOrder)

	limit := filters.Limit
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= len(expenses) {
		return []*domain.Expense{}, nil
	}
	end := offset + limit
	if end > len(expenses) {
		end = len(expenses)
	}
	return expenses[offset:end], nil
}

// Update replaces a stored expense
func (m *MockExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, expense)
	}
	if _, ok := m.Expenses[expense.ID]; !ok {
		return nil, domain.ErrExpenseNotFound
	}
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense by ID
func (m *MockExpenseRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if _, ok := m.Expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// DeleteAll removes every expense, optionally restricted to one category,
// and returns the number removed
func (m *MockExpenseRepository) DeleteAll(ctx context.Context, category *string) (int64, error) {
	if m.DeleteAllFn != nil {
		return m.DeleteAllFn(ctx, category)
	}
	var count int64
	for id, e := range m.Expenses {
		if category != nil && e.Category != *category {
			continue
		}
		delete(m.Expenses, id)
		count++
	}
	return count, nil
}

// Total sums the stored expenses, optionally restricted to one category
func (m *MockExpenseRepository) Total(ctx context.Context, category *string) (*domain.ExpenseTotal, error) {
	if m.TotalFn != nil {
		return m.TotalFn(ctx, category)
	}
	total := &domain.ExpenseTotal{Total: decimal.Zero}
	for _, e := range m.Expenses {
		if category != nil && e.Category != *category {
			continue
		}
		total.Total = total.Total.Add(e.Amount)
		total.Count++
	}
	return total, nil
}

// Stats aggregates the stored expenses per category, ordered by total
// spend descending. Percentages are left unset, matching the SQL
// implementations
func (m *MockExpenseRepository) Stats(ctx context.Context) (*domain.ExpenseStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx)
	}

	stats := &domain.ExpenseStats{TotalAmount: decimal.Zero}
	byCategory := make(map[string]*domain.CategoryStat)
	for _, e := range m.Expenses {
		stats.TotalAmount = stats.TotalAmount.Add(e.Amount)
		stats.TotalExpenses++
		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &domain.CategoryStat{Category: e.Category, Total: decimal.Zero}
			byCategory[e.Category] = cs
		}
		cs.Total = cs.Total.Add(e.Amount)
		cs.Count++
	}

	stats.Categories = make([]domain.CategoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		stats.Categories = append(stats.Categories, *cs)
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Total.GreaterThan(stats.Categories[j].Total)
	})
	return stats, nil
}

// AddExpense adds an expense to the mock repository (helper for tests)
func (m *MockExpenseRepository) AddExpense(expense *domain.Expense) {
	m.Expenses[expense.ID] = expense
	if expense.ID >= m.NextID {
		m.NextID = expense.ID + 1
	}
}

// collect returns the stored expenses in ID order, optionally restricted
// to one category
func (m *MockExpenseRepository) collect(category *string) []*domain.Expense {
	expenses := make([]*domain.Expense, 0, len(m.Expenses))
	for _, e := range m.Expenses {
		if category != nil && e.Category != *category {
			continue
		}
		expenses = append(expenses, e)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses
}

func sortExpenses(expenses []*domain.Expense, field domain.SortField, order domain.SortOrder) {
	less := func(a, b *domain.Expense) bool {
		switch field {
		case domain.SortByID:
			return a.ID < b.ID
		case domain.SortByAmount:
			return a.Amount.LessThan(b.Amount)
		case domain.SortByDescription:
			return a.Description < b.Description
		case domain.SortByCategory:
			return a.Category < b.Category
		case domain.SortByCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.Date.Before(b.Date)
		}
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		if order == domain.SortDesc {
			return less(expenses[j], expenses[i])
		}
		return less(expenses[i], expenses[j])
	})
}
