package postgres

import (
	"context"
	"fmt"
	"strings"

	"expense-tracker-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create inserts a new expense and returns it with the assigned ID.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		INSERT INTO expenses (amount, description, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	created := *expense
	err = r.pool.QueryRow(ctx, query,
		amount, expense.Description, expense.Category, expense.Date, expense.CreatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	return &created, nil
}

// GetByID retrieves a single expense by its ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	query := `
		SELECT id, amount, description, category, date, created_at
		FROM expenses
		WHERE id = $1`

	var e domain.Expense
	var amount pgtype.Numeric

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &amount, &e.Description, &e.Category, &e.Date, &e.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}

	e.Amount = pgNumericToDecimal(amount)
	return &e, nil
}

// List retrieves expenses matching the filters, applying sort and
// pagination in SQL.
func (r *ExpenseRepository) List(ctx context.Context, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	limit := domain.DefaultListLimit
	offset := 0
	sortBy := domain.SortByDate
	sortOrder := domain.SortAsc

	if filters != nil {
		if filters.Limit > 0 {
			limit = filters.Limit
		}
		if filters.Offset > 0 {
			offset = filters.Offset
		}
		if filters.SortBy != "" {
			sortBy = filters.SortBy
		}
		if filters.SortOrder != "" {
			sortOrder = filters.SortOrder
		}
	}

	query := `SELECT id, amount, description, category, date, created_at FROM expenses`
	args := make([]any, 0, 3)

	if filters != nil && filters.Category != nil {
		args = append(args, *filters.Category)
		query += fmt.Sprintf(` WHERE category = $%d`, len(args))
	}

	// Sort fields are whitelisted in the domain layer, safe to interpolate.
	query += fmt.Sprintf(` ORDER BY %s %s`, sortBy, strings.ToUpper(string(sortOrder)))
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		var amount pgtype.Numeric
		if err := rows.Scan(&e.ID, &amount, &e.Description, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = pgNumericToDecimal(amount)
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// Update replaces the mutable fields of an expense. Date and created_at
// are never touched.
func (r *ExpenseRepository) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query := `
		UPDATE expenses
		SET amount = $1, description = $2, category = $3
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, amount, expense.Description, expense.Category, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrExpenseNotFound
	}

	return r.GetByID(ctx, expense.ID)
}

// Delete permanently removes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// DeleteAll removes every expense, optionally restricted to one category,
// and returns how many rows matched before the delete. The count and the
// delete are separate statements, so the count can drift under concurrent
// writes.
func (r *ExpenseRepository) DeleteAll(ctx context.Context, category *string) (int64, error) {
	countQuery := `SELECT COUNT(*) FROM expenses`
	deleteQuery := `DELETE FROM expenses`
	args := make([]any, 0, 1)

	if category != nil {
		countQuery += ` WHERE category = $1`
		deleteQuery += ` WHERE category = $1`
		args = append(args, *category)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}

	if _, err := r.pool.Exec(ctx, deleteQuery, args...); err != nil {
		return 0, fmt.Errorf("delete expenses: %w", err)
	}

	return count, nil
}

// Total sums amounts and counts rows, optionally restricted to one
// category. An empty store yields a zero total.
func (r *ExpenseRepository) Total(ctx context.Context, category *string) (*domain.ExpenseTotal, error) {
	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses`
	args := make([]any, 0, 1)

	if category != nil {
		query += ` WHERE category = $1`
		args = append(args, *category)
	}

	var sum pgtype.Numeric
	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum, &count); err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}

	return &domain.ExpenseTotal{Total: pgNumericToDecimal(sum), Count: count}, nil
}

// Stats returns grand totals plus a per-category breakdown ordered by
// total spend, highest first. Percentages are left for the service layer.
func (r *ExpenseRepository) Stats(ctx context.Context) (*domain.ExpenseStats, error) {
	stats := &domain.ExpenseStats{Categories: make([]domain.CategoryStat, 0)}

	var sum pgtype.Numeric
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses`,
	).Scan(&sum, &stats.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}
	stats.TotalAmount = pgNumericToDecimal(sum)

	rows, err := r.pool.Query(ctx,
		`SELECT category, SUM(amount), COUNT(*) FROM expenses GROUP BY category ORDER BY SUM(amount) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs domain.CategoryStat
		var catSum pgtype.Numeric
		if err := rows.Scan(&cs.Category, &catSum, &cs.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		cs.Total = pgNumericToDecimal(catSum)
		stats.Categories = append(stats.Categories, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}

	return stats, nil
}

// decimalToPgNumeric converts a decimal.Decimal to pgtype.Numeric
func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

// pgNumericToDecimal converts a pgtype.Numeric to decimal.Decimal
func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
