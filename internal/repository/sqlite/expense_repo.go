package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expense-tracker-api/internal/domain"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ExpenseRepository implements domain.ExpenseRepository on a local SQLite
// file. Amounts are stored in a REAL column and converted to decimals at
// the boundary.
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository opens (creating if needed) the database at dbPath,
// applies pending migrations and returns the repository.
func NewExpenseRepository(dbPath string) (*ExpenseRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &ExpenseRepository{db: db}, nil
}

// Close closes the underlying database handle.
func (r *ExpenseRepository) Close() error {
	return r.db.Close()
}

// Create inserts a new expense and returns it with the assigned ID.
func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount, description, category, date, created_at) VALUES (?, ?, ?, ?, ?)`,
		expense.Amount.InexactFloat64(), expense.Description, expense.Category, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}

	created := *expense
	created.ID = id
	return &created, nil
}

// GetByID retrieves a single expense by its ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*domain.Expense, error) {
	var e domain.Expense
	var amount float64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount, description, category, date, created_at FROM expenses WHERE id = ?`, id,
	).Scan(&e.ID, &amount, &e.Description, &e.Category, &e.Date, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}

	e.Amount = decimal.NewFromFloat(amount)
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
		query += ` WHERE category = ?`
		args = append(args, *filters.Category)
	}

	// Sort fields are whitelisted in the domain layer, safe to interpolate.
	query += fmt.Sprintf(` ORDER BY %s %s LIMIT ? OFFSET ?`, sortBy, strings.ToUpper(string(sortOrder)))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		var amount float64
		if err := rows.Scan(&e.ID, &amount, &e.Description, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Amount = decimal.NewFromFloat(amount)
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
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category = ? WHERE id = ?`,
		expense.Amount.InexactFloat64(), expense.Description, expense.Category, expense.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrExpenseNotFound
	}

	return r.GetByID(ctx, expense.ID)
}

// Delete permanently removes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
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
		countQuery += ` WHERE category = ?`
		deleteQuery += ` WHERE category = ?`
		args = append(args, *category)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, deleteQuery, args...); err != nil {
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
		query += ` WHERE category = ?`
		args = append(args, *category)
	}

	var sum float64
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&sum, &count); err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}

	return &domain.ExpenseTotal{Total: decimal.NewFromFloat(sum), Count: count}, nil
}

// Stats returns grand totals plus a per-category breakdown ordered by
// total spend, highest first. Percentages are left for the service layer.
func (r *ExpenseRepository) Stats(ctx context.Context) (*domain.ExpenseStats, error) {
	stats := &domain.ExpenseStats{Categories: make([]domain.CategoryStat, 0)}

	var sum float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM expenses`,
	).Scan(&sum, &stats.TotalExpenses)
	if err != nil {
		return nil, fmt.Errorf("total expenses: %w", err)
	}
	stats.TotalAmount = decimal.NewFromFloat(sum)

	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(amount), COUNT(*) FROM expenses GROUP BY category ORDER BY SUM(amount) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs domain.CategoryStat
		var catSum float64
		if err := rows.Scan(&cs.Category, &catSum, &cs.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		cs.Total = decimal.NewFromFloat(catSum)
		stats.Categories = append(stats.Categories, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}

	return stats, nil
}
