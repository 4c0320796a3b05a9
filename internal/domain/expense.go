package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Categories is the fixed set of expense categories, in the order the API
// exposes them. It is part of the wire contract, not a database table.
var Categories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Bills",
	"Health",
	"Other",
}

// CategoryAll is the filter sentinel meaning "no category filter".
const CategoryAll = "all"

// IsValidCategory reports whether category is one of the fixed set.
// Matching is case-sensitive: "food" is not a valid category.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// IsAllCategories reports whether a raw filter value disables category
// filtering. Empty values and the "all" sentinel (any case) qualify.
func IsAllCategories(category string) bool {
	return category == "" || strings.EqualFold(category, CategoryAll)
}

type Expense struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SortField is a whitelisted expense column for ordering list results.
type SortField string

const (
	SortByID          SortField = "id"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
	SortByCategory    SortField = "category"
	SortByDate        SortField = "date"
	SortByCreatedAt   SortField = "created_at"
)

// ParseSortField maps a raw sort key onto a known column. Unrecognized
// values fall back to SortByDate instead of erroring.
func ParseSortField(raw string) SortField {
	switch f := SortField(raw); f {
	case SortByID, SortByAmount, SortByDescription, SortByCategory, SortByDate, SortByCreatedAt:
		return f
	}
	return SortByDate
}

// SortOrder is the direction for ordering list results.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a raw direction onto asc/desc. Only a case-insensitive
// "desc" selects descending; everything else is ascending.
func ParseSortOrder(raw string) SortOrder {
	if strings.EqualFold(raw, string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ExpenseFilters narrows, orders and pages list queries. A nil Category
// means no filtering; the "all" sentinel is resolved before this point.
type ExpenseFilters struct {
	Category  *string
	Limit     int
	Offset    int
	SortBy    SortField
	SortOrder SortOrder
}

// ExpenseTotal is the aggregate returned by Total.
type ExpenseTotal struct {
	Total decimal.Decimal
	Count int64
}

// CategoryStat is one category's share of the overall spend. Percentage is
// filled in by the service layer, not the store.
type CategoryStat struct {
	Category   string
	Total      decimal.Decimal
	Count      int64
	Percentage decimal.Decimal
}

// ExpenseStats aggregates the whole store: grand totals plus a per-category
// breakdown ordered by total, highest first.
type ExpenseStats struct {
	TotalAmount   decimal.Decimal
	TotalExpenses int64
	Categories    []CategoryStat
}

// ExpenseRepository is the storage contract for expenses. The concrete
// store (SQLite by default, PostgreSQL via DATABASE_URL) is selected at
// startup and injected into the service.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *Expense) (*Expense, error)
	GetByID(ctx context.Context, id int64) (*Expense, error)
	List(ctx context.Context, filters *ExpenseFilters) ([]*Expense, error)
	Update(ctx context.Context, expense *Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context, category *string) (int64, error)
	Total(ctx context.Context, category *string) (*ExpenseTotal, error)
	Stats(ctx context.Context) (*ExpenseStats, error)
}
