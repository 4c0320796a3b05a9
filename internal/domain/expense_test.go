package domain

import (
	"testing"
)

func TestCategoriesOrder(t *testing.T) {
	// The category list is part of the API contract: both membership and
	// order must stay stable.
	expected := []string{"Food", "Transportation", "Entertainment", "Shopping", "Bills", "Health", "Other"}

	if len(Categories) != len(expected) {
		t.Fatalf("Expected %d categories, got %d", len(expected), len(Categories))
	}
	for i, want := range expected {
		if Categories[i] != want {
			t.Errorf("Categories[%d] = %q, want %q", i, Categories[i], want)
		}
	}
}

func TestIsValidCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		expected bool
	}{
		{"known category", "Food", true},
		{"last category", "Other", true},
		{"lowercase is rejected", "food", false},
		{"unknown category", "Groceries", false},
		{"empty string", "", false},
		{"all sentinel is not a category", "all", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidCategory(tt.category); got != tt.expected {
				t.Errorf("IsValidCategory(%q) = %v, want %v", tt.category, got, tt.expected)
			}
		})
	}
}

func TestIsAllCategories(t *testing.T) {
	tests := []struct {
		name     string
		category string
		expected bool
	}{
		{"empty means all", "", true},
		{"lowercase all", "all", true},
		{"uppercase all", "ALL", true},
		{"mixed case all", "All", true},
		{"real category is not all", "Food", false},
		{"unknown value is not all", "everything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAllCategories(tt.category); got != tt.expected {
				t.Errorf("IsAllCategories(%q) = %v, want %v", tt.category, got, tt.expected)
			}
		})
	}
}

func TestParseSortField(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected SortField
	}{
		{"id", "id", SortByID},
		{"amount", "amount", SortByAmount},
		{"description", "description", SortByDescription},
		{"category", "category", SortByCategory},
		{"date", "date", SortByDate},
		{"created_at", "created_at", SortByCreatedAt},
		{"unknown falls back to date", "color", SortByDate},
		{"empty falls back to date", "", SortByDate},
		{"case sensitive", "Amount", SortByDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSortField(tt.raw); got != tt.expected {
				t.Errorf("ParseSortField(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected SortOrder
	}{
		{"desc", "desc", SortDesc},
		{"uppercase desc", "DESC", SortDesc},
		{"asc", "asc", SortAsc},
		{"empty defaults to asc", "", SortAsc},
		{"garbage defaults to asc", "sideways", SortAsc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSortOrder(tt.raw); got != tt.expected {
				t.Errorf("ParseSortOrder(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestSortFieldValuesMatchColumns(t *testing.T) {
	// These values are interpolated into ORDER BY clauses after
	// whitelisting, so they must match the column names in the schema.
	columns := map[SortField]string{
		SortByID:          "id",
		SortByAmount:      "amount",
		SortByDescription: "description",
		SortByCategory:    "category",
		SortByDate:        "date",
		SortByCreatedAt:   "created_at",
	}

	for field, col := range columns {
		if string(field) != col {
			t.Errorf("SortField %q does not match column %q", field, col)
		}
	}
}
