package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, metaHandler *MetaHandler, expenseHandler *ExpenseHandler) {
	// Service metadata
	e.GET("/", metaHandler.Root)
	e.GET("/categories", metaHandler.GetCategories)

	// Expense routes. Static segments match before :id, so /expenses/total
	// and /expenses/stats stay reachable.
	expenses := e.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.DELETE("", expenseHandler.DeleteAllExpenses)
	expenses.GET("/total", expenseHandler.GetTotal)
	expenses.GET("/stats", expenseHandler.GetStats)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)
}
