package handler

import (
	"net/http"

	"expense-tracker-api/internal/domain"

	"github.com/labstack/echo/v4"
)

// APIVersion is reported by the root endpoint and the OpenAPI document
const APIVersion = "1.0.0"

// MetaHandler handles service metadata HTTP requests
type MetaHandler struct{}

// NewMetaHandler creates a new MetaHandler
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// RootResponse represents the API banner returned at the root path
type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// CategoriesResponse represents the available expense categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// Root godoc
// @Summary API banner
// @Description Get the API name and version
// @Tags meta
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *MetaHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Message: "Expense Tracker API",
		Version: APIVersion,
	})
}

// GetCategories godoc
// @Summary List categories
// @Description Get all available expense categories
// @Tags meta
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /categories [get]
func (h *MetaHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{Categories: domain.Categories})
}
