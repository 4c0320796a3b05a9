package domain

import "errors"

// Domain errors
var (
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrDescriptionRequired  = errors.New("description is required")
	ErrDescriptionTooLong   = errors.New("description exceeds maximum length")
	ErrInvalidCategory      = errors.New("invalid category")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Validation constants
const (
	MaxDescriptionLength = 200
)
