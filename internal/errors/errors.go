// Package errors provides custom error types for the clubledger API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid ID card or mobile number", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountInactive    = &AppError{Code: "ACCOUNT_INACTIVE", Message: "Account is inactive. Contact a super admin", StatusCode: http.StatusForbidden}
	ErrTokenRevoked       = &AppError{Code: "TOKEN_REVOKED", Message: "Token has been revoked", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound}
	// ErrCategoryNotFound is raised when an expense references a budget
	// category that does not exist. It is a 400 because the category name
	// arrives in the request payload, not the path.
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category does not exist in budget. Please add the category in budget first", StatusCode: http.StatusBadRequest}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "Category already exists. Please use a different category name", StatusCode: http.StatusConflict}
	ErrBudgetInUse       = &AppError{Code: "BUDGET_IN_USE", Message: "Category has approved expenses charged against it", StatusCode: http.StatusConflict}
	ErrBudgetContention  = &AppError{Code: "BUDGET_CONTENTION", Message: "Budget is being updated concurrently, please retry", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound    = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInsufficientBudget = &AppError{Code: "INSUFFICIENT_BUDGET", Message: "Insufficient budget remaining for this category", StatusCode: http.StatusBadRequest}
	ErrAlreadyApproved    = &AppError{Code: "ALREADY_APPROVED", Message: "Already approved", StatusCode: http.StatusBadRequest}
)

// Donation errors.
var (
	ErrDonationNotFound = &AppError{Code: "DONATION_NOT_FOUND", Message: "Donation not found", StatusCode: http.StatusNotFound}
)

// Admin & member errors.
var (
	ErrAdminNotFound   = &AppError{Code: "ADMIN_NOT_FOUND", Message: "Admin not found", StatusCode: http.StatusNotFound}
	ErrMemberNotFound  = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found", StatusCode: http.StatusNotFound}
	ErrDuplicateIDCard = &AppError{Code: "DUPLICATE_ID_CARD", Message: "An admin with this ID card number already exists", StatusCode: http.StatusConflict}
	ErrDuplicateMobile = &AppError{Code: "DUPLICATE_MOBILE", Message: "Mobile number already registered", StatusCode: http.StatusConflict}
)

// Export errors.
var (
	ErrInvalidExportType = &AppError{Code: "INVALID_EXPORT_TYPE", Message: "Invalid export type", StatusCode: http.StatusBadRequest}
)
