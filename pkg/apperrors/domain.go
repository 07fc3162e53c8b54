package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for the order/attachment domain.
*/

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and friends)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists maps duplicate-key style failures to a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic conflict factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation flags a request the current state does not allow.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrOrderCreationFailed wraps any failure inside the order creation
// transaction. The whole transaction has been rolled back when this is
// returned; stage names the step that failed, for diagnostics only.
func ErrOrderCreationFailed(err error, stage string) *AppError {
	e := Wrap(err, CodeOrderCreationFailed, "orders", "Order could not be created", http.StatusInternalServerError)
	e.Details = map[string]string{"stage": stage}
	return e
}

// ErrFileNotFound is returned when a client supplied a stale or invalid
// uploaded-file id.
func ErrFileNotFound(fileID string) *AppError {
	e := New(CodeFileNotFound, "files", "Uploaded file not found", http.StatusNotFound)
	e.Details = map[string]string{"file_id": fileID}
	return e
}

// ErrFileAttached rejects deleting a file that already belongs to an order.
func ErrFileAttached(fileID string) *AppError {
	e := New(CodeFileAttached, "files", "File is attached to an order", http.StatusConflict)
	e.Details = map[string]string{"file_id": fileID}
	return e
}

// Predefined auth errors for the admin surface.
var (
	ErrUnauthorized = New(CodeUnauthorized, "auth", "Authentication required", http.StatusUnauthorized)
	ErrForbidden    = New(CodeForbidden, "auth", "Access denied", http.StatusForbidden)
	ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

	ErrValidationFailed = New(CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest)

	ErrOrderNotFound = New(CodeOrderNotFound, "orders", "Order not found", http.StatusNotFound)

	ErrInvalidOrderStatus = New(CodeInvalidStatus, "orders", "Invalid order status", http.StatusBadRequest)
)
