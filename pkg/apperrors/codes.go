package apperrors

// Error codes grouped by domain.
const (
	// Auth
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"

	// Resources
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	CodeConflict      ErrorCode = "CONFLICT"

	// Orders and attachments
	CodeOrderNotFound          ErrorCode = "ORDER_NOT_FOUND"
	CodeOrderCreationFailed    ErrorCode = "ORDER_CREATION_FAILED"
	CodeFileNotFound           ErrorCode = "FILE_NOT_FOUND"
	CodeFileAttached           ErrorCode = "FILE_ATTACHED"
	CodeLinkConflict           ErrorCode = "LINK_CONFLICT"
	CodeLinkVerificationFailed ErrorCode = "LINK_VERIFICATION_FAILED"

	// System
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeStorageError         ErrorCode = "STORAGE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)
