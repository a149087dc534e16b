package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeServiceUnavailable is used when a dependency is shutting down or unreachable
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication and session error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeAccessDenied is used when a verified identity is not on the admin allow-list
	ErrCodeAccessDenied = "ERR_ACCESS_DENIED"
	// ErrCodeAuthenticationFailed is used when the identity provider rejects the credential
	ErrCodeAuthenticationFailed = "ERR_AUTHENTICATION_FAILED"
	// ErrCodeTokenExpired is used when the session token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the session token is malformed or has a bad signature
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the session token was revoked by logout or rotation
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
	// ErrCodeTokenMaxRefresh is used when a refresh chain has reached its limit
	ErrCodeTokenMaxRefresh = "ERR_TOKEN_MAX_REFRESH"
	// ErrCodeTokenError is used when tokens could not be issued
	ErrCodeTokenError = "ERR_TOKEN_ERROR"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeOwnerImmutable is used when a request tries to change the owner's access
	ErrCodeOwnerImmutable = "ERR_OWNER_IMMUTABLE"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeInvalidEmail is used for a missing or malformed email address
	ErrCodeInvalidEmail = "ERR_INVALID_EMAIL"
	// ErrCodeInvalidProduct is used when a product fails catalog rules
	ErrCodeInvalidProduct = "ERR_INVALID_PRODUCT"
	// ErrCodeInvalidProfile is used when a customer profile edit is rejected
	ErrCodeInvalidProfile = "ERR_INVALID_PROFILE"
	// ErrCodeInvalidStatus is used for an unknown order status
	ErrCodeInvalidStatus = "ERR_INVALID_STATUS"
)

// Upstream error codes
const (
	// ErrCodeUploadFailed is used when the media host rejects an upload
	ErrCodeUploadFailed = "ERR_UPLOAD_FAILED"
	// ErrCodeEmailFailed is used when a password reset email could not be produced or sent
	ErrCodeEmailFailed = "ERR_EMAIL_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:            http.StatusInternalServerError,
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeForbidden:            http.StatusForbidden,
	ErrCodeAccessDenied:         http.StatusForbidden,
	ErrCodeAuthenticationFailed: http.StatusUnauthorized,
	ErrCodeTokenExpired:         http.StatusUnauthorized,
	ErrCodeTokenInvalid:         http.StatusUnauthorized,
	ErrCodeTokenRevoked:         http.StatusUnauthorized,
	ErrCodeTokenMaxRefresh:      http.StatusUnauthorized,
	ErrCodeTokenError:           http.StatusInternalServerError,

	// Resource errors
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeAlreadyExists:  http.StatusConflict,
	ErrCodeOwnerImmutable: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:   http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInvalidEmail:    http.StatusBadRequest,
	ErrCodeInvalidProduct:  http.StatusBadRequest,
	ErrCodeInvalidProfile:  http.StatusBadRequest,
	ErrCodeInvalidStatus:   http.StatusBadRequest,

	// Upstream errors -> 502 Bad Gateway
	ErrCodeUploadFailed: http.StatusBadGateway,
	ErrCodeEmailFailed:  http.StatusBadGateway,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API codes above.
// Several fine-grained domain codes share one API code; the message keeps the detail.
var DomainErrorCodeMapping = map[string]string{
	// shared
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,

	// access
	"ACCESS_DENIED":         ErrCodeAccessDenied,
	"AUTHENTICATION_FAILED": ErrCodeAuthenticationFailed,
	"TOKEN_EXPIRED":         ErrCodeTokenExpired,
	"TOKEN_INVALID":         ErrCodeTokenInvalid,
	"TOKEN_REVOKED":         ErrCodeTokenRevoked,
	"TOKEN_MAX_REFRESH":     ErrCodeTokenMaxRefresh,
	"TOKEN_ERROR":           ErrCodeTokenError,
	"EMAIL_REQUIRED":        ErrCodeInvalidEmail,
	"INVALID_EMAIL":         ErrCodeInvalidEmail,
	"OWNER_IMMUTABLE":       ErrCodeOwnerImmutable,

	// customer
	"INVALID_NAME":      ErrCodeInvalidProfile,
	"INVALID_PHONE":     ErrCodeInvalidProfile,
	"RESET_LINK_FAILED": ErrCodeEmailFailed,
	"EMAIL_SEND_FAILED": ErrCodeEmailFailed,
	"MAIL_DISABLED":     ErrCodeServiceUnavailable,

	// catalog
	"NAME_REQUIRED":     ErrCodeInvalidProduct,
	"INVALID_PRICE":     ErrCodeInvalidProduct,
	"SIZES_REQUIRED":    ErrCodeInvalidProduct,
	"IMAGES_REQUIRED":   ErrCodeInvalidProduct,
	"TOO_MANY_IMAGES":   ErrCodeInvalidProduct,
	"INVALID_CATEGORY":  ErrCodeInvalidProduct,
	"INVALID_GENDER":    ErrCodeInvalidProduct,
	"INVALID_SIZE":      ErrCodeInvalidProduct,
	"INVALID_STOCK":     ErrCodeInvalidProduct,
	"FILENAME_REQUIRED": ErrCodeValidationRequired,
	"UPLOAD_FAILED":     ErrCodeUploadFailed,
	"FEED_CLOSED":       ErrCodeServiceUnavailable,

	// order
	"INVALID_STATUS": ErrCodeInvalidStatus,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
