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
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeStepIncomplete is used when a wizard step fails its completeness check
	ErrCodeStepIncomplete = "ERR_STEP_INCOMPLETE"
	// ErrCodeSignatureMissing is used when submission is attempted without a signature
	ErrCodeSignatureMissing = "ERR_SIGNATURE_MISSING"
	// ErrCodeNotOnReviewStep is used when submission is attempted off the review step
	ErrCodeNotOnReviewStep = "ERR_NOT_ON_REVIEW_STEP"
	// ErrCodeAlreadySubmitted is used when a submitted application is modified
	ErrCodeAlreadySubmitted = "ERR_ALREADY_SUBMITTED"
	// ErrCodeSubmissionInFlight is used when a submission is already being processed
	ErrCodeSubmissionInFlight = "ERR_SUBMISSION_IN_FLIGHT"
)

// Upload error codes
const (
	// ErrCodeFileTooLarge is used when an uploaded file exceeds the size ceiling
	ErrCodeFileTooLarge = "ERR_FILE_TOO_LARGE"
	// ErrCodeInvalidFileType is used when an uploaded file has a disallowed type
	ErrCodeInvalidFileType = "ERR_INVALID_FILE_TYPE"
	// ErrCodeEmptySignature is used when a drawn signature has no strokes
	ErrCodeEmptySignature = "ERR_EMPTY_SIGNATURE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:       http.StatusUnprocessableEntity,
	ErrCodeStepIncomplete:     http.StatusUnprocessableEntity,
	ErrCodeSignatureMissing:   http.StatusUnprocessableEntity,
	ErrCodeNotOnReviewStep:    http.StatusUnprocessableEntity,
	ErrCodeAlreadySubmitted:   http.StatusConflict,
	ErrCodeSubmissionInFlight: http.StatusConflict,

	// Upload errors
	ErrCodeFileTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeInvalidFileType: http.StatusUnsupportedMediaType,
	ErrCodeEmptySignature:  http.StatusBadRequest,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps old error codes to new standardized codes
// This is for backward compatibility with existing domain errors
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"STEP_INCOMPLETE":      ErrCodeStepIncomplete,
	"SIGNATURE_MISSING":    ErrCodeSignatureMissing,
	"NOT_ON_REVIEW_STEP":   ErrCodeNotOnReviewStep,
	"ALREADY_SUBMITTED":    ErrCodeAlreadySubmitted,
	"SUBMISSION_IN_FLIGHT": ErrCodeSubmissionInFlight,
	"FILE_TOO_LARGE":       ErrCodeFileTooLarge,
	"INVALID_FILE_TYPE":    ErrCodeInvalidFileType,
	"EMPTY_SIGNATURE":      ErrCodeEmptySignature,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	"INVALID_JURISDICTION":      ErrCodeValidation,
	"UNKNOWN_JURISDICTION":      ErrCodeValidation,
	"INVALID_EMAIL":             ErrCodeValidation,
	"INVALID_RESUME_CODE":       ErrCodeValidation,
	"INVALID_ONBOARDING_ID":     ErrCodeValidation,
	"INVALID_DRAFT":             ErrCodeValidation,
	"INVALID_STEP_INDEX":        ErrCodeValidation,
	"UNKNOWN_STEP":              ErrCodeValidation,
	"INVALID_SIGNATURE":         ErrCodeValidation,
	"INVALID_SIGNATURE_TYPE":    ErrCodeValidation,
	"INVALID_COMPANY_NAMES":     ErrCodeValidation,
	"INVALID_SHAREHOLDERS":      ErrCodeValidation,
	"INVALID_DIRECTOR":          ErrCodeValidation,
	"INVALID_DIRECTORS":         ErrCodeValidation,
	"INVALID_BUSINESS_ACTIVITY": ErrCodeValidation,
	"INVALID_SOURCE_OF_FUNDS":   ErrCodeValidation,
	"INVALID_DECLARATION":       ErrCodeValidation,
	"EMPTY_FILE":                ErrCodeValidation,
	"ALREADY_PAID":              ErrCodeInvalidState,
	"ORDER_CANCELLED":           ErrCodeInvalidState,
	"STORAGE_ERROR":             ErrCodeInternal,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
