package dto

import "net/http"

// Transport-level error codes use the ERR_<CATEGORY> format. Domain workflow
// and identity codes cross the wire exactly as raised because clients branch
// on them.
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Workflow codes raised by the membership domain.
const (
	// CodeInvalidTransition rejects a status transition the workflow
	// does not allow
	CodeInvalidTransition = "INVALID_TRANSITION"
	// CodeRequestClosed rejects a vote against a terminal request
	CodeRequestClosed = "REQUEST_CLOSED"
	// CodeConcurrentModification surfaces an optimistic locking failure
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	// CodeAlreadyApproved rejects re-finalizing an approved request
	CodeAlreadyApproved = "ALREADY_APPROVED"
	// CodeHasOwnedContent blocks deleting a user who still owns content
	CodeHasOwnedContent = "HAS_OWNED_CONTENT"
	// CodeInvalidTargetUser rejects an unusable reassignment target
	CodeInvalidTargetUser = "INVALID_TARGET_USER"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Transition and
// target problems are semantic (422); races and already-finalized requests
// are conflicts (409).
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidJSON:        http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeRateLimited:   http.StatusTooManyRequests,

	CodeInvalidTransition:      http.StatusUnprocessableEntity,
	CodeInvalidTargetUser:      http.StatusUnprocessableEntity,
	CodeRequestClosed:          http.StatusConflict,
	CodeConcurrentModification: http.StatusConflict,
	CodeAlreadyApproved:        http.StatusConflict,
	CodeHasOwnedContent:        http.StatusConflict,

	// Identity codes raised by the auth and user services
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"ACCOUNT_PENDING":     http.StatusForbidden,
	"USERNAME_EXISTS":     http.StatusConflict,
	"EMAIL_EXISTS":        http.StatusConflict,
	"INVALID_ROLE":        http.StatusBadRequest,
	"INVALID_OPERATION":   http.StatusUnprocessableEntity,
	"USER_NOT_FOUND":      http.StatusNotFound,
}

// GetHTTPStatus resolves the HTTP status for an error code, defaulting to 500
// for codes the map does not know.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GenericErrorCodeMapping rewrites generic domain codes into the transport
// ERR_ format. Workflow codes are deliberately absent so they pass through
// unchanged.
var GenericErrorCodeMapping = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeConflict,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode converts a generic domain code to the transport format.
// Workflow and identity codes come back unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := GenericErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
