package handler

import "github.com/vereinhub/backend/internal/interfaces/http/dto"

// The types below exist for the OpenAPI generator, which cannot see
// through dto.Response's untyped Data field.

// APIResponse mirrors the success envelope with a typed payload.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse mirrors the error envelope.
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// SuccessResponse is the bare acknowledgement without data.
// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// CountData wraps a single count value.
// @Description Count data
type CountData struct {
	Count int64 `json:"count"`
}
