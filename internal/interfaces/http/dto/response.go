package dto

import "time"

// Response is the envelope every endpoint returns. Exactly one of Data and
// Error is populated; Meta only accompanies paginated lists.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo carries the machine-readable error payload.
type ErrorInfo struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ValidationDetail describes a single field validation failure
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta is the pagination block on list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse wraps data in a success envelope.
func NewSuccessResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta wraps a page of data with pagination metadata.
// A non-positive page size falls back to 20.
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	if pageSize < 1 {
		pageSize = 20
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

func failure(info ErrorInfo) Response {
	info.Timestamp = time.Now()
	return Response{Success: false, Error: &info}
}

// NewErrorResponse builds an error envelope. The code is normalized to the
// transport format.
func NewErrorResponse(code, message string) Response {
	return failure(ErrorInfo{Code: NormalizeErrorCode(code), Message: message})
}

// NewErrorResponseWithRequestID builds an error envelope carrying the request ID.
func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	return failure(ErrorInfo{Code: code, Message: message, RequestID: requestID})
}

// NewErrorResponseWithDetails builds an error envelope with a structured
// payload. Used for errors like HAS_OWNED_CONTENT where the client needs the
// full audit to decide how to proceed.
func NewErrorResponseWithDetails(code, message, requestID string, details interface{}) Response {
	return failure(ErrorInfo{Code: code, Message: message, Details: details, RequestID: requestID})
}

// NewValidationErrorResponse builds the per-field validation error envelope.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	return failure(ErrorInfo{Code: ErrCodeValidation, Message: message, Details: details, RequestID: requestID})
}

// ListRequest holds the common list/pagination query parameters.
type ListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}

// DefaultListRequest returns the defaults list endpoints start from.
func DefaultListRequest() ListRequest {
	return ListRequest{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// IDRequest binds an ID path parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// TimestampResponse embeds entity timestamps in responses.
type TimestampResponse struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
