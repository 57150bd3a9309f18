package dto

// Response is the envelope every endpoint answers with
type Response struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message,omitempty"`
	Data       any           `json:"data,omitempty"`
	Code       string        `json:"code,omitempty"`
	Errors     []FieldDetail `json:"errors,omitempty"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

// FieldDetail names one invalid request field
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination is attached to list responses
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewMessageResponse creates a success response carrying a message
func NewMessageResponse(message string, data any) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewListResponse creates a success response with pagination
func NewListResponse(data any, total int64, page, limit int) Response {
	return Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Total: total,
			Page:  page,
			Limit: limit,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// NewValidationErrorResponse creates an error response listing the failed fields
func NewValidationErrorResponse(message string, details []FieldDetail) Response {
	return Response{
		Success: false,
		Code:    ErrCodeValidation,
		Message: message,
		Errors:  details,
	}
}

// IDRequest represents a request with an ID path parameter
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
