package dto

import "time"

// APIResponse is the envelope of action routes: success plus an optional
// result payload, or an error detail when the request failed
type APIResponse struct {
	Success bool         `json:"success" example:"true"`
	Result  interface{}  `json:"result,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// NewActionResponse reports the outcome of an action route
func NewActionResponse(success bool, result interface{}) APIResponse {
	return APIResponse{Success: success, Result: result}
}

// StructuredResponse wraps data returned by read routes
type StructuredResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message" example:"Course retrieved successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewStructuredResponse creates a standard structured API response
func NewStructuredResponse(data interface{}, message string) StructuredResponse {
	return StructuredResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}
