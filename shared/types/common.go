package types

import (
	"time"

	"github.com/google/uuid"
)

// APIResponse is the standard response envelope returned by every
// gateway route.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries a stable code alongside a human-readable message,
// per the gateway's FORMULA_00N/AUTH_00N numbering convention.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Config is the gateway's runtime configuration, populated by
// config.Load from the environment.
type Config struct {
	Port        int    `json:"port"`
	JWTSecret   string `json:"jwt_secret"`
	APIKey      string `json:"-"`
	LogLevel    string `json:"log_level"`
	Environment string `json:"environment"`
	ServiceName string `json:"service_name"`
	MetricsPort int    `json:"metrics_port"`
}

// NewRequestID generates a new request correlation ID.
func NewRequestID() string {
	return uuid.New().String()
}

// NewAPIResponse creates a successful API response.
func NewAPIResponse(data interface{}, requestID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}

// NewAPIError creates a failed API response carrying a structured error.
func NewAPIError(code, message, details, requestID string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: requestID,
		Timestamp: time.Now(),
	}
}
