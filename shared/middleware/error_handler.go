package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lucidwave/qsim-backend/shared/types"
)

// ErrorHandlerConfig configures error handling behavior.
type ErrorHandlerConfig struct {
	EnableStackTrace     bool
	MaxRequestTimeout    time.Duration
	EnableCircuitBreaker bool
	ErrorThreshold       int
	TimeWindow           time.Duration
}

// CircuitBreakerState tracks circuit breaker status for one endpoint.
type CircuitBreakerState struct {
	failures    int
	lastFailure time.Time
	isOpen      bool
}

var (
	defaultConfig = &ErrorHandlerConfig{
		EnableStackTrace:     false,
		MaxRequestTimeout:    30 * time.Second,
		EnableCircuitBreaker: true,
		ErrorThreshold:       10,
		TimeWindow:           1 * time.Minute,
	}
	circuitBreakers = make(map[string]*CircuitBreakerState)
)

// ErrorHandlerMiddleware provides request timeout, per-route circuit
// breaking, and panic recovery into a structured APIError response.
func ErrorHandlerMiddleware(config *ErrorHandlerConfig) gin.HandlerFunc {
	if config == nil {
		config = defaultConfig
	}

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.MaxRequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		if config.EnableCircuitBreaker {
			endpoint := c.Request.Method + ":" + c.FullPath()
			if isCircuitBreakerOpen(endpoint, config) {
				c.JSON(http.StatusServiceUnavailable, types.NewAPIError(
					"CIRCUIT_BREAKER_OPEN",
					"Service temporarily unavailable",
					"Circuit breaker is open due to high error rate",
					c.GetString("request_id"),
				))
				c.Abort()
				return
			}
		}

		defer func() {
			if err := recover(); err != nil {
				handlePanic(c, err, config)
			}
		}()

		c.Next()

		if len(c.Errors) > 0 {
			handleRequestErrors(c, config)
		}

		if config.EnableCircuitBreaker {
			endpoint := c.Request.Method + ":" + c.FullPath()
			updateCircuitBreaker(endpoint, c.Writer.Status() >= 500, config)
		}
	}
}

func handlePanic(c *gin.Context, err interface{}, config *ErrorHandlerConfig) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = "unknown"
	}

	stack := debug.Stack()
	logrus.WithFields(logrus.Fields{
		"request_id": requestID,
		"panic":      fmt.Sprintf("%v", err),
	}).Error("panic recovered")

	details := fmt.Sprintf("internal server error: %v", err)
	if config.EnableStackTrace {
		details = fmt.Sprintf("panic: %v\nstack: %s", err, stack)
	}

	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, types.NewAPIError("INTERNAL_PANIC", "Internal server error", details, requestID))
	}
}

func handleRequestErrors(c *gin.Context, config *ErrorHandlerConfig) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = "unknown"
	}
	if c.Writer.Written() {
		return
	}

	lastError := c.Errors.Last()
	if lastError == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	errorCode := "INTERNAL_ERROR"
	message := "Internal server error"

	switch lastError.Type {
	case gin.ErrorTypeBind:
		statusCode = http.StatusBadRequest
		errorCode = "VALIDATION_ERROR"
		message = "Request validation failed"
	case gin.ErrorTypePublic:
		statusCode = http.StatusBadRequest
		errorCode = "REQUEST_ERROR"
		message = "Bad request"
	case gin.ErrorTypeRender:
		statusCode = http.StatusInternalServerError
		errorCode = "RENDER_ERROR"
		message = "Response rendering failed"
	}

	c.JSON(statusCode, types.NewAPIError(errorCode, message, lastError.Error(), requestID))
}

func isCircuitBreakerOpen(endpoint string, config *ErrorHandlerConfig) bool {
	state, exists := circuitBreakers[endpoint]
	if !exists {
		circuitBreakers[endpoint] = &CircuitBreakerState{}
		return false
	}
	if time.Since(state.lastFailure) > config.TimeWindow {
		state.failures = 0
		state.isOpen = false
	}
	return state.isOpen
}

func updateCircuitBreaker(endpoint string, isError bool, config *ErrorHandlerConfig) {
	state, exists := circuitBreakers[endpoint]
	if !exists {
		state = &CircuitBreakerState{}
		circuitBreakers[endpoint] = state
	}
	if isError {
		state.failures++
		state.lastFailure = time.Now()
		if state.failures >= config.ErrorThreshold {
			state.isOpen = true
		}
	} else {
		state.failures = 0
		state.isOpen = false
	}
}

// TimeoutMiddleware adds request timeout handling independent of
// ErrorHandlerMiddleware's own per-request context timeout, for
// routes that need a tighter bound.
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		done := make(chan bool, 1)
		go func() {
			c.Next()
			done <- true
		}()

		select {
		case <-done:
			return
		case <-ctx.Done():
			requestID := c.GetString("request_id")
			c.JSON(http.StatusRequestTimeout, types.NewAPIError(
				"REQUEST_TIMEOUT",
				"Request timeout",
				fmt.Sprintf("request exceeded timeout of %v", timeout),
				requestID,
			))
			c.Abort()
		}
	}
}

// ValidationMiddleware rejects unsupported content types and
// oversized request bodies before a handler ever sees them.
func ValidationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" {
			contentType := c.GetHeader("Content-Type")
			if contentType != "application/json" && contentType != "" {
				c.JSON(http.StatusUnsupportedMediaType, types.NewAPIError(
					"UNSUPPORTED_MEDIA_TYPE",
					"Unsupported media type",
					"Only application/json is supported",
					c.GetString("request_id"),
				))
				c.Abort()
				return
			}
		}

		if c.Request.ContentLength > 10*1024*1024 {
			c.JSON(http.StatusRequestEntityTooLarge, types.NewAPIError(
				"REQUEST_TOO_LARGE",
				"Request entity too large",
				"Request body exceeds 10MB limit",
				c.GetString("request_id"),
			))
			c.Abort()
			return
		}

		c.Next()
	}
}
