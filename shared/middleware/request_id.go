package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lucidwave/qsim-backend/shared/types"
)

// RequestIDMiddleware stamps every request with a correlation ID before
// any handler runs, so open routes (formula preview, greet) carry one
// in their response envelope just like the authenticated ones.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("request_id", types.NewRequestID())
		c.Next()
	}
}
