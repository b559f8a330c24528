package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lucidwave/qsim-backend/shared/types"
)

// apiKeyHash is the bcrypt hash of the single operator API key this
// single-process sandbox accepts. Set via SetAPIKeyHash at startup;
// a zero-value hash means X-API-Key auth is disabled and only JWT
// bearer tokens are accepted.
var apiKeyHash []byte

// SetAPIKeyHash installs the bcrypt hash checked against the
// X-API-Key header. Call once at startup from the loaded config.
func SetAPIKeyHash(hash []byte) {
	apiKeyHash = hash
}

// AuthMiddleware validates an X-API-Key header against the configured
// bcrypt hash, or a JWT bearer token signed with jwtSecret.
// gateway/main.go applies it to every /v1/experiment route (simulate,
// eigenvector, evolve, restart); the health, greet and formula-preview
// endpoints stay open, mirroring the teacher's /health exemption.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("request_id")

		if apiKey := c.GetHeader("X-API-Key"); apiKey != "" && len(apiKeyHash) > 0 {
			if bcrypt.CompareHashAndPassword(apiKeyHash, []byte(apiKey)) == nil {
				c.Set("auth_type", "api_key")
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, types.NewAPIError(
				"AUTH_001",
				"Missing authentication",
				"Provide either X-API-Key header or Authorization bearer token",
				requestID,
			))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, types.NewAPIError(
				"AUTH_002",
				"Invalid authorization format",
				"Authorization header must be in format 'Bearer <token>'",
				requestID,
			))
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			errText := "token is invalid"
			if err != nil {
				errText = err.Error()
			}
			c.JSON(http.StatusUnauthorized, types.NewAPIError("AUTH_003", "Invalid token", errText, requestID))
			c.Abort()
			return
		}

		c.Set("auth_type", "jwt")
		c.Next()
	}
}

// CORSMiddleware handles CORS headers for the browser-based sandbox UI.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
