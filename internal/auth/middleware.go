package auth

import (
	"log"
	"strings"

	"bounty-market/internal/response"
	"bounty-market/internal/services"

	"github.com/gin-gonic/gin"
)

const pubkeyKey = "pubkey"

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, services.CodeUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>" format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Abort(c, services.CodeUnauthorized, "Invalid authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			log.Printf("[Auth] Token validation failed: %v", err)
			response.Abort(c, services.CodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(pubkeyKey, claims.Pubkey())
		c.Next()
	}
}

// GetPubkey retrieves the authenticated pubkey from the context
func GetPubkey(c *gin.Context) string {
	return c.GetString(pubkeyKey)
}
