package middleware

import (
	"net/http"

	"lashstudio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects verified users whose id is not the configured
// provider id. Must run after TelegramAuth.
func AdminOnly(adminTgID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := User(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}
		if user.ID != adminTgID {
			response.AbortError(c, http.StatusForbidden, response.CodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
