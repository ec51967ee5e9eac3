package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ledger/internal/shared/server/respond"
)

// AdminToken guards privileged routes with a shared token carried in the
// X-Admin-Token header. An empty configured token disables the routes
// entirely rather than leaving them open.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			respond.Error(c, http.StatusForbidden, "admin_disabled", "admin routes are not configured", nil)
			return
		}
		supplied := c.GetHeader("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid admin token", nil)
			return
		}
		c.Next()
	}
}
