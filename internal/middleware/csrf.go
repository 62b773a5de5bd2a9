package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pratty2304/MedConnect/internal/security"
)

const (
	CsrfCookieName = "csrf_token"
	CsrfHeaderName = "X-CSRF-TOKEN"
)

// CsrfMiddleware enforces the double-submit token check on
// state-changing verbs. The rejection body is identical for a missing
// and a mismatched token.
func CsrfMiddleware(guard security.CsrfGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		default:
			c.Next()
			return
		}

		presented := c.GetHeader(CsrfHeaderName)
		cookie, err := c.Cookie(CsrfCookieName)
		if err != nil || !guard.Verify(presented, cookie) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Invalid or missing CSRF token",
			})
			return
		}
		c.Next()
	}
}
