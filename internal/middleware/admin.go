package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const adminContextKey = "isAdmin"

// AdminGate marks the request as admin when it carries the configured key in
// x-admin-key or as a bearer token. It never rejects; see RequireAdmin.
func AdminGate(adminKey string) gin.HandlerFunc {
	expected := []byte(adminKey)
	return func(c *gin.Context) {
		key := readAdminKey(c.Request)
		ok := key != "" && len(expected) > 0 && subtle.ConstantTimeCompare([]byte(key), expected) == 1
		c.Set(adminContextKey, ok)
		c.Next()
	}
}

// RequireAdmin rejects requests AdminGate did not mark. Missing and wrong
// keys get the same response.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(adminContextKey)
}

func readAdminKey(r *http.Request) string {
	if key := r.Header.Get("x-admin-key"); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
