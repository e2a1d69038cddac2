package middleware

import (
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin without credentials when origins contains "*",
// otherwise only the listed origins.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Admin-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cors.New(cfg)
	}

	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, normalizeOrigin(o))
	}
	cfg.AllowOriginFunc = func(origin string) bool {
		return slices.Contains(allowed, normalizeOrigin(origin))
	}
	return cors.New(cfg)
}

func normalizeOrigin(origin string) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/")
}
