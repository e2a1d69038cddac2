package handlers

import (
	"net/http"

	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewHealthHandler(db *gorm.DB, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, log: log}
}

// Health checks that the database answers.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		respondError(c, h.log, services.Internal("database ping failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminCheck lets the admin UI verify a key.
// GET /api/admin/check
func AdminCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
