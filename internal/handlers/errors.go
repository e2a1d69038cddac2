package handlers

import (
	"errors"
	"net/http"

	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindUpstream:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

// respondError writes {error: message}. Internal errors are logged in full
// and answered with a generic message.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) || svcErr.Kind == services.KindInternal {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if svcErr.Kind == services.KindUpstream && svcErr.Err != nil {
		log.Warn("upstream failure", zap.Error(svcErr.Err))
	}
	c.JSON(statusFor(svcErr.Kind), gin.H{"error": svcErr.Message})
}
