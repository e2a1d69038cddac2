package handlers

import (
	"net/http"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/middleware"
	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	DB         *gorm.DB
	Photos     *services.PhotoService
	Categories *services.CategoryService
	Videos     *services.VideoService
	Playback   *services.PlaybackService
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(cfg *config.Config, log *zap.Logger, svc Services) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.AdminGate(cfg.AdminAPIKey))

	health := NewHealthHandler(svc.DB, log)
	photos := NewPhotoHandler(svc.Photos, cfg, log)
	categories := NewCategoryHandler(svc.Categories, log)
	videos := NewVideoHandler(svc.Videos, svc.Playback, cfg, log)

	r.GET("/health", health.Health)

	api := r.Group("/api")
	{
		api.GET("/video-categories", categories.List)
		api.GET("/photos", photos.List)
		api.GET("/videos", videos.List)
		api.POST("/videos/:id/play", videos.Play)
	}

	admin := api.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/admin/check", AdminCheck)

		admin.POST("/video-categories", categories.Create)
		admin.DELETE("/video-categories/:id", categories.Delete)

		admin.POST("/photos", photos.Create)
		admin.DELETE("/photos/:id", photos.Delete)

		admin.POST("/videos", videos.Create)
		admin.DELETE("/videos/:id", videos.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r, nil
}
