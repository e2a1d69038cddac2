package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/middleware"
	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VideoHandler struct {
	videos   *services.VideoService
	playback *services.PlaybackService
	cfg      *config.Config
	log      *zap.Logger
}

func NewVideoHandler(videos *services.VideoService, playback *services.PlaybackService, cfg *config.Config, log *zap.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, playback: playback, cfg: cfg, log: log}
}

// List returns all videos; admins also see source links.
// GET /api/videos
func (h *VideoHandler) List(c *gin.Context) {
	items, err := h.videos.List(c.Request.Context(), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create handles a video upload.
// POST /api/videos
// Multipart form: title, description, categoryId, visibility, sourceType,
// password, sourceLink, preview (file), video (file)
func (h *VideoHandler) Create(c *gin.Context) {
	form, err := parseUpload(c, h.cfg, 2*h.cfg.MaxUploadBytes()+1<<20)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer form.RemoveAll()

	in := services.CreateVideoInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		CategoryID:  formValue(form, "categoryId"),
		Visibility:  formValue(form, "visibility"),
		SourceType:  formValue(form, "sourceType"),
		SourceLink:  formValue(form, "sourceLink"),
		Password:    formValue(form, "password"),
	}
	if files := formFiles(form, "preview"); len(files) > 0 {
		f, err := readUpload(files[0], h.cfg)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		in.Preview = &f
	}
	if files := formFiles(form, "video"); len(files) > 0 {
		f, err := readUpload(files[0], h.cfg)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		in.Video = &f
	}

	video, err := h.videos.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": video})
}

type playRequest struct {
	Password string `json:"password"`
}

// Play resolves a stream URL.
// POST /api/videos/:id/play
// Body: {"password": "..."} (optional)
func (h *VideoHandler) Play(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, services.NotFoundf("Video not found"))
		return
	}

	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.log, services.Validationf("Invalid request body"))
		return
	}

	playback, err := h.playback.Play(c.Request.Context(), id, req.Password, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, playback)
}

// Delete removes a video and its objects.
// DELETE /api/videos/:id
func (h *VideoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, services.NotFoundf("Video not found"))
		return
	}
	deleted, err := h.videos.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": deleted})
}
