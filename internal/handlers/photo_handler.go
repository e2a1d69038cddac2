package handlers

import (
	"net/http"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PhotoHandler struct {
	photos *services.PhotoService
	cfg    *config.Config
	log    *zap.Logger
}

func NewPhotoHandler(photos *services.PhotoService, cfg *config.Config, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, cfg: cfg, log: log}
}

// List returns all photo works.
// GET /api/photos
func (h *PhotoHandler) List(c *gin.Context) {
	items, err := h.photos.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create handles a work upload.
// POST /api/photos
// Multipart form: title, description, format (single|group), files (or files[])
func (h *PhotoHandler) Create(c *gin.Context) {
	maxFiles := int64(h.cfg.MaxPhotoFiles)
	if maxFiles <= 0 {
		maxFiles = 1
	}
	form, err := parseUpload(c, h.cfg, h.cfg.MaxUploadBytes()*maxFiles+1<<20)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer form.RemoveAll()

	headers := formFiles(form, "files", "files[]")
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh, h.cfg)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		files = append(files, f)
	}

	work, err := h.photos.Create(c.Request.Context(), services.CreatePhotoInput{
		Title:       formValue(form, "title"),
		Description: formValue(form, "description"),
		Format:      formValue(form, "format"),
		Files:       files,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": work})
}

// Delete removes a work and its images.
// DELETE /api/photos/:id
func (h *PhotoHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, services.NotFoundf("Photo work not found"))
		return
	}
	summary, err := h.photos.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": summary})
}
