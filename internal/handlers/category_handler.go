package handlers

import (
	"errors"
	"net/http"

	"github.com/fergdesign/backend/internal/services"
	"github.com/fergdesign/backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categories *services.CategoryService
	log        *zap.Logger
}

func NewCategoryHandler(categories *services.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

type createCategoryRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Color string `json:"color" form:"color" binding:"required,rgbhex"`
}

// RegisterValidators adds the custom binding tags used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return validation.IsHexColor(fl.Field().String())
	})
}

func bindCategoryError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Name" {
				return services.Validationf("name is required")
			}
		}
		return services.Validationf("Invalid color hex. Use #RRGGBB")
	}
	return services.Validationf("Invalid request body")
}

// List returns categories ordered by name.
// GET /api/video-categories
func (h *CategoryHandler) List(c *gin.Context) {
	items, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Create adds a category.
// POST /api/video-categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, h.log, bindCategoryError(err))
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": category})
}

// Delete removes a category with no videos.
// DELETE /api/video-categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, services.NotFoundf("Category not found"))
		return
	}
	category, err := h.categories.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": category})
}
