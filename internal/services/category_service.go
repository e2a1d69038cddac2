package services

import (
	"context"
	"errors"

	"github.com/fergdesign/backend/internal/models"
	"github.com/fergdesign/backend/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryService struct {
	db    *gorm.DB
	cache *CacheService
	log   *zap.Logger
}

func NewCategoryService(db *gorm.DB, cache *CacheService, log *zap.Logger) *CategoryService {
	return &CategoryService{db: db, cache: cache, log: log.Named("categories")}
}

// List returns categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.VideoCategory, error) {
	slot := s.cache.Slot(ctx, cacheKeyCategories)
	var cached []models.VideoCategory
	if s.cache.Get(ctx, slot, &cached) {
		return cached, nil
	}

	categories := []models.VideoCategory{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, Internal("failed to list categories", err)
	}
	s.cache.Set(ctx, slot, categories)
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, name, color string) (*models.VideoCategory, error) {
	name, err := requireText(name, "name")
	if err != nil {
		return nil, err
	}
	normalized, ok := validation.NormalizeHexColor(color)
	if !ok {
		return nil, Validationf("Invalid color hex. Use #RRGGBB")
	}

	category := models.VideoCategory{Name: name, Color: normalized}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.VideoCategory{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return Internal("failed to check category name", err)
		}
		if count > 0 {
			return Conflictf("Category with this name already exists")
		}
		if err := tx.Create(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflictf("Category with this name already exists")
			}
			return Internal("failed to create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeyCategories)
	return &category, nil
}

// Delete removes a category that no video references. Of two concurrent
// deletes of the same id, the loser gets NotFound.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (*models.VideoCategory, error) {
	var category models.VideoCategory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("Category not found")
			}
			return Internal("failed to load category", err)
		}

		var videos int64
		if err := tx.Model(&models.Video{}).Where("category_id = ?", id).Count(&videos).Error; err != nil {
			return Internal("failed to count category videos", err)
		}
		if videos > 0 {
			return Conflictf("Cannot delete category while videos exist in it")
		}

		res := tx.Delete(&models.VideoCategory{}, "id = ?", id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return Conflictf("Cannot delete category while videos exist in it")
			}
			return Internal("failed to delete category", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundf("Category not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeyCategories)
	return &category, nil
}
