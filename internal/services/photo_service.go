package services

import (
	"context"
	"errors"
	"time"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PhotoService struct {
	db    *gorm.DB
	store ObjectStore
	cache *CacheService
	urls  PublicURLBuilder
	cfg   *config.Config
	log   *zap.Logger
}

func NewPhotoService(db *gorm.DB, store ObjectStore, cache *CacheService, cfg *config.Config, log *zap.Logger) *PhotoService {
	return &PhotoService{
		db:    db,
		store: store,
		cache: cache,
		urls:  NewPublicURLBuilder(cfg.PublicMediaBaseURL),
		cfg:   cfg,
		log:   log.Named("photos"),
	}
}

// PhotoView is a work as returned to clients, images in display order.
type PhotoView struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Format      models.PhotoFormat `json:"format"`
	Images      []string           `json:"images"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// PhotoSummary describes a deleted work.
type PhotoSummary struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Format      models.PhotoFormat `json:"format"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type CreatePhotoInput struct {
	Title       string
	Description string
	Format      string
	Files       []UploadFile
}

func (s *PhotoService) view(w *models.PhotoWork) PhotoView {
	images := make([]string, 0, len(w.Assets))
	for _, a := range w.Assets {
		images = append(images, s.urls.URL(a.ObjectKey))
	}
	return PhotoView{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Format:      w.Format,
		Images:      images,
		CreatedAt:   w.CreatedAt,
	}
}

// List returns all works, newest first.
func (s *PhotoService) List(ctx context.Context) ([]PhotoView, error) {
	slot := s.cache.Slot(ctx, cacheKeyPhotos)
	var cached []PhotoView
	if s.cache.Get(ctx, slot, &cached) {
		return cached, nil
	}

	var works []models.PhotoWork
	err := s.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Order("created_at DESC").
		Find(&works).Error
	if err != nil {
		return nil, Internal("failed to list photo works", err)
	}

	items := make([]PhotoView, 0, len(works))
	for i := range works {
		items = append(items, s.view(&works[i]))
	}
	s.cache.Set(ctx, slot, items)
	return items, nil
}

func (s *PhotoService) validate(in *CreatePhotoInput) (models.PhotoFormat, error) {
	var err error
	if in.Title, err = requireText(in.Title, "title"); err != nil {
		return "", err
	}
	if in.Description, err = requireText(in.Description, "description"); err != nil {
		return "", err
	}
	format, ok := models.ParsePhotoFormat(in.Format)
	if !ok {
		return "", Validationf("Invalid photo format")
	}

	n := len(in.Files)
	switch {
	case n == 0:
		return "", Validationf("At least one image file is required")
	case s.cfg.MaxPhotoFiles > 0 && n > s.cfg.MaxPhotoFiles:
		return "", Validationf("Too many files. Max is %d", s.cfg.MaxPhotoFiles)
	case format == models.PhotoFormatSingle && n != 1:
		return "", Validationf("Single photo work requires exactly one image")
	case format == models.PhotoFormatGroup && n < 2:
		return "", Validationf("Group photo work requires at least two images")
	}

	for _, f := range in.Files {
		if !f.Is("image") {
			return "", Validationf("All files in photo upload must be images")
		}
		if err := checkSize(f, s.cfg.MaxUploadBytes(), s.cfg.MaxUploadMB); err != nil {
			return "", err
		}
	}
	return format, nil
}

// Create stores a work and its images. Either every row and object exists
// afterwards or no row does; objects uploaded before a failure are removed.
func (s *PhotoService) Create(ctx context.Context, in CreatePhotoInput) (*PhotoView, error) {
	format, err := s.validate(&in)
	if err != nil {
		return nil, err
	}

	comp := newCompensation(s.store, s.log)
	work := models.PhotoWork{
		Title:       in.Title,
		Description: in.Description,
		Format:      format,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&work).Error; err != nil {
			return Internal("failed to create photo work", err)
		}

		prefix := photoKeyPrefix(work.ID)
		assets := make([]models.PhotoAsset, 0, len(in.Files))
		for i, f := range in.Files {
			key := BuildObjectKey(prefix, f.Name)
			if err := s.store.Put(ctx, key, f.Data, f.ContentType); err != nil {
				return Internal("failed to upload photo", err)
			}
			comp.track(key)

			asset := models.PhotoAsset{
				WorkID:     work.ID,
				ObjectKey:  key,
				OrderIndex: i,
				MimeType:   f.ContentType,
			}
			if err := tx.Create(&asset).Error; err != nil {
				return Internal("failed to create photo asset", err)
			}
			assets = append(assets, asset)
		}
		work.Assets = assets
		return nil
	})
	if err != nil {
		comp.run(ctx)
		return nil, err
	}

	s.cache.Invalidate(ctx, cacheKeyPhotos)
	s.log.Info("photo work created", zap.String("id", work.ID.String()), zap.Int("images", len(work.Assets)))
	view := s.view(&work)
	return &view, nil
}

// Delete removes a work and its assets, then its objects once the delete
// is committed.
func (s *PhotoService) Delete(ctx context.Context, id uuid.UUID) (*PhotoSummary, error) {
	var work models.PhotoWork
	var keys []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&work, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("Photo work not found")
			}
			return Internal("failed to load photo work", err)
		}
		if err := tx.Model(&models.PhotoAsset{}).Where("work_id = ?", id).Pluck("object_key", &keys).Error; err != nil {
			return Internal("failed to load photo assets", err)
		}
		if err := tx.Where("work_id = ?", id).Delete(&models.PhotoAsset{}).Error; err != nil {
			return Internal("failed to delete photo assets", err)
		}
		res := tx.Delete(&models.PhotoWork{}, "id = ?", id)
		if res.Error != nil {
			return Internal("failed to delete photo work", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundf("Photo work not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	deleteObjects(ctx, s.store, s.log, keys)
	s.cache.Invalidate(ctx, cacheKeyPhotos)

	return &PhotoSummary{
		ID:          work.ID,
		Title:       work.Title,
		Description: work.Description,
		Format:      work.Format,
		CreatedAt:   work.CreatedAt,
	}, nil
}
