package services

import (
	"context"
	"errors"
	"time"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/models"
	"github.com/fergdesign/backend/pkg/crypto"
	"github.com/fergdesign/backend/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type VideoService struct {
	db       *gorm.DB
	store    ObjectStore
	resolver LinkResolver
	urls     PublicURLBuilder
	cfg      *config.Config
	log      *zap.Logger
}

func NewVideoService(db *gorm.DB, store ObjectStore, resolver LinkResolver, cfg *config.Config, log *zap.Logger) *VideoService {
	return &VideoService{
		db:       db,
		store:    store,
		resolver: resolver,
		urls:     NewPublicURLBuilder(cfg.PublicMediaBaseURL),
		cfg:      cfg,
		log:      log.Named("videos"),
	}
}

type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

// VideoView is a video as returned to clients. SourceLink is only set for
// admins.
type VideoView struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    CategoryRef       `json:"category"`
	Visibility  models.Visibility `json:"visibility"`
	IsLocked    bool              `json:"isLocked"`
	SourceType  models.SourceType `json:"sourceType"`
	SourceLink  *string           `json:"sourceLink,omitempty"`
	PreviewURL  string            `json:"previewUrl"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type DeletedVideo struct {
	ID uuid.UUID `json:"id"`
}

type CreateVideoInput struct {
	Title       string
	Description string
	CategoryID  string
	Visibility  string
	SourceType  string
	SourceLink  string
	Password    string
	Preview     *UploadFile
	Video       *UploadFile
}

func (s *VideoService) view(v *models.Video, admin bool) VideoView {
	category := CategoryRef{
		ID:    v.CategoryID,
		Name:  models.DefaultCategoryName,
		Color: models.DefaultCategoryColor,
	}
	if v.Category != nil {
		category.Name = v.Category.Name
		category.Color = v.Category.Color
	}

	out := VideoView{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Category:    category,
		Visibility:  v.Visibility,
		IsLocked:    !admin && v.IsPrivate(),
		SourceType:  v.SourceType,
		PreviewURL:  s.urls.URL(v.PreviewKey),
		CreatedAt:   v.CreatedAt,
	}
	if admin {
		out.SourceLink = v.SourceLink
	}
	return out
}

// List returns all videos, newest first. Private videos are listed but
// flagged as locked for non-admin callers.
func (s *VideoService) List(ctx context.Context, admin bool) ([]VideoView, error) {
	var videos []models.Video
	err := s.db.WithContext(ctx).
		Preload("Category").
		Order("created_at DESC").
		Find(&videos).Error
	if err != nil {
		return nil, Internal("failed to list videos", err)
	}

	items := make([]VideoView, 0, len(videos))
	for i := range videos {
		items = append(items, s.view(&videos[i], admin))
	}
	return items, nil
}

type videoDraft struct {
	categoryID uuid.UUID
	visibility models.Visibility
	sourceType models.SourceType
	sourceLink string
	password   string
}

func (s *VideoService) validate(in *CreateVideoInput) (*videoDraft, error) {
	var err error
	if in.Title, err = requireText(in.Title, "title"); err != nil {
		return nil, err
	}
	if in.Description, err = requireText(in.Description, "description"); err != nil {
		return nil, err
	}
	rawCategory, err := requireText(in.CategoryID, "categoryId")
	if err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(rawCategory)
	if err != nil {
		return nil, NotFoundf("Video category not found")
	}

	d := &videoDraft{
		categoryID: categoryID,
		sourceType: models.ParseSourceType(validation.SanitizeString(in.SourceType)),
		sourceLink: validation.SanitizeString(in.SourceLink),
		password:   validation.SanitizeString(in.Password),
	}
	var ok bool
	if d.visibility, ok = models.ParseVisibility(validation.SanitizeString(in.Visibility)); !ok {
		return nil, Validationf("Invalid visibility")
	}
	if d.visibility == models.VisibilityPrivate && d.password == "" {
		return nil, Validationf("Password is required for private video")
	}
	if len(d.password) > crypto.MaxPasswordBytes {
		return nil, Validationf("Password must be at most %d bytes", crypto.MaxPasswordBytes)
	}

	if in.Preview == nil {
		return nil, Validationf("Preview image is required")
	}
	if !in.Preview.Is("image") {
		return nil, Validationf("Preview must be an image file")
	}
	if err := checkSize(*in.Preview, s.cfg.MaxUploadBytes(), s.cfg.MaxUploadMB); err != nil {
		return nil, err
	}

	switch d.sourceType {
	case models.SourceTypeUpload:
		if in.Video == nil {
			return nil, Validationf("Video file is required for upload source")
		}
		if !in.Video.Is("video") {
			return nil, Validationf("Uploaded video must be a video file")
		}
		if err := checkSize(*in.Video, s.cfg.MaxUploadBytes(), s.cfg.MaxUploadMB); err != nil {
			return nil, err
		}
	case models.SourceTypeYaDisk:
		if d.sourceLink == "" {
			return nil, Validationf("Yandex Disk public link is required for yadisk source")
		}
	}
	return d, nil
}

// Create stores a video with its preview and, for uploaded sources, its
// file. External links are checked before anything is uploaded.
func (s *VideoService) Create(ctx context.Context, in CreateVideoInput) (*VideoView, error) {
	d, err := s.validate(&in)
	if err != nil {
		return nil, err
	}

	video := models.Video{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  d.categoryID,
		Visibility:  d.visibility,
		SourceType:  d.sourceType,
	}

	if d.visibility == models.VisibilityPrivate {
		hash, err := crypto.HashPassword(d.password, s.cfg.BcryptCost)
		if err != nil {
			return nil, Internal("failed to hash video password", err)
		}
		video.PasswordHash = &hash
	}

	if d.sourceType == models.SourceTypeYaDisk {
		if _, err := s.resolver.Resolve(ctx, d.sourceLink); err != nil {
			return nil, err
		}
		video.SourceLink = &d.sourceLink
	}

	comp := newCompensation(s.store, s.log)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.VideoCategory
		if err := tx.First(&category, "id = ?", d.categoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("Video category not found")
			}
			return Internal("failed to load video category", err)
		}

		previewKey := BuildObjectKey(videoPreviewPrefix(video.ID), in.Preview.Name)
		if err := s.store.Put(ctx, previewKey, in.Preview.Data, in.Preview.ContentType); err != nil {
			return Internal("failed to upload video preview", err)
		}
		comp.track(previewKey)
		video.PreviewKey = previewKey

		if d.sourceType == models.SourceTypeUpload {
			videoKey := BuildObjectKey(videoFilePrefix(video.ID), in.Video.Name)
			if err := s.store.Put(ctx, videoKey, in.Video.Data, in.Video.ContentType); err != nil {
				return Internal("failed to upload video file", err)
			}
			comp.track(videoKey)
			video.VideoKey = &videoKey
		}

		if err := tx.Omit("Category").Create(&video).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return NotFoundf("Video category not found")
			}
			return Internal("failed to create video", err)
		}
		video.Category = &category
		return nil
	})
	if err != nil {
		comp.run(ctx)
		return nil, err
	}

	s.log.Info("video created",
		zap.String("id", video.ID.String()),
		zap.String("visibility", string(video.Visibility)),
		zap.String("source", string(video.SourceType)))
	view := s.view(&video, true)
	return &view, nil
}

// Delete removes the video row, then its objects once the delete is committed.
func (s *VideoService) Delete(ctx context.Context, id uuid.UUID) (*DeletedVideo, error) {
	var video models.Video
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&video, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundf("Video not found")
			}
			return Internal("failed to load video", err)
		}
		res := tx.Delete(&models.Video{}, "id = ?", id)
		if res.Error != nil {
			return Internal("failed to delete video", res.Error)
		}
		if res.RowsAffected == 0 {
			return NotFoundf("Video not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	deleteObjects(ctx, s.store, s.log, video.ObjectKeys())
	return &DeletedVideo{ID: video.ID}, nil
}
