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

// PlaybackService decides per request whether a caller may play a video and
// which URL they get. Nothing is remembered between requests.
type PlaybackService struct {
	db       *gorm.DB
	store    ObjectStore
	resolver LinkResolver
	urls     PublicURLBuilder
	ttl      time.Duration
	log      *zap.Logger
}

func NewPlaybackService(db *gorm.DB, store ObjectStore, resolver LinkResolver, cfg *config.Config, log *zap.Logger) *PlaybackService {
	return &PlaybackService{
		db:       db,
		store:    store,
		resolver: resolver,
		urls:     NewPublicURLBuilder(cfg.PublicMediaBaseURL),
		ttl:      cfg.PrivateURLTTL,
		log:      log.Named("playback"),
	}
}

// Playback is a resolved stream URL. ExpiresInSec is nil when the URL does
// not expire.
type Playback struct {
	StreamURL    string `json:"streamUrl"`
	ExpiresInSec *int   `json:"expiresInSec"`
}

// Play authorizes the caller and resolves the stream URL. Admins skip the
// password check but always receive signed URLs for uploaded files.
func (s *PlaybackService) Play(ctx context.Context, id uuid.UUID, password string, admin bool) (*Playback, error) {
	var video models.Video
	if err := s.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundf("Video not found")
		}
		return nil, Internal("failed to load video", err)
	}

	if !admin && video.IsPrivate() {
		password = validation.SanitizeString(password)
		if password == "" {
			return nil, Unauthorizedf("Password is required for private video")
		}
		hash := ""
		if video.PasswordHash != nil {
			hash = *video.PasswordHash
		}
		if !crypto.CheckPassword(password, hash) {
			return nil, Unauthorizedf("Invalid password")
		}
	}

	if video.SourceType == models.SourceTypeYaDisk {
		if video.SourceLink == nil || *video.SourceLink == "" {
			return nil, Validationf("Video source link is not set")
		}
		href, err := s.resolver.Resolve(ctx, *video.SourceLink)
		if err != nil {
			return nil, err
		}
		return &Playback{StreamURL: href}, nil
	}

	if video.VideoKey == nil || *video.VideoKey == "" {
		return nil, Validationf("Video object key is not set")
	}

	if !video.IsPrivate() && !admin {
		return &Playback{StreamURL: s.urls.URL(*video.VideoKey)}, nil
	}

	signed, err := s.store.PresignGet(ctx, *video.VideoKey, s.ttl)
	if err != nil {
		return nil, Internal("failed to sign video url", err)
	}
	expires := int(s.ttl / time.Second)
	return &Playback{StreamURL: signed, ExpiresInSec: &expires}, nil
}
