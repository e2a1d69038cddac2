package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func ParseVisibility(value string) (Visibility, bool) {
	switch v := Visibility(value); v {
	case VisibilityPublic, VisibilityPrivate:
		return v, true
	}
	return "", false
}

type SourceType string

const (
	SourceTypeUpload SourceType = "upload"
	SourceTypeYaDisk SourceType = "yadisk"
)

// ParseSourceType defaults unknown or empty values to upload.
func ParseSourceType(value string) SourceType {
	if SourceType(value) == SourceTypeYaDisk {
		return SourceTypeYaDisk
	}
	return SourceTypeUpload
}

// Display values for a video whose category can no longer be resolved.
const (
	DefaultCategoryName  = "Без категории"
	DefaultCategoryColor = "#2f82ba"
)

// VideoCategory groups videos. Deleting a category that still has videos is
// rejected by the foreign key on videos.category_id.
type VideoCategory struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null" json:"color"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *VideoCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Video invariants:
//   - Visibility private <=> PasswordHash set
//   - SourceType upload <=> VideoKey set and SourceLink nil
//   - SourceType yadisk <=> SourceLink set and VideoKey nil
type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"size:4000;not null" json:"description"`
	CategoryID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"category_id"`
	Visibility   Visibility `gorm:"size:16;not null" json:"visibility"`
	PasswordHash *string    `gorm:"size:255" json:"-"`
	PreviewKey   string     `gorm:"size:512;not null" json:"preview_key"`
	SourceType   SourceType `gorm:"size:16;not null" json:"source_type"`
	SourceLink   *string    `gorm:"size:2048" json:"source_link,omitempty"`
	VideoKey     *string    `gorm:"size:512" json:"video_key,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	Category *VideoCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

func (v *Video) IsPrivate() bool {
	return v.Visibility == VisibilityPrivate
}

// ObjectKeys returns the storage keys owned by the video.
func (v *Video) ObjectKeys() []string {
	keys := []string{v.PreviewKey}
	if v.SourceType == SourceTypeUpload && v.VideoKey != nil {
		keys = append(keys, *v.VideoKey)
	}
	return keys
}
