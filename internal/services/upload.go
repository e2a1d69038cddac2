package services

import (
	"github.com/fergdesign/backend/pkg/validation"
)

// UploadFile is a file received from a multipart form, fully buffered.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f UploadFile) Size() int64 { return int64(len(f.Data)) }

func (f UploadFile) Is(kind string) bool {
	return validation.HasMediaType(f.ContentType, kind)
}

func requireText(value, field string) (string, error) {
	text := validation.SanitizeString(value)
	if text == "" {
		return "", Validationf("%s is required", field)
	}
	return text, nil
}

// checkSize enforces the per-file upload limit.
func checkSize(f UploadFile, maxBytes int64, maxMB int) error {
	if maxBytes > 0 && f.Size() > maxBytes {
		return PayloadTooLargef("Upload too large. Max file size is %d MB", maxMB)
	}
	return nil
}
