package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// Multipart parts beyond this are spooled to disk by net/http.
const multipartMemory = 32 << 20

// parseUpload parses a multipart body no larger than limit bytes.
func parseUpload(c *gin.Context, cfg *config.Config, limit int64) (*multipart.Form, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, tooLargeError(cfg)
		}
		return nil, services.Validationf("Upload error: %s", err.Error())
	}
	return c.Request.MultipartForm, nil
}

func tooLargeError(cfg *config.Config) error {
	return services.PayloadTooLargef("Upload too large. Max file size is %d MB", cfg.MaxUploadMB)
}

// readUpload buffers one file part in memory.
func readUpload(fh *multipart.FileHeader, cfg *config.Config) (services.UploadFile, error) {
	if limit := cfg.MaxUploadBytes(); limit > 0 && fh.Size > limit {
		return services.UploadFile{}, tooLargeError(cfg)
	}
	f, err := fh.Open()
	if err != nil {
		return services.UploadFile{}, services.Internal("failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return services.UploadFile{}, services.Internal(fmt.Sprintf("failed to read upload %q", fh.Filename), err)
	}
	return services.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formFiles returns the parts of the first field name that has any.
func formFiles(form *multipart.Form, names ...string) []*multipart.FileHeader {
	for _, name := range names {
		if files := form.File[name]; len(files) > 0 {
			return files
		}
	}
	return nil
}

func formValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}
