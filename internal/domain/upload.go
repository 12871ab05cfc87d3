package domain

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Upload limits.
const (
	MaxUploadFiles = 8
	MaxUploadBytes = 5 << 20
)

// AllowedImageExtensions are the accepted image formats, keyed by lowercase extension.
var AllowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// Upload is one image file attached to a request.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// ContentType returns the MIME type implied by the file extension.
func (u Upload) ContentType() string {
	return AllowedImageExtensions[strings.ToLower(filepath.Ext(u.Filename))]
}

// ImageStore persists uploaded images and returns their public URLs in input order.
// Remove deletes objects previously returned by Store; URLs it does not own are skipped.
type ImageStore interface {
	Store(ctx context.Context, files []Upload) ([]string, error)
	Remove(ctx context.Context, urls []string) error
}

// ValidateUploads checks count, size and format before anything is stored.
func ValidateUploads(files []Upload) error {
	if len(files) > MaxUploadFiles {
		return NewValidationError([]FieldError{{
			Field: "images", Message: fmt.Sprintf("at most %d images allowed", MaxUploadFiles),
		}})
	}
	var errs []FieldError
	for _, f := range files {
		if f.Size > MaxUploadBytes {
			errs = append(errs, FieldError{Field: "images", Message: f.Filename + " exceeds 5MB"})
			continue
		}
		if f.ContentType() == "" {
			errs = append(errs, FieldError{Field: "images", Message: f.Filename + " must be jpg, jpeg, png or webp"})
		}
	}
	return NewValidationError(errs)
}
