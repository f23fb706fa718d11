// Package media implements the image side of ad creation: picking files
// under the per-ad quota, local previews, and the upload to object storage.
package media

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

// MaxFileSize is the largest image accepted by the picker.
const MaxFileSize = 10 << 20

// File is a picked image held in memory until it is uploaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewFile sniffs the content type when the caller did not provide one.
func NewFile(name, contentType string, data []byte) File {
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return File{Name: name, ContentType: contentType, Data: data}
}

// Ext is the extension used in the object key, without the dot.
func (f File) Ext() string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), "."); ext != "" {
		return ext
	}
	switch f.ContentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}

// Validate rejects non-image content and oversized files.
func (f File) Validate() error {
	if len(f.Data) == 0 {
		return domain.NewValidationError("images", "%s is empty", f.Name)
	}
	if !strings.HasPrefix(f.ContentType, "image/") {
		return domain.NewValidationError("images", "%s is not an image (%s)", f.Name, f.ContentType)
	}
	if len(f.Data) > MaxFileSize {
		return domain.NewValidationError("images", "%s is larger than %d MiB", f.Name, MaxFileSize>>20)
	}
	return nil
}

// CheckQuota fails with domain.ErrQuotaExceeded when adding incoming images
// to current would pass the per-ad limit.
func CheckQuota(current, incoming int) error {
	if current+incoming > domain.MaxImagesPerAd {
		return domain.ErrQuotaExceeded
	}
	return nil
}
