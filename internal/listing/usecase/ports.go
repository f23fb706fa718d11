package usecase

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("skip2love/listing-usecase")

// ImageUploader stores picked images under an ad's storage prefix.
type ImageUploader interface {
	UploadAll(ctx context.Context, ownerID, adID string, files []media.File) media.UploadResult
}

// FieldSanitizer strips markup from user-entered text.
type FieldSanitizer interface {
	SanitizeAdFields(f domain.AdFields) domain.AdFields
	SanitizeProfileFields(f domain.ProfileFields) domain.ProfileFields
}

// AdEvent is the payload of ad.created and ad.updated. Fields the writer did
// not load are omitted: an image-only update carries no title, category or
// active flag.
type AdEvent struct {
	AdID       string `json:"ad_id"`
	OwnerID    string `json:"owner_id"`
	Title      string `json:"title,omitempty"`
	Category   string `json:"category,omitempty"`
	Active     *bool  `json:"active,omitempty"`
	ImageCount int    `json:"image_count"`
	At         string `json:"at"`
}
