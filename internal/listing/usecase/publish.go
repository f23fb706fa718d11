package usecase

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/media"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PublishState is the progress of one ad submission.
type PublishState int

const (
	StateDraft PublishState = iota
	StateValidating
	StateInserted
	StateImagesUploading
	StatePublished
)

func (s PublishState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateInserted:
		return "inserted"
	case StateImagesUploading:
		return "images_uploading"
	case StatePublished:
		return "published"
	default:
		return "draft"
	}
}

// PublishResult reports where a submission ended. Images holds the stored
// URLs in selection order; FailedImages counts the ones that were dropped.
type PublishResult struct {
	AdID         string
	State        PublishState
	Images       []string
	FailedImages int
}

// Publish runs the whole create flow: validate, insert without images, upload
// the selected images, then attach the ones that made it. Only one submission
// per owner runs at a time; a concurrent one fails with
// domain.ErrSubmissionInFlight before anything is written.
func (uc *AdUsecase) Publish(ctx context.Context, owner domain.Identity, fields domain.AdFields, files []media.File) (*PublishResult, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.Publish",
		trace.WithAttributes(attribute.String("owner.id", owner.ID), attribute.Int("images.selected", len(files))))
	defer span.End()

	if owner.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if !uc.guard.tryAcquire(owner.ID) {
		uc.logger.Warn("AdUsecase.Publish: submission already in flight", zap.String("owner_id", owner.ID))
		return nil, domain.ErrSubmissionInFlight
	}
	defer uc.guard.release(owner.ID)

	res := &PublishResult{State: StateValidating}
	if err := media.CheckQuota(0, len(files)); err != nil {
		return res, err
	}
	for _, f := range files {
		if err := f.Validate(); err != nil {
			return res, err
		}
	}

	ad, err := uc.create(ctx, owner, fields)
	if err != nil {
		return res, err
	}
	res.AdID = ad.ID
	res.State = StateInserted
	res.Images = []string{}

	if len(files) == 0 {
		res.State = StatePublished
		uc.logger.Info("AdUsecase.Publish: ad published without images", zap.String("ad_id", ad.ID))
		return res, nil
	}

	res.State = StateImagesUploading
	uploaded := uc.uploader.UploadAll(ctx, owner.ID, ad.ID, files)
	res.FailedImages = len(uploaded.Failed)
	uc.metrics.RecordImages(len(uploaded.URLs), len(uploaded.Failed))
	span.SetAttributes(attribute.Int("images.failed", res.FailedImages))

	if err := uc.AttachImages(ctx, owner, ad.ID, uploaded.URLs); err != nil {
		res.State = StateInserted
		res.FailedImages = len(files)
		return res, spanError(span, fmt.Errorf("ad %s was created but its images could not be attached: %w", ad.ID, err))
	}

	res.Images = uploaded.URLs
	res.State = StatePublished
	uc.logger.Info("AdUsecase.Publish: ad published",
		zap.String("ad_id", ad.ID), zap.Int("images", len(res.Images)), zap.Int("failed_images", res.FailedImages))
	return res, nil
}
