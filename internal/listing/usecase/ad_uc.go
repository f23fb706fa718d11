package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// AdUsecase is the record repository for ads: listing, detail, creation,
// image attachment and owner edits.
type AdUsecase struct {
	repo      domain.AdRepository
	uploader  ImageUploader
	publisher domain.EventPublisher
	notifier  domain.Notifier
	sanitizer FieldSanitizer
	metrics   *metrics.MetricsManager
	logger    *logger.Logger

	guard *submitGuard
	now   func() time.Time
	newID func() string
}

// NewAdUsecase wires the ad usecase. publisher, notifier, sanitizer and
// metrics may be nil.
func NewAdUsecase(
	repo domain.AdRepository,
	uploader ImageUploader,
	publisher domain.EventPublisher,
	notifier domain.Notifier,
	sanitizer FieldSanitizer,
	m *metrics.MetricsManager,
	log *logger.Logger,
) *AdUsecase {
	return &AdUsecase{
		repo:      repo,
		uploader:  uploader,
		publisher: publisher,
		notifier:  notifier,
		sanitizer: sanitizer,
		metrics:   m,
		logger:    log.Named("AdUsecase"),
		guard:     newSubmitGuard(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ListActive returns every active ad, newest first, with its owner summary.
func (uc *AdUsecase) ListActive(ctx context.Context) ([]*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.ListActive")
	defer span.End()

	ads, err := uc.repo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("AdUsecase.ListActive: failed to list ads", zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrFetch, err))
	}
	if ads == nil {
		ads = []*domain.Ad{}
	}
	span.SetAttributes(attribute.Int("ads.count", len(ads)))
	return ads, nil
}

// Search is ListActive narrowed by a free-text query.
func (uc *AdUsecase) Search(ctx context.Context, query string) ([]*domain.Ad, error) {
	ads, err := uc.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterAds(ads, query), nil
}

// ListMine returns all ads of owner, inactive ones included.
func (uc *AdUsecase) ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.ListMine", trace.WithAttributes(attribute.String("owner.id", owner.ID)))
	defer span.End()

	if owner.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ads, err := uc.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		uc.logger.Error("AdUsecase.ListMine: failed to list ads", zap.String("owner_id", owner.ID), zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrFetch, err))
	}
	if ads == nil {
		ads = []*domain.Ad{}
	}
	return ads, nil
}

// GetByID returns one ad for its detail view. Inactive ads are only visible
// to their owner; anyone else gets domain.ErrNotFound.
func (uc *AdUsecase) GetByID(ctx context.Context, viewerID, id string) (*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.GetByID", trace.WithAttributes(attribute.String("ad.id", id)))
	defer span.End()

	ad, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		uc.logger.Error("AdUsecase.GetByID: failed to fetch ad", zap.String("ad_id", id), zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrFetch, err))
	}
	if ad == nil || !ad.VisibleTo(viewerID) {
		return nil, domain.ErrNotFound
	}
	return ad, nil
}

// Create validates fields and inserts a new active ad with no images.
// Nothing is sent to the store when validation fails.
func (uc *AdUsecase) Create(ctx context.Context, owner domain.Identity, fields domain.AdFields) (string, error) {
	ad, err := uc.create(ctx, owner, fields)
	if err != nil {
		return "", err
	}
	return ad.ID, nil
}

func (uc *AdUsecase) create(ctx context.Context, owner domain.Identity, fields domain.AdFields) (*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.Create", trace.WithAttributes(attribute.String("owner.id", owner.ID)))
	defer span.End()

	if owner.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if uc.sanitizer != nil {
		fields = uc.sanitizer.SanitizeAdFields(fields)
	}
	draft, err := domain.ValidateAdFields(fields)
	if err != nil {
		uc.logger.Info("AdUsecase.Create: rejected draft", zap.String("owner_id", owner.ID), zap.Error(err))
		return nil, err
	}

	now := uc.now().UTC()
	ad := &domain.Ad{
		ID:          uc.newID(),
		OwnerID:     owner.ID,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Location:    draft.Location,
		Images:      []string{},
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	uc.logger.Info("AdUsecase.Create: inserting ad",
		zap.String("owner_id", owner.ID), zap.String("ad_id", ad.ID), zap.String("category", string(ad.Category)))
	if err := uc.repo.Insert(ctx, ad); err != nil {
		uc.logger.Error("AdUsecase.Create: failed to insert ad", zap.String("owner_id", owner.ID), zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrWrite, err))
	}
	uc.metrics.RecordAdCreated()

	uc.publish(ctx, domain.SubjectAdCreated, ad)
	if uc.notifier != nil && owner.Email != "" {
		if err := uc.notifier.SendListingCreatedEmail(owner.Email, ad.Title); err != nil {
			uc.logger.Warn("AdUsecase.Create: failed to send listing created email", zap.String("ad_id", ad.ID), zap.Error(err))
		}
	}
	return ad, nil
}

// AttachImages replaces the image URLs of an ad owned by owner. A missing ad
// or an owner mismatch both fail with domain.ErrWrite.
func (uc *AdUsecase) AttachImages(ctx context.Context, owner domain.Identity, adID string, urls []string) error {
	ctx, span := tracer.Start(ctx, "AdUsecase.AttachImages",
		trace.WithAttributes(attribute.String("ad.id", adID), attribute.Int("images.count", len(urls))))
	defer span.End()

	if owner.ID == "" {
		return domain.ErrUnauthenticated
	}
	if len(urls) > domain.MaxImagesPerAd {
		return domain.ErrQuotaExceeded
	}
	if urls == nil {
		urls = []string{}
	}
	if err := uc.repo.UpdateImages(ctx, adID, owner.ID, urls); err != nil {
		uc.logger.Error("AdUsecase.AttachImages: failed to update images",
			zap.String("ad_id", adID), zap.String("owner_id", owner.ID), zap.Error(err))
		return spanError(span, fmt.Errorf("%w: %v", domain.ErrWrite, err))
	}
	uc.metrics.RecordAdUpdated()
	uc.publishEvent(ctx, domain.SubjectAdUpdated, AdEvent{AdID: adID, OwnerID: owner.ID, ImageCount: len(urls)})
	return nil
}

// Update rewrites the editable fields of an owned ad under the same rules as
// Create. Images and the active flag are kept.
func (uc *AdUsecase) Update(ctx context.Context, owner domain.Identity, id string, fields domain.AdFields) (*domain.Ad, error) {
	ctx, span := tracer.Start(ctx, "AdUsecase.Update", trace.WithAttributes(attribute.String("ad.id", id)))
	defer span.End()

	if uc.sanitizer != nil {
		fields = uc.sanitizer.SanitizeAdFields(fields)
	}
	draft, err := domain.ValidateAdFields(fields)
	if err != nil {
		return nil, err
	}

	ad, err := uc.ownedAd(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	ad.Title = draft.Title
	ad.Description = draft.Description
	ad.Category = draft.Category
	ad.Location = draft.Location
	ad.Price = draft.Price
	ad.UpdatedAt = uc.now().UTC()

	if err := uc.repo.Update(ctx, ad); err != nil {
		uc.logger.Error("AdUsecase.Update: failed to update ad", zap.String("ad_id", id), zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrWrite, err))
	}
	uc.metrics.RecordAdUpdated()
	uc.publish(ctx, domain.SubjectAdUpdated, ad)
	return ad, nil
}

// SetActive flips the visibility of an owned ad. Deactivated ads disappear
// from listings but are kept.
func (uc *AdUsecase) SetActive(ctx context.Context, owner domain.Identity, id string, active bool) error {
	ctx, span := tracer.Start(ctx, "AdUsecase.SetActive",
		trace.WithAttributes(attribute.String("ad.id", id), attribute.Bool("ad.active", active)))
	defer span.End()

	ad, err := uc.ownedAd(ctx, owner, id)
	if err != nil {
		return err
	}
	if ad.Active == active {
		return nil
	}
	ad.Active = active
	ad.UpdatedAt = uc.now().UTC()

	if err := uc.repo.Update(ctx, ad); err != nil {
		uc.logger.Error("AdUsecase.SetActive: failed to update ad", zap.String("ad_id", id), zap.Error(err))
		return spanError(span, fmt.Errorf("%w: %v", domain.ErrWrite, err))
	}
	uc.logger.Info("AdUsecase.SetActive: ad visibility changed", zap.String("ad_id", id), zap.Bool("active", active))
	uc.metrics.RecordAdUpdated()
	uc.publish(ctx, domain.SubjectAdUpdated, ad)
	return nil
}

func (uc *AdUsecase) ownedAd(ctx context.Context, owner domain.Identity, id string) (*domain.Ad, error) {
	if owner.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ad, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	if ad == nil || ad.OwnerID != owner.ID {
		uc.logger.Warn("AdUsecase: ad not owned by caller", zap.String("ad_id", id), zap.String("caller_id", owner.ID))
		return nil, domain.ErrNotFound
	}
	return ad, nil
}

func (uc *AdUsecase) publish(ctx context.Context, subject string, ad *domain.Ad) {
	active := ad.Active
	uc.publishEvent(ctx, subject, AdEvent{
		AdID:       ad.ID,
		OwnerID:    ad.OwnerID,
		Title:      ad.Title,
		Category:   string(ad.Category),
		Active:     &active,
		ImageCount: len(ad.Images),
	})
}

func (uc *AdUsecase) publishEvent(ctx context.Context, subject string, event AdEvent) {
	if uc.publisher == nil {
		return
	}
	event.At = uc.now().UTC().Format(time.RFC3339Nano)
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("AdUsecase: failed to publish event", zap.String("subject", subject), zap.String("ad_id", event.AdID), zap.Error(err))
	}
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
