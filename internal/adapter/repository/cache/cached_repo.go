package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

// CachedAdRepository serves FindByID from the cache and drops the entry on
// every write. Cache failures are logged and fall through to the store.
type CachedAdRepository struct {
	next   domain.AdRepository
	cache  AdCache
	ttl    time.Duration
	logger *logger.Logger
}

func NewCachedAdRepository(next domain.AdRepository, cache AdCache, ttl time.Duration, log *logger.Logger) *CachedAdRepository {
	return &CachedAdRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log.Named("CachedAdRepository"),
	}
}

func (r *CachedAdRepository) Insert(ctx context.Context, ad *domain.Ad) error {
	return r.next.Insert(ctx, ad)
}

func (r *CachedAdRepository) ListActive(ctx context.Context) ([]*domain.Ad, error) {
	return r.next.ListActive(ctx)
}

func (r *CachedAdRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Ad, error) {
	return r.next.ListByOwner(ctx, ownerID)
}

func (r *CachedAdRepository) FindByID(ctx context.Context, id string) (*domain.Ad, error) {
	ad, err := r.cache.Get(ctx, id)
	if err == nil {
		return ad, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		r.logger.Warn("cache read failed", zap.String("ad_id", id), zap.Error(err))
	}

	ad, err = r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, ad, r.ttl); err != nil {
		r.logger.Warn("cache write failed", zap.String("ad_id", id), zap.Error(err))
	}
	return ad, nil
}

func (r *CachedAdRepository) UpdateImages(ctx context.Context, id, ownerID string, images []string) error {
	if err := r.next.UpdateImages(ctx, id, ownerID, images); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedAdRepository) Update(ctx context.Context, ad *domain.Ad) error {
	if err := r.next.Update(ctx, ad); err != nil {
		return err
	}
	r.invalidate(ctx, ad.ID)
	return nil
}

func (r *CachedAdRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("ad_id", id), zap.Error(err))
	}
}

var _ domain.AdRepository = (*CachedAdRepository)(nil)
