package cache

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

// CachedProfileRepository drops the cached ads of a user after their profile
// is written, so the owner summary embedded in those ads is rebuilt on the
// next read. A read-through that loaded the ad before the write can still
// store the old summary; such an entry lives at most one cache TTL.
type CachedProfileRepository struct {
	next   domain.ProfileRepository
	ads    AdCache
	logger *logger.Logger
}

func NewCachedProfileRepository(next domain.ProfileRepository, ads AdCache, log *logger.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:   next,
		ads:    ads,
		logger: log.Named("CachedProfileRepository"),
	}
}

func (r *CachedProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if err := r.next.Upsert(ctx, profile); err != nil {
		return err
	}
	if err := r.ads.DeleteByOwner(ctx, profile.ID); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("user_id", profile.ID), zap.Error(err))
	}
	return nil
}

func (r *CachedProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.next.FindByID(ctx, id)
}

var _ domain.ProfileRepository = (*CachedProfileRepository)(nil)
