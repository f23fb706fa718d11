package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

type ProfileUsecase struct {
	repo      domain.ProfileRepository
	sanitizer FieldSanitizer
	logger    *logger.Logger
	now       func() time.Time
}

func NewProfileUsecase(repo domain.ProfileRepository, sanitizer FieldSanitizer, log *logger.Logger) *ProfileUsecase {
	return &ProfileUsecase{
		repo:      repo,
		sanitizer: sanitizer,
		logger:    log.Named("ProfileUsecase"),
		now:       time.Now,
	}
}

// Complete creates or replaces the profile row of identity.
func (uc *ProfileUsecase) Complete(ctx context.Context, identity domain.Identity, fields domain.ProfileFields) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileUsecase.Complete")
	defer span.End()

	if identity.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if uc.sanitizer != nil {
		fields = uc.sanitizer.SanitizeProfileFields(fields)
	}
	fields, err := domain.ValidateProfileFields(fields)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	profile := &domain.Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		Phone:     fields.Phone,
		City:      fields.City,
		Bio:       fields.Bio,
		AvatarURL: fields.AvatarURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Upsert(ctx, profile); err != nil {
		uc.logger.Error("ProfileUsecase.Complete: failed to upsert profile", zap.String("user_id", identity.ID), zap.Error(err))
		return nil, spanError(span, fmt.Errorf("%w: %v", domain.ErrWrite, err))
	}
	uc.logger.Info("ProfileUsecase.Complete: profile saved", zap.String("user_id", identity.ID))
	return profile, nil
}

func (uc *ProfileUsecase) Get(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		uc.logger.Error("ProfileUsecase.Get: failed to fetch profile", zap.String("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	if profile == nil {
		return nil, domain.ErrNotFound
	}
	return profile, nil
}
