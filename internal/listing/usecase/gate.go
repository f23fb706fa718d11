package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

// ProfileGate keeps users without a completed profile from creating ads.
type ProfileGate struct {
	profiles domain.ProfileRepository
	logger   *logger.Logger
}

func NewProfileGate(profiles domain.ProfileRepository, log *logger.Logger) *ProfileGate {
	return &ProfileGate{profiles: profiles, logger: log.Named("ProfileGate")}
}

// CanCreateAd answers from the cached profile projection only.
func (g *ProfileGate) CanCreateAd(identity domain.Identity) bool {
	return identity.ID != "" && identity.HasProfile
}

// Ensure returns nil when identity may create ads. A stale cache is checked
// once against the store; domain.ErrProfileIncomplete tells the caller to
// send the user to profile completion.
func (g *ProfileGate) Ensure(ctx context.Context, identity domain.Identity) error {
	if identity.ID == "" {
		return domain.ErrUnauthenticated
	}
	if g.CanCreateAd(identity) {
		return nil
	}

	profile, err := g.profiles.FindByID(ctx, identity.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound), err == nil && profile == nil:
		return domain.ErrProfileIncomplete
	case err != nil:
		g.logger.Error("ProfileGate.Ensure: profile lookup failed", zap.String("user_id", identity.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	return nil
}
