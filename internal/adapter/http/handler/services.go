// Package handler is the JSON HTTP surface over the marketplace core.
package handler

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/listing/usecase"
	"github.com/Abdurahmanit/skip2love/internal/media"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (domain.Identity, error)
	VerifyEmail(ctx context.Context, email, code string) error
}

type AdService interface {
	Search(ctx context.Context, query string) ([]*domain.Ad, error)
	ListMine(ctx context.Context, owner domain.Identity) ([]*domain.Ad, error)
	GetByID(ctx context.Context, viewerID, id string) (*domain.Ad, error)
	Publish(ctx context.Context, owner domain.Identity, fields domain.AdFields, files []media.File) (*usecase.PublishResult, error)
	Update(ctx context.Context, owner domain.Identity, id string, fields domain.AdFields) (*domain.Ad, error)
	AttachImages(ctx context.Context, owner domain.Identity, adID string, urls []string) error
	SetActive(ctx context.Context, owner domain.Identity, id string, active bool) error
}

type ProfileService interface {
	Complete(ctx context.Context, identity domain.Identity, fields domain.ProfileFields) (*domain.Profile, error)
}

type Gate interface {
	Ensure(ctx context.Context, identity domain.Identity) error
}

var (
	_ AdService      = (*usecase.AdUsecase)(nil)
	_ ProfileService = (*usecase.ProfileUsecase)(nil)
	_ Gate           = (*usecase.ProfileGate)(nil)
)
