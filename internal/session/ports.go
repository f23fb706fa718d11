package session

import (
	"context"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

// AuthService is the remote identity provider.
type AuthService interface {
	// SignUp registers a pending, unverified identity.
	SignUp(ctx context.Context, email, password string) (domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error)
	// SignOut revokes token remotely.
	SignOut(ctx context.Context, token string) error
	// GetSession resolves a token to its identity. It returns
	// domain.ErrUnauthenticated for an invalid or expired token and
	// domain.ErrNetwork when the provider could not be reached.
	GetSession(ctx context.Context, token string) (domain.Identity, error)
	VerifyEmail(ctx context.Context, email, code string) error
}

// TokenStore persists the session token between runs. Load returns an empty
// string when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
