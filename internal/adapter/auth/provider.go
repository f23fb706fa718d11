// Package auth is the identity provider behind the session store and the
// HTTP bearer middleware: bcrypt password hashes, HS256 access tokens, email
// verification codes and a revocation list for signed-out tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "skip2love"

var _ session.AuthService = (*Provider)(nil)

// Claims is the payload of an access token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Revocations remembers signed-out tokens until they expire.
type Revocations interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	CodeTTL    time.Duration
	BcryptCost int
}

type Provider struct {
	accounts    domain.AccountRepository
	profiles    domain.ProfileRepository
	revocations Revocations
	notifier    domain.Notifier
	publisher   domain.EventPublisher
	cfg         Config
	logger      *logger.Logger

	now     func() time.Time
	newCode func() string
}

// NewProvider builds the provider. revocations, notifier and publisher may be nil.
func NewProvider(
	cfg Config,
	accounts domain.AccountRepository,
	profiles domain.ProfileRepository,
	revocations Revocations,
	notifier domain.Notifier,
	publisher domain.EventPublisher,
	log *logger.Logger,
) *Provider {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 24 * time.Hour
	}
	return &Provider{
		accounts:    accounts,
		profiles:    profiles,
		revocations: revocations,
		notifier:    notifier,
		publisher:   publisher,
		cfg:         cfg,
		logger:      log.Named("AuthProvider"),
		now:         time.Now,
		newCode:     newVerificationCode,
	}
}

func newVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// SignUp stores an unverified account and mails its verification code.
func (p *Provider) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return domain.Identity{}, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return domain.Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cfg.BcryptCost)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now().UTC()
	expires := now.Add(p.cfg.CodeTTL)
	account := &domain.Account{
		ID:                      uuid.NewString(),
		Email:                   email,
		PasswordHash:            string(hash),
		VerificationCode:        p.newCode(),
		VerificationCodeExpires: &expires,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return domain.Identity{}, domain.ErrDuplicateEmail
		}
		p.logger.Error("SignUp: failed to create account", zap.String("email", email), zap.Error(err))
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	p.logger.Info("SignUp: account created, awaiting verification", zap.String("user_id", account.ID))

	if p.notifier != nil {
		if err := p.notifier.SendVerificationEmail(email, account.VerificationCode); err != nil {
			p.logger.Warn("SignUp: failed to send verification email", zap.String("user_id", account.ID), zap.Error(err))
		}
	}
	if p.publisher != nil {
		event := map[string]interface{}{
			"user_id":    account.ID,
			"email":      account.Email,
			"created_at": account.CreatedAt.Format(time.RFC3339Nano),
		}
		if err := p.publisher.Publish(ctx, domain.SubjectAccountRegistered, event); err != nil {
			p.logger.Warn("SignUp: failed to publish account.registered", zap.Error(err))
		}
	}
	return account.Identity(), nil
}

// VerifyEmail confirms an address with the code mailed at sign-up.
func (p *Provider) VerifyEmail(ctx context.Context, email, code string) error {
	account, err := p.accounts.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("code", "invalid or expired verification code")
		}
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if account.EmailVerified {
		return nil
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	expired := account.VerificationCodeExpires != nil && p.now().After(*account.VerificationCodeExpires)
	if code == "" || code != account.VerificationCode || expired {
		return domain.NewValidationError("code", "invalid or expired verification code")
	}
	if err := p.accounts.MarkVerified(ctx, account.ID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	p.logger.Info("VerifyEmail: email confirmed", zap.String("user_id", account.ID))
	return nil
}

// SignIn checks the password and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	account, err := p.accounts.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		p.logger.Error("SignIn: account lookup failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !account.EmailVerified {
		return nil, domain.ErrEmailNotConfirmed
	}

	token, expiresAt, err := p.issue(account)
	if err != nil {
		return nil, err
	}
	identity := p.withProfile(ctx, account.Identity())
	p.logger.Info("SignIn: user signed in", zap.String("user_id", account.ID))
	return &domain.AuthSession{Token: token, ExpiresAt: expiresAt, Identity: identity}, nil
}

// GetSession resolves a token to the current identity, profile included.
func (p *Provider) GetSession(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := p.parse(token)
	if err != nil {
		return domain.Identity{}, err
	}
	if p.revocations != nil {
		revoked, err := p.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		if revoked {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
	}

	account, err := p.accounts.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrUnauthenticated
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return p.withProfile(ctx, account.Identity()), nil
}

// SignOut revokes token until it would have expired anyway. Tokens that no
// longer parse are already unusable and are ignored.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return nil
	}
	if p.revocations == nil {
		return nil
	}
	until := p.now().Add(p.cfg.TokenTTL)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := p.revocations.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	p.logger.Info("SignOut: token revoked", zap.String("user_id", claims.UserID))
	return nil
}

func (p *Provider) issue(account *domain.Account) (string, time.Time, error) {
	now := p.now()
	expiresAt := now.Add(p.cfg.TokenTTL)
	claims := Claims{
		UserID: account.ID,
		Email:  account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (p *Provider) parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(p.cfg.Secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.UserID == "" || claims.ID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}

func (p *Provider) withProfile(ctx context.Context, identity domain.Identity) domain.Identity {
	if p.profiles == nil {
		return identity
	}
	profile, err := p.profiles.FindByID(ctx, identity.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.logger.Warn("failed to load profile for identity", zap.String("user_id", identity.ID), zap.Error(err))
		}
		return identity
	}
	return identity.WithProfile(profile)
}
