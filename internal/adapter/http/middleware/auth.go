package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

// SessionResolver turns a bearer token into the caller's identity.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (domain.Identity, error)
}

// Authenticate attaches the caller's identity when a bearer token is sent.
// Requests without a token pass through anonymously; a bad token is a 401.
func Authenticate(resolver SessionResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := resolver.GetSession(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrNetwork) {
					log.Error("auth: session lookup failed", zap.Error(err))
					WriteError(w, http.StatusBadGateway, "identity provider unavailable")
					return
				}
				WriteError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity, token)))
		})
	}
}

// RequireAuth rejects requests that Authenticate left anonymous.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			WriteError(w, http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
