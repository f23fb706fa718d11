package middleware

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
)

type contextKey string

const (
	identityCtxKey = contextKey("identity")
	tokenCtxKey    = contextKey("token")
	peerCtxKey     = contextKey("peer")
)

func WithIdentity(ctx context.Context, identity domain.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityCtxKey, identity)
	return context.WithValue(ctx, tokenCtxKey, token)
}

// IdentityFromContext returns the caller, if the request was authenticated.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey).(domain.Identity)
	return identity, ok && identity.ID != ""
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenCtxKey).(string)
	return token
}

// CapturePeer records the transport-level RemoteAddr. It must run before
// chi's RealIP, which rewrites RemoteAddr from client-supplied headers.
func CapturePeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerCtxKey, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PeerFromRequest is the address captured by CapturePeer, falling back to
// RemoteAddr when the middleware did not run.
func PeerFromRequest(r *http.Request) string {
	if peer, ok := r.Context().Value(peerCtxKey).(string); ok && peer != "" {
		return peer
	}
	return r.RemoteAddr
}
