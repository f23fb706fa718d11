// Package session holds the process-wide view of who is signed in.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"go.uber.org/zap"
)

type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Observer receives the current identity after every change. ok is false
// when nobody is signed in. Notifications are delivered one change at a time,
// in the order the changes were applied, so an observer must not change the
// session itself.
type Observer func(identity domain.Identity, ok bool)

// Store is the single source of truth for the current identity. Observers
// are called on the goroutine that made the change, never under mu.
type Store struct {
	auth   AuthService
	tokens TokenStore
	logger *logger.Logger

	// emitMu is held from the state write until its observers have run, so
	// the last value an observer sees is always the one Current returns.
	emitMu sync.Mutex

	mu        sync.Mutex
	state     State
	identity  domain.Identity
	token     string
	observers map[int]Observer
	nextID    int
}

func NewStore(auth AuthService, tokens TokenStore, log *logger.Logger) *Store {
	return &Store{
		auth:      auth,
		tokens:    tokens,
		logger:    log.Named("SessionStore"),
		observers: make(map[int]Observer),
	}
}

// Bootstrap restores a persisted session. A token the provider rejects is
// cleared; a token that could not be checked because of a transport failure
// is kept for the next run.
func (s *Store) Bootstrap(ctx context.Context) error {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.Warn("Bootstrap: failed to load persisted token", zap.Error(err))
		s.transition(StateAnonymous, domain.Identity{}, "")
		return nil
	}
	if token == "" {
		s.transition(StateAnonymous, domain.Identity{}, "")
		return nil
	}

	identity, err := s.auth.GetSession(ctx, token)
	switch {
	case err == nil:
		s.transition(StateAuthenticated, identity, token)
		return nil
	case errors.Is(err, domain.ErrNetwork):
		s.logger.Warn("Bootstrap: could not validate persisted token, keeping it", zap.Error(err))
		s.transition(StateAnonymous, domain.Identity{}, "")
		return err
	default:
		s.logger.Info("Bootstrap: persisted token rejected, clearing it", zap.Error(err))
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			s.logger.Warn("Bootstrap: failed to clear stale token", zap.Error(clearErr))
		}
		s.transition(StateAnonymous, domain.Identity{}, "")
		return nil
	}
}

// SignIn authenticates and persists the session. On failure nothing changes
// locally.
func (s *Store) SignIn(ctx context.Context, email, password string) (string, error) {
	sess, err := s.auth.SignIn(ctx, domain.NormalizeEmail(email), password)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Save(ctx, sess.Token); err != nil {
		s.logger.Warn("SignIn: failed to persist token, session will not survive a restart", zap.Error(err))
	}
	s.transition(StateAuthenticated, sess.Identity, sess.Token)
	return sess.Identity.ID, nil
}

// SignUp creates a pending identity. The store stays anonymous until the
// email is verified and the user signs in.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	if _, err := s.auth.SignUp(ctx, email, password); err != nil {
		return err
	}
	return nil
}

func (s *Store) VerifyEmail(ctx context.Context, email, code string) error {
	return s.auth.VerifyEmail(ctx, domain.NormalizeEmail(email), code)
}

// SignOut clears the local session. It is idempotent and the remote revoke
// is best-effort.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn("SignOut: failed to clear persisted token", zap.Error(err))
	}
	s.transition(StateAnonymous, domain.Identity{}, "")

	if token != "" {
		if err := s.auth.SignOut(ctx, token); err != nil {
			s.logger.Warn("SignOut: remote revoke failed", zap.Error(err))
		}
	}
	return nil
}

// Refresh re-validates the current token and re-emits the identity.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return domain.ErrUnauthenticated
	}

	identity, err := s.auth.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNetwork) {
			return err
		}
		if clearErr := s.tokens.Clear(ctx); clearErr != nil {
			s.logger.Warn("Refresh: failed to clear rejected token", zap.Error(clearErr))
		}
		s.transition(StateAnonymous, domain.Identity{}, "")
		return fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	s.transition(StateAuthenticated, identity, token)
	return nil
}

// SetProfile updates the cached profile projection of the signed-in identity.
func (s *Store) SetProfile(p *domain.Profile) {
	if p == nil {
		return
	}
	s.update(func(identity domain.Identity) domain.Identity {
		if identity.ID != p.ID {
			return identity
		}
		return identity.WithProfile(p)
	})
}

// Current returns the signed-in identity, if any.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated {
		return domain.Identity{}, false
	}
	return s.identity, true
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token is the bearer token of the current session, empty when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) transition(state State, identity domain.Identity, token string) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	changed := s.state != state || s.identity != identity
	s.state = state
	s.identity = identity
	s.token = token
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if changed {
		notify(observers, identity, state == StateAuthenticated)
	}
}

func (s *Store) update(fn func(domain.Identity) domain.Identity) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.state != StateAuthenticated {
		s.mu.Unlock()
		return
	}
	next := fn(s.identity)
	changed := next != s.identity
	s.identity = next
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if changed {
		notify(observers, next, true)
	}
}

func (s *Store) snapshotObservers() []Observer {
	out := make([]Observer, 0, len(s.observers))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.observers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(observers []Observer, identity domain.Identity, ok bool) {
	for _, fn := range observers {
		fn(identity, ok)
	}
}
