package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abdurahmanit/skip2love/internal/listing/domain"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) GetSession(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

type memoryTokens struct {
	mu      sync.Mutex
	token   string
	loadErr error
	cleared int
}

func (m *memoryTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.loadErr
}

func (m *memoryTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memoryTokens) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

var alice = domain.Identity{ID: "u-alice", Email: "alice@example.com", EmailVerified: true}

func newTestStore(tokens *memoryTokens) (*Store, *MockAuthService) {
	auth := new(MockAuthService)
	return NewStore(auth, tokens, logger.NewNop()), auth
}

func TestStore_InitialStateUnknown(t *testing.T) {
	s, _ := newTestStore(&memoryTokens{})
	assert.Equal(t, StateUnknown, s.State())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestStore_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("no token goes anonymous", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{})
		require.NoError(t, s.Bootstrap(ctx))
		assert.Equal(t, StateAnonymous, s.State())
		auth.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	})

	t.Run("valid token authenticates", func(t *testing.T) {
		tokens := &memoryTokens{token: "tok"}
		s, auth := newTestStore(tokens)
		auth.On("GetSession", ctx, "tok").Return(alice, nil)

		require.NoError(t, s.Bootstrap(ctx))

		assert.Equal(t, StateAuthenticated, s.State())
		id, ok := s.Current()
		require.True(t, ok)
		assert.Equal(t, alice.ID, id.ID)
		assert.Equal(t, "tok", s.Token())
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		tokens := &memoryTokens{token: "stale"}
		s, auth := newTestStore(tokens)
		auth.On("GetSession", ctx, "stale").Return(domain.Identity{}, domain.ErrUnauthenticated)

		require.NoError(t, s.Bootstrap(ctx))

		assert.Equal(t, StateAnonymous, s.State())
		assert.Equal(t, 1, tokens.cleared)
		assert.Empty(t, tokens.token)
	})

	t.Run("network failure keeps token", func(t *testing.T) {
		tokens := &memoryTokens{token: "tok"}
		s, auth := newTestStore(tokens)
		auth.On("GetSession", ctx, "tok").Return(domain.Identity{}, domain.ErrNetwork)

		err := s.Bootstrap(ctx)

		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, StateAnonymous, s.State())
		assert.Equal(t, "tok", tokens.token)
		assert.Zero(t, tokens.cleared)
	})

	t.Run("load failure goes anonymous", func(t *testing.T) {
		s, _ := newTestStore(&memoryTokens{loadErr: errors.New("disk")})
		require.NoError(t, s.Bootstrap(ctx))
		assert.Equal(t, StateAnonymous, s.State())
	})
}

func TestStore_SignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists and notifies", func(t *testing.T) {
		tokens := &memoryTokens{}
		s, auth := newTestStore(tokens)
		require.NoError(t, s.Bootstrap(ctx))
		auth.On("SignIn", ctx, "alice@example.com", "secret1").
			Return(&domain.AuthSession{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), Identity: alice}, nil)

		var seen []bool
		s.Subscribe(func(_ domain.Identity, ok bool) { seen = append(seen, ok) })

		id, err := s.SignIn(ctx, " Alice@Example.com ", "secret1")
		require.NoError(t, err)

		assert.Equal(t, alice.ID, id)
		assert.Equal(t, StateAuthenticated, s.State())
		assert.Equal(t, "tok", tokens.token)
		assert.Equal(t, []bool{true}, seen)
	})

	t.Run("unknown account stays anonymous", func(t *testing.T) {
		tokens := &memoryTokens{}
		s, auth := newTestStore(tokens)
		require.NoError(t, s.Bootstrap(ctx))
		auth.On("SignIn", ctx, "nobody@example.com", "whatever").Return(nil, domain.ErrInvalidCredentials)

		calls := 0
		s.Subscribe(func(domain.Identity, bool) { calls++ })

		_, err := s.SignIn(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, StateAnonymous, s.State())
		assert.Empty(t, tokens.token)
		assert.Zero(t, calls)
	})

	t.Run("network failure", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{})
		auth.On("SignIn", ctx, "alice@example.com", "secret1").Return(nil, domain.ErrNetwork)

		_, err := s.SignIn(ctx, "alice@example.com", "secret1")
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, StateUnknown, s.State())
	})
}

func TestStore_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("short password makes no remote call", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{})
		err := s.SignUp(ctx, "bob@example.com", "12345")
		assert.ErrorIs(t, err, domain.ErrValidation)
		auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed email", func(t *testing.T) {
		s, _ := newTestStore(&memoryTokens{})
		assert.ErrorIs(t, s.SignUp(ctx, "not-an-email", "123456"), domain.ErrValidation)
	})

	t.Run("success stays anonymous", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{})
		require.NoError(t, s.Bootstrap(ctx))
		auth.On("SignUp", ctx, "bob@example.com", "123456").
			Return(domain.Identity{ID: "u-bob", Email: "bob@example.com"}, nil)

		require.NoError(t, s.SignUp(ctx, "bob@example.com", "123456"))

		assert.Equal(t, StateAnonymous, s.State())
		auth.AssertExpectations(t)
	})

	t.Run("duplicate email surfaces", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{})
		auth.On("SignUp", ctx, "bob@example.com", "123456").Return(domain.Identity{}, domain.ErrDuplicateEmail)
		assert.ErrorIs(t, s.SignUp(ctx, "bob@example.com", "123456"), domain.ErrDuplicateEmail)
	})
}

func TestStore_SignOutIdempotent(t *testing.T) {
	ctx := context.Background()
	tokens := &memoryTokens{token: "tok"}
	s, auth := newTestStore(tokens)
	auth.On("GetSession", ctx, "tok").Return(alice, nil)
	auth.On("SignOut", ctx, "tok").Return(errors.New("revoke endpoint down"))
	require.NoError(t, s.Bootstrap(ctx))

	var seen []bool
	s.Subscribe(func(_ domain.Identity, ok bool) { seen = append(seen, ok) })

	require.NoError(t, s.SignOut(ctx))
	require.NoError(t, s.SignOut(ctx))

	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, tokens.token)
	assert.Equal(t, []bool{false}, seen)
	auth.AssertNumberOfCalls(t, "SignOut", 1)
}

func TestStore_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("re-emits updated identity", func(t *testing.T) {
		s, auth := newTestStore(&memoryTokens{token: "tok"})
		auth.On("GetSession", ctx, "tok").Return(alice, nil).Once()
		require.NoError(t, s.Bootstrap(ctx))

		updated := alice
		updated.HasProfile = true
		updated.City = "Paris"
		auth.On("GetSession", ctx, "tok").Return(updated, nil).Once()

		var got domain.Identity
		s.Subscribe(func(id domain.Identity, _ bool) { got = id })

		require.NoError(t, s.Refresh(ctx))
		assert.Equal(t, "Paris", got.City)
	})

	t.Run("anonymous refresh", func(t *testing.T) {
		s, _ := newTestStore(&memoryTokens{})
		assert.ErrorIs(t, s.Refresh(ctx), domain.ErrUnauthenticated)
	})

	t.Run("revoked token signs out locally", func(t *testing.T) {
		tokens := &memoryTokens{token: "tok"}
		s, auth := newTestStore(tokens)
		auth.On("GetSession", ctx, "tok").Return(alice, nil).Once()
		require.NoError(t, s.Bootstrap(ctx))
		auth.On("GetSession", ctx, "tok").Return(domain.Identity{}, domain.ErrUnauthenticated).Once()

		assert.ErrorIs(t, s.Refresh(ctx), domain.ErrUnauthenticated)
		assert.Equal(t, StateAnonymous, s.State())
		assert.Empty(t, tokens.token)
	})
}

func TestStore_SetProfile(t *testing.T) {
	ctx := context.Background()
	s, auth := newTestStore(&memoryTokens{token: "tok"})
	auth.On("GetSession", ctx, "tok").Return(alice, nil)
	require.NoError(t, s.Bootstrap(ctx))

	s.SetProfile(&domain.Profile{ID: "someone-else", City: "Rome"})
	id, _ := s.Current()
	assert.False(t, id.HasProfile)

	s.SetProfile(&domain.Profile{ID: alice.ID, City: "Lyon"})
	id, _ = s.Current()
	assert.True(t, id.HasProfile)
	assert.Equal(t, "Lyon", id.City)
}

func TestStore_Unsubscribe(t *testing.T) {
	ctx := context.Background()
	s, auth := newTestStore(&memoryTokens{})
	auth.On("SignIn", ctx, "alice@example.com", "secret1").
		Return(&domain.AuthSession{Token: "tok", Identity: alice}, nil)

	calls := 0
	unsubscribe := s.Subscribe(func(domain.Identity, bool) { calls++ })
	unsubscribe()
	unsubscribe()

	_, err := s.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestStore_ObserverMayReadStore(t *testing.T) {
	ctx := context.Background()
	s, auth := newTestStore(&memoryTokens{})
	auth.On("SignIn", ctx, "alice@example.com", "secret1").
		Return(&domain.AuthSession{Token: "tok", Identity: alice}, nil)

	var state State
	s.Subscribe(func(domain.Identity, bool) { state = s.State() })

	_, err := s.SignIn(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, state)
}

func TestStore_ObserversSeeChangesInApplyOrder(t *testing.T) {
	s, _ := newTestStore(&memoryTokens{})

	var (
		mu   sync.Mutex
		last domain.Identity
		ok   bool
	)
	s.Subscribe(func(identity domain.Identity, signedIn bool) {
		// widen the window between the state write and the emit
		time.Sleep(50 * time.Microsecond)
		mu.Lock()
		last, ok = identity, signedIn
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.transition(StateAuthenticated, domain.Identity{ID: "u", Email: "u@example.com", City: string(rune('a' + i%26))}, "tok")
				return
			}
			s.transition(StateAnonymous, domain.Identity{}, "")
		}(i)
	}
	wg.Wait()

	current, signedIn := s.Current()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, signedIn, ok)
	assert.Equal(t, current, last)
}
