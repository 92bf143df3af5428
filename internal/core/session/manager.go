package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
	"github.com/tnlabs/auth-client-kit/internal/token"
)

// Status is the lifecycle of a single manager operation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Manager orchestrates login, register, and logout: it calls the backend,
// synchronizes the store and the keystore, and triggers navigation. It is
// also the single observer of transport auth failures; navigation decisions
// live here, never inside a transport.
//
// A generation counter serializes session establishment against teardown: a
// login or register response that arrives after a logout (or auth failure)
// already reset the session is discarded rather than repopulating it.
type Manager struct {
	store *Store
	keys  ports.Keystore
	auth  ports.AuthAPI
	nav   ports.Navigator
	log   zerolog.Logger

	mu     sync.Mutex // guards the fields below
	status Status
	err    error
	gen    uint64
}

var _ ports.AuthFailureListener = (*Manager)(nil)

func NewManager(store *Store, keys ports.Keystore, auth ports.AuthAPI, nav ports.Navigator, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		keys:  keys,
		auth:  auth,
		nav:   nav,
		log:   log,
	}
}

// Status returns the state of the most recent operation.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Loading reports whether an operation is in flight.
func (m *Manager) Loading() bool {
	return m.Status() == StatusPending
}

// Err returns the failure of the most recent operation, or nil. It is never
// non-nil while Loading reports true.
func (m *Manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Login authenticates with the backend and, on success, populates the store,
// persists the token pair and user, and navigates to the dashboard. The
// error is also retained for UI binding via Err.
func (m *Manager) Login(ctx context.Context, creds domain.LoginCredentials) error {
	if err := domain.Validate(creds); err != nil {
		m.fail(err)
		return err
	}

	gen := m.begin()
	res, err := m.auth.Login(ctx, creds)
	if err != nil {
		m.fail(err)
		return err
	}
	return m.establish(gen, res, "login")
}

// Register creates an account and establishes a session exactly like Login.
func (m *Manager) Register(ctx context.Context, creds domain.RegisterCredentials) error {
	if err := domain.Validate(creds); err != nil {
		m.fail(err)
		return err
	}

	gen := m.begin()
	res, err := m.auth.Register(ctx, creds)
	if err != nil {
		m.fail(err)
		return err
	}
	return m.establish(gen, res, "register")
}

// Logout tells the backend to end the session, then clears the store and the
// keystore regardless of the call's outcome. The client must never stay in
// an authenticated state after the user asked to leave, so a failed logout
// request is logged and otherwise ignored.
func (m *Manager) Logout(ctx context.Context) {
	m.begin()

	if err := m.auth.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Msg("logout request failed; clearing session anyway")
	}

	m.reset()
	m.nav.Push(domain.RouteLogin)
}

// AuthFailure implements ports.AuthFailureListener. A transport calls it
// once per request whose stored credentials the backend rejected. The
// session is gone: clear both layers and replace-navigate to login.
func (m *Manager) AuthFailure(reason error) {
	m.log.Warn().Err(reason).Msg("session rejected by backend; clearing credentials")
	m.reset()
	m.nav.Replace(domain.RouteLogin)
}

// Rehydrate restores a persisted session from the keystore into the store.
// A missing or expired access token rehydrates nothing; an expired one also
// clears the stale cached credentials (fail closed). Returns whether a
// session was restored.
func (m *Manager) Rehydrate() bool {
	tok := m.keys.AccessToken()
	if tok == "" {
		return false
	}
	u, ok := m.keys.User()
	if !ok || token.IsExpired(tok) {
		if err := m.keys.ClearAuth(); err != nil {
			m.log.Warn().Err(err).Msg("failed to clear stale credentials")
		}
		m.store.ClearAuth()
		return false
	}

	m.store.SetUser(&u)
	m.store.SetAccessToken(tok)
	return true
}

// begin moves the manager to pending and returns the generation the caller
// belongs to.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusPending
	m.err = nil
	return m.gen
}

func (m *Manager) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusFailed
	m.err = err
}

// establish commits a successful auth result: store first, then durable
// keystore, then navigation. If the generation moved on while the request
// was in flight the result is stale and must not touch the session.
func (m *Manager) establish(gen uint64, res *domain.AuthResult, op string) error {
	m.mu.Lock()
	if m.gen != gen {
		m.mu.Unlock()
		m.log.Warn().Str("op", op).Msg("discarding auth response for a superseded session")
		return domain.ErrLoginSuperseded
	}

	m.store.SetUser(&res.User)
	m.store.SetAccessToken(res.AccessToken)

	// Durable writes can fail (disk, permissions); the in-memory session is
	// still valid for this process, so log and carry on.
	if err := m.keys.SetAccessToken(res.AccessToken); err != nil {
		m.log.Error().Err(err).Msg("persist access token")
	}
	if err := m.keys.SetRefreshToken(res.RefreshToken); err != nil {
		m.log.Error().Err(err).Msg("persist refresh token")
	}
	if err := m.keys.SetUser(res.User); err != nil {
		m.log.Error().Err(err).Msg("persist user record")
	}

	m.status = StatusSucceeded
	m.err = nil
	m.mu.Unlock()

	m.nav.Push(domain.RouteDashboard)
	m.log.Info().Str("op", op).Str("user_id", res.User.ID).Msg("session established")
	return nil
}

// reset tears the session down in both layers, bumps the generation so any
// in-flight establishment is discarded, and returns the manager to idle.
func (m *Manager) reset() {
	m.mu.Lock()
	m.gen++
	m.status = StatusIdle
	m.err = nil

	m.store.ClearAuth()
	if err := m.keys.ClearAuth(); err != nil {
		m.log.Error().Err(err).Msg("clear durable credentials")
	}
	m.mu.Unlock()
}
