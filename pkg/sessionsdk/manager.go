package sessionsdk

import (
	"context"
	"log/slog"
	"sync"

	"github.com/colegiosoft/siged/pkg/jwtx"
)

// Error strings surfaced to the UI. These are state, not panics: the UI
// renders them inline next to the login form.
const (
	msgLoginFailed    = "credenciales inválidas o servicio no disponible"
	msgBadTokenClaims = "el servidor devolvió un token inválido"
	msgUpdateFailed   = "no se pudo actualizar el perfil"
	msgCrossUser      = "no es posible modificar otro usuario"
)

// Manager owns the session: current user, token pair, authentication flag.
// It is the single source of truth for "who is logged in" and the single
// writer of the persisted session. Construct one per process and hand it to
// the Monitor and Guard explicitly; there is deliberately no package-level
// instance.
//
// All mutations replace the State snapshot wholesale under the write lock,
// so concurrent readers (monitor ticks, guards, UI) never see a session
// with, say, a new token but the previous user.
type Manager struct {
	client AuthClient
	store  Persistence
	logger *slog.Logger

	mu    sync.RWMutex
	state State
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for session diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a session manager backed by the given auth client and
// persistence. The manager starts unauthenticated; call InitializeAuth to
// rehydrate a previous session.
func NewManager(client AuthClient, store Persistence, opts ...Option) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current session state. The returned value is a copy;
// it stays consistent no matter what the manager does afterwards.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a session is active as of the last check.
// Expiry is detected asynchronously by the Monitor, so this can lag a token
// that just expired.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated
}

// AccessToken returns the current access token, "" when logged out.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.AccessToken
}

// Err returns the last operation error, "" when clear.
func (m *Manager) Err() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Err
}

// ClearError discards the surfaced error string.
func (m *Manager) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Err = ""
}

// Login exchanges credentials for a session. On success the session is
// populated, persisted, and true is returned. On any failure the previous
// session survives untouched except for the error string.
//
// The network call happens outside the lock: whatever session existed before
// stays fully visible to readers until the new one is confirmed.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	return m.LoginTOTP(ctx, email, password, "")
}

// LoginTOTP is Login with a TOTP code for accounts with a second factor.
func (m *Manager) LoginTOTP(ctx context.Context, email, password, codigoTOTP string) bool {
	// New attempt implicitly clears the previous error.
	m.setErr("")

	resp, err := m.client.Login(ctx, email, password, codigoTOTP)
	if err != nil {
		m.logger.Warn("login failed", "email", email, "err", err)
		m.setErr(loginErrMessage(err))
		return false
	}

	claims, err := jwtx.Decode(resp.AccessToken)
	if err != nil {
		m.logger.Error("login returned undecodable access token", "err", err)
		m.setErr(msgBadTokenClaims)
		return false
	}

	m.replace(State{
		User:            userFromClaims(claims),
		AccessToken:     resp.AccessToken,
		RefreshToken:    resp.RefreshToken,
		IsAuthenticated: true,
	})

	m.logger.Info("session started", "user_id", claims.UserID(), "rol", claims.Rol)
	return true
}

// Logout ends the session. The local session is cleared unconditionally,
// server revocation is best-effort: a dead network must not keep a user
// logged in. Calling Logout while already logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refreshToken := m.state.RefreshToken
	wasAuthenticated := m.state.IsAuthenticated
	m.state = State{}
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted session", "err", err)
	}

	if !wasAuthenticated {
		return
	}

	if refreshToken != "" {
		if err := m.client.Logout(ctx, refreshToken); err != nil {
			m.logger.Warn("server-side logout failed, session cleared locally", "err", err)
		}
	}

	m.logger.Info("session ended")
}

// Refresh silently exchanges the refresh token for a new pair. Failure
// behaves as logout: a session that cannot refresh is over.
func (m *Manager) Refresh(ctx context.Context) bool {
	m.mu.RLock()
	refreshToken := m.state.RefreshToken
	m.mu.RUnlock()

	if refreshToken == "" {
		return false
	}

	resp, err := m.client.Refresh(ctx, refreshToken)
	if err != nil {
		m.logger.Warn("silent refresh failed, logging out", "err", err)
		m.Logout(ctx)
		return false
	}

	claims, err := jwtx.Decode(resp.AccessToken)
	if err != nil {
		m.logger.Error("refresh returned undecodable access token", "err", err)
		m.Logout(ctx)
		return false
	}

	m.replace(State{
		User:            userFromClaims(claims),
		AccessToken:     resp.AccessToken,
		RefreshToken:    resp.RefreshToken,
		IsAuthenticated: true,
	})
	return true
}

// UpdateUser applies a partial profile update for userID, which must be the
// session's own user. On success the cached projection is updated in place.
func (m *Manager) UpdateUser(ctx context.Context, userID string, patch PerfilPatch) bool {
	m.mu.RLock()
	st := m.state
	m.mu.RUnlock()

	if !st.IsAuthenticated || st.User == nil {
		m.setErr(msgUpdateFailed)
		return false
	}
	if st.User.ID != userID {
		m.logger.Warn("rejected cross-user profile update", "session_user", st.User.ID, "target", userID)
		m.setErr(msgCrossUser)
		return false
	}

	if err := m.client.UpdatePerfil(ctx, st.AccessToken, patch); err != nil {
		m.logger.Warn("profile update failed", "err", err)
		m.setErr(updateErrMessage(err))
		return false
	}

	m.mu.Lock()
	if m.state.User != nil && m.state.User.ID == userID {
		user := *m.state.User
		if patch.Nombre != "" {
			user.Nombre = patch.Nombre
		}
		if patch.Email != "" {
			user.Email = patch.Email
		}
		next := m.state
		next.User = &user
		next.Err = ""
		m.state = next
		m.persistLocked()
	}
	m.mu.Unlock()
	return true
}

// HasRole reports whether the session's user carries exactly rol.
// Always false when unauthenticated.
func (m *Manager) HasRole(rol string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated && m.state.User != nil && m.state.User.Rol == rol
}

// HasAnyRole reports whether the session's user carries one of roles.
func (m *Manager) HasAnyRole(roles ...string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.state.IsAuthenticated || m.state.User == nil {
		return false
	}
	for _, rol := range roles {
		if m.state.User.Rol == rol {
			return true
		}
	}
	return false
}

// InitializeAuth rehydrates the session from persistence on process start,
// without a network call, then re-validates the token. An already-expired
// or corrupted session behaves as logged out. Guards observe Loading=true
// for the duration and must not redirect until it settles.
func (m *Manager) InitializeAuth(ctx context.Context) {
	m.mu.Lock()
	m.state.Loading = true
	m.mu.Unlock()

	snap, found, err := m.store.Load()
	if err != nil {
		// Corrupted persisted session: same as never logged in, but worth a log line.
		m.logger.Warn("discarding unreadable persisted session", "err", err)
		_ = m.store.Clear()
	}

	if err != nil || !found || !snap.IsAuthenticated || snap.User == nil || jwtx.IsExpired(snap.AccessToken) {
		if found && snap.IsAuthenticated {
			if snap.User == nil {
				m.logger.Warn("discarding persisted session without a user")
			} else {
				m.logger.Info("persisted session already expired")
			}
			_ = m.store.Clear()
		}
		m.replace(State{})
		return
	}

	m.mu.Lock()
	m.state = State{
		User:            snap.User,
		AccessToken:     snap.AccessToken,
		RefreshToken:    snap.RefreshToken,
		IsAuthenticated: true,
	}
	m.mu.Unlock()

	m.logger.Info("session rehydrated", "user_id", snap.User.ID)
}

// replace swaps in a new state snapshot and persists it.
func (m *Manager) replace(next State) {
	m.mu.Lock()
	m.state = next
	m.persistLocked()
	m.mu.Unlock()
}

// persistLocked writes the durable snapshot. Callers hold the write lock.
// Persistence failures are logged, not surfaced: the in-memory session is
// the source of truth and keeps working for this process.
func (m *Manager) persistLocked() {
	if !m.state.IsAuthenticated {
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("failed to clear persisted session", "err", err)
		}
		return
	}

	snap := Snapshot{
		User:            m.state.User,
		IsAuthenticated: true,
		AccessToken:     m.state.AccessToken,
		RefreshToken:    m.state.RefreshToken,
	}
	if err := m.store.Save(snap); err != nil {
		m.logger.Warn("failed to persist session", "err", err)
	}
}

func (m *Manager) setErr(msg string) {
	m.mu.Lock()
	m.state.Err = msg
	m.mu.Unlock()
}

func loginErrMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Description != "" {
		return apiErr.Description
	}
	return msgLoginFailed
}

func updateErrMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok && apiErr.Description != "" {
		return apiErr.Description
	}
	return msgUpdateFailed
}
