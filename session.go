package headstart

import (
	"context"
	"sync"
	"time"

	"github.com/esitarz/headstart/commerce"
	"github.com/goliatone/go-errors"
)

// RefreshCooldown is how long failed refreshes suppress new attempts.
var RefreshCooldown = 3 * time.Second

// SessionManager sequences the platform's login, refresh, anonymous
// session, and logout primitives, and mirrors the resulting tokens
// into every dependent client through the TokenHolder.
type SessionManager struct {
	auth   AuthAPI
	holder *TokenHolder
	cfg    Config
	logger Logger
	sink   SessionSink
	now    func() time.Time

	mu            sync.Mutex
	refreshing    bool
	cooldownUntil time.Time
	loggedIn      bool
	username      string
}

var _ SessionOrchestrator = (*SessionManager)(nil)

// NewSessionManager returns a manager propagating tokens through the
// given holder.
func NewSessionManager(auth AuthAPI, holder *TokenHolder, cfg Config) *SessionManager {
	if holder == nil {
		holder = NewTokenHolder()
	}

	return &SessionManager{
		auth:   auth,
		holder: holder,
		cfg:    cfg,
		logger: defLogger{},
		sink:   noopSessionSink{},
		now:    time.Now,
	}
}

// WithLogger overrides the logger.
func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
	}
	return m
}

// WithSessionSink configures the sink notified on state transitions.
func (m *SessionManager) WithSessionSink(sink SessionSink) *SessionManager {
	m.sink = normalizeSessionSink(sink)
	return m
}

// WithClock injects a custom clock (useful for tests).
func (m *SessionManager) WithClock(clock func() time.Time) *SessionManager {
	if clock != nil {
		m.now = clock
	}
	return m
}

// Holder exposes the token holder so callers can register additional
// dependent clients.
func (m *SessionManager) Holder() *TokenHolder {
	return m.holder
}

// IsLoggedIn reports whether a non-anonymous session is active.
func (m *SessionManager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedIn
}

// Login exchanges credentials for a token pair and applies the shared
// propagation path.
func (m *SessionManager) Login(ctx context.Context, username, password string, rememberMe bool) (*commerce.TokenPair, error) {
	pair, err := m.auth.PasswordGrant(ctx, m.cfg.GetClientID(), username, password, m.cfg.GetScope())
	if err != nil {
		m.logger.Error("login password grant failed", "error", err)
		m.emit(ctx, SessionEvent{
			EventType: SessionEventLoginFailure,
			Username:  username,
			Metadata:  map[string]any{"error": err.Error()},
		})
		return nil, errors.Wrap(err, errors.CategoryAuth, "login failed")
	}

	if err := m.LoginWithTokens(ctx, TokenGrant{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RememberMe:   rememberMe,
	}); err != nil {
		return nil, err
	}

	return pair, nil
}

// LoginWithTokens is the shared token-propagation path used by every
// successful authentication route. The refresh token is retained only
// when the caller opted into remember-me; SSO sessions never retain
// one because the external provider owns renewal.
func (m *SessionManager) LoginWithTokens(ctx context.Context, grant TokenGrant) error {
	if grant.AccessToken == "" {
		return errors.New("access token is required", errors.CategoryAuth)
	}

	pair := commerce.TokenPair{AccessToken: grant.AccessToken}
	if grant.RememberMe && !grant.SSO && grant.RefreshToken != "" {
		pair.RefreshToken = grant.RefreshToken
	}

	m.holder.Set(pair)

	claims, err := DecodeToken(grant.AccessToken)
	if err != nil {
		m.logger.Warn("access token is not decodable", "error", err)
		claims = &TokenClaims{}
	}

	anonymous := claims.Anonymous()

	m.mu.Lock()
	m.loggedIn = !anonymous
	m.username = claims.Username
	m.mu.Unlock()

	eventType := SessionEventLoginSuccess
	if anonymous {
		eventType = SessionEventAnonymousStarted
	}

	// Best effort notification; subscribers such as the order approval
	// alert must not block authentication.
	m.emit(ctx, SessionEvent{
		EventType: eventType,
		Username:  claims.Username,
		Anonymous: anonymous,
	})

	return nil
}

// AnonymousLogin requests an anonymous session token and applies the
// shared propagation path. On failure the session is forced out and
// the error surfaces to the caller.
func (m *SessionManager) AnonymousLogin(ctx context.Context) (*commerce.TokenPair, error) {
	pair, err := m.auth.AnonymousGrant(ctx, m.cfg.GetClientID(), m.cfg.GetScope())
	if err != nil {
		m.logger.Error("anonymous session request failed", "error", err)
		m.clearSession(ctx)
		return nil, errors.Wrap(err, errors.CategoryOperation, "anonymous session request failed")
	}

	if err := m.LoginWithTokens(ctx, TokenGrant{AccessToken: pair.AccessToken}); err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout clears the token from every dependent client and, when
// anonymous browsing is enabled, re-establishes an anonymous session.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.clearSession(ctx)

	if !m.cfg.GetAnonymousEnabled() {
		return nil
	}

	// Direct grant instead of AnonymousLogin: a failure here must not
	// loop back into another logout.
	pair, err := m.auth.AnonymousGrant(ctx, m.cfg.GetClientID(), m.cfg.GetScope())
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "could not re-establish anonymous session")
	}

	return m.LoginWithTokens(ctx, TokenGrant{AccessToken: pair.AccessToken})
}

// Refresh attempts a refresh-token exchange. The operation is guarded
// by a non-reentrant in-flight latch; after a failure new attempts are
// suppressed for RefreshCooldown and the session is forced out.
func (m *SessionManager) Refresh(ctx context.Context) (*commerce.TokenPair, error) {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return nil, ErrRefreshInFlight
	}
	if m.now().Before(m.cooldownUntil) {
		m.mu.Unlock()
		return nil, ErrRefreshCoolingDown
	}
	m.refreshing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	refreshToken := m.holder.Current().RefreshToken
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	pair, err := m.auth.RefreshGrant(ctx, m.cfg.GetClientID(), refreshToken)
	if err != nil {
		m.mu.Lock()
		m.cooldownUntil = m.now().Add(RefreshCooldown)
		m.mu.Unlock()

		m.logger.Error("token refresh failed", "error", err)
		if lerr := m.Logout(ctx); lerr != nil {
			m.logger.Warn("logout after refresh failure", "error", lerr)
		}

		return nil, errors.Wrap(err, errors.CategoryAuth, "token refresh failed")
	}

	if err := m.LoginWithTokens(ctx, TokenGrant{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RememberMe:   true,
	}); err != nil {
		return nil, err
	}

	m.emit(ctx, SessionEvent{
		EventType: SessionEventTokenRefreshed,
		Metadata:  map[string]any{"expires_in": pair.ExpiresIn},
	})

	return pair, nil
}

// ChangePassword verifies the current password by re-authenticating,
// then resets the password through the token-scoped endpoint. The
// reset primitive itself does not require the old password.
func (m *SessionManager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	current := m.holder.Current()
	if current.AccessToken == "" {
		return ErrNotLoggedIn
	}

	m.mu.Lock()
	username := m.username
	loggedIn := m.loggedIn
	m.mu.Unlock()

	if !loggedIn || username == "" {
		return ErrNotLoggedIn
	}

	if _, err := m.auth.PasswordGrant(ctx, m.cfg.GetClientID(), username, currentPassword, m.cfg.GetScope()); err != nil {
		return errors.Wrap(err, errors.CategoryAuth, "current password verification failed")
	}

	if err := m.auth.ResetPasswordByToken(ctx, current.AccessToken, newPassword); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "password reset failed")
	}

	return nil
}

func (m *SessionManager) clearSession(ctx context.Context) {
	m.holder.Clear()

	m.mu.Lock()
	username := m.username
	m.loggedIn = false
	m.username = ""
	m.mu.Unlock()

	m.emit(ctx, SessionEvent{
		EventType: SessionEventLogout,
		Username:  username,
	})
}

func (m *SessionManager) emit(ctx context.Context, event SessionEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = m.now()
	}
	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := normalizeSessionSink(m.sink).Record(ctx, event); err != nil {
		m.logger.Warn("session sink record error: %v", err)
	}
}
