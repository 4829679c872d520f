package headstart

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// tokenExpiryLeeway keeps us from handing out a token about to expire
// mid-request.
const tokenExpiryLeeway = 30 * time.Second

// ElevatedTokenSource caches the client-credentials token used for
// seeding and back-office provisioning, refreshing it only when the
// cached one nears expiry.
type ElevatedTokenSource struct {
	auth         AuthAPI
	clientID     string
	clientSecret string
	scope        []string
	logger       Logger
	now          func() time.Time

	mu        sync.Mutex
	cached    string
	expiresAt time.Time
}

// NewElevatedTokenSource returns a caching source for the given API
// client credentials.
func NewElevatedTokenSource(auth AuthAPI, clientID, clientSecret string, scope []string) *ElevatedTokenSource {
	return &ElevatedTokenSource{
		auth:         auth,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		logger:       defLogger{},
		now:          time.Now,
	}
}

// WithLogger overrides the logger.
func (s *ElevatedTokenSource) WithLogger(logger Logger) *ElevatedTokenSource {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *ElevatedTokenSource) WithClock(clock func() time.Time) *ElevatedTokenSource {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Token returns the cached elevated token, requesting a new grant when
// none is held or the held one is within the expiry leeway.
func (s *ElevatedTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != "" && now.Add(tokenExpiryLeeway).Before(s.expiresAt) {
		return s.cached, nil
	}

	pair, err := s.auth.ClientCredentialsGrant(ctx, s.clientID, s.clientSecret, s.scope)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "elevated token grant failed")
	}

	s.cached = pair.AccessToken
	s.expiresAt = s.expiryFor(pair.AccessToken, pair.ExpiresIn, now)

	return s.cached, nil
}

// expiryFor prefers the token's own exp claim, falling back to the
// expires_in hint from the grant response.
func (s *ElevatedTokenSource) expiryFor(token string, expiresIn int, now time.Time) time.Time {
	if claims, err := DecodeToken(token); err == nil {
		if exp := claims.Expires(); !exp.IsZero() {
			return exp
		}
	} else {
		s.logger.Debug("elevated token is not decodable, using expires_in", "error", err)
	}

	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}

	// Worst case assume a short-lived token.
	return now.Add(time.Minute)
}
