package headstart

import (
	"context"
	"fmt"

	"github.com/esitarz/headstart/commerce"
	"github.com/goliatone/go-router"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the storefront options shared by the session and buyer
// orchestrators.
type Config interface {
	GetAppName() string
	GetClientID() string
	GetScope() []string
	GetAnonymousEnabled() bool
	GetHomeRoute() string
	GetLoginRoute() string
}

// AuthAPI is the platform token surface the session orchestrator uses.
type AuthAPI interface {
	PasswordGrant(ctx context.Context, clientID, username, password string, scope []string) (*commerce.TokenPair, error)
	RefreshGrant(ctx context.Context, clientID, refreshToken string) (*commerce.TokenPair, error)
	ClientCredentialsGrant(ctx context.Context, clientID, clientSecret string, scope []string) (*commerce.TokenPair, error)
	AnonymousGrant(ctx context.Context, clientID string, scope []string) (*commerce.TokenPair, error)
	ResetPasswordByToken(ctx context.Context, token, newPassword string) error
}

// BuyerAPI is the platform buyer surface the provisioning layer uses.
type BuyerAPI interface {
	CreateBuyer(ctx context.Context, token string, buyer *commerce.Buyer) (*commerce.Buyer, error)
	GetBuyer(ctx context.Context, token, buyerID string) (*commerce.Buyer, error)
	SaveBuyer(ctx context.Context, token, buyerID string, buyer *commerce.Buyer) (*commerce.Buyer, error)
	PatchBuyerXp(ctx context.Context, token, buyerID string, xp *commerce.BuyerXp) (*commerce.Buyer, error)
}

// ProvisioningAPI covers the auxiliary resources created alongside a
// new buyer.
type ProvisioningAPI interface {
	SaveSecurityProfileAssignment(ctx context.Context, token string, assignment commerce.SecurityProfileAssignment) error
	SaveMessageSenderAssignment(ctx context.Context, token string, assignment commerce.MessageSenderAssignment) error
	CreateIncrementor(ctx context.Context, token string, incrementor commerce.Incrementor) (*commerce.Incrementor, error)
	SaveCatalogAssignment(ctx context.Context, token string, assignment commerce.CatalogAssignment) error
}

// TokenReceiver is a dependent client handle that needs the current
// access token mirrored into it.
type TokenReceiver interface {
	SetToken(token string)
}

// TokenReceiverFunc adapts a function to the TokenReceiver interface.
type TokenReceiverFunc func(token string)

// SetToken implements TokenReceiver.
func (f TokenReceiverFunc) SetToken(token string) {
	if f != nil {
		f(token)
	}
}

// TokenSource yields a valid bearer token, fetching a fresh one when
// the cached one is close to expiry.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SessionOrchestrator is the session surface the HTTP layer depends
// on, so tests can swap the manager out.
type SessionOrchestrator interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*commerce.TokenPair, error)
	LoginWithTokens(ctx context.Context, grant TokenGrant) error
	AnonymousLogin(ctx context.Context) (*commerce.TokenPair, error)
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (*commerce.TokenPair, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	IsLoggedIn() bool
}

// LoginPayload carries credentials from the HTTP layer.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
	GetRememberMe() bool
}

// HTTPSession is the cookie-and-redirect surface around the session
// orchestrator.
type HTTPSession interface {
	Login(c router.Context, payload LoginPayload) error
	Logout(c router.Context) (string, error)
	GetRedirect(c router.Context, def ...string) string
	GetRedirectOrDefault(c router.Context) string
	SetRedirect(c router.Context)
	RememberMe(c router.Context) bool
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] HEADSTART "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] HEADSTART "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] HEADSTART "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] HEADSTART "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
