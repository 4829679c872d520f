package commerce

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-errors"
)

// TokenPair holds the opaque bearer credentials issued by the platform
// auth service. Lifetime is governed entirely by that service.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
}

// PasswordGrant exchanges user credentials for a token pair.
func (c *Client) PasswordGrant(ctx context.Context, clientID, username, password string, scope []string) (*TokenPair, error) {
	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {clientID},
		"username":   {username},
		"password":   {password},
	}
	if len(scope) > 0 {
		form.Set("scope", strings.Join(scope, " "))
	}

	return c.tokenRequest(ctx, form)
}

// RefreshGrant exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshGrant(ctx context.Context, clientID, refreshToken string) (*TokenPair, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {clientID},
		"refresh_token": {refreshToken},
	}

	return c.tokenRequest(ctx, form)
}

// ClientCredentialsGrant obtains an elevated token for back-office and
// seeding operations.
func (c *Client) ClientCredentialsGrant(ctx context.Context, clientID, clientSecret string, scope []string) (*TokenPair, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
	}
	if len(scope) > 0 {
		form.Set("scope", strings.Join(scope, " "))
	}

	return c.tokenRequest(ctx, form)
}

// AnonymousGrant requests an anonymous shopping session token. The
// platform treats a secret-less client_credentials grant as anonymous
// when the API client allows it.
func (c *Client) AnonymousGrant(ctx context.Context, clientID string, scope []string) (*TokenPair, error) {
	form := url.Values{
		"grant_type": {"client_credentials"},
		"client_id":  {clientID},
	}
	if len(scope) > 0 {
		form.Set("scope", strings.Join(scope, " "))
	}

	return c.tokenRequest(ctx, form)
}

// ResetPasswordByToken sets a new password for the identity behind the
// given access token. The platform endpoint does not require the old
// password; callers verify it beforehand.
func (c *Client) ResetPasswordByToken(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"NewPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/v1/me/password", token, body, nil)
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (*TokenPair, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.authURL+"/oauth/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build token request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "token request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, decodeAPIError(res)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read token response")
	}

	pair := &TokenPair{}
	if err := json.Unmarshal(raw, pair); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to decode token response")
	}

	if pair.AccessToken == "" {
		return nil, errors.New("token response is missing access_token", errors.CategoryOperation)
	}

	return pair, nil
}
