package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

const defaultUserAgent = "headstart-go"

// Client talks to the remote commerce platform REST API. The platform
// owns all persistence and authorization; this client only shapes
// requests and decodes responses.
type Client struct {
	apiURL    string
	authURL   string
	userAgent string
	http      *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithAuthURL points token grants at a different host than the API.
func WithAuthURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.authURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient returns a client rooted at apiURL. Token endpoints default
// to the same host unless WithAuthURL is given.
func NewClient(apiURL string, opts ...Option) *Client {
	c := &Client{
		apiURL:    strings.TrimRight(apiURL, "/"),
		authURL:   strings.TrimRight(apiURL, "/"),
		userAgent: defaultUserAgent,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// APIError is a non-2xx response from the platform.
type APIError struct {
	Status    int
	ErrorCode string
	Message   string
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("commerce api error %d (%s): %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("commerce api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a platform 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Status == http.StatusNotFound
	}
	return false
}

// IsUnauthorized reports whether err is a platform 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized
	}
	return false
}

type apiErrorBody struct {
	Errors []struct {
		ErrorCode string `json:"ErrorCode"`
		Message   string `json:"Message"`
	} `json:"Errors"`
}

// do issues a JSON request against the API host. A non-empty token is
// sent as a bearer credential. out may be nil for calls whose response
// body is irrelevant.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode request body")
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, payload)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "commerce platform request failed").
			WithMetadata(map[string]any{
				"method": method,
				"path":   path,
			})
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return decodeAPIError(res)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to decode platform response").
			WithMetadata(map[string]any{
				"method": method,
				"path":   path,
			})
	}

	return nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{
		Status:  res.StatusCode,
		Message: res.Status,
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err == nil && len(raw) > 0 {
		var parsed apiErrorBody
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr == nil && len(parsed.Errors) > 0 {
			apiErr.ErrorCode = parsed.Errors[0].ErrorCode
			apiErr.Message = parsed.Errors[0].Message
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
	}

	return apiErr
}
