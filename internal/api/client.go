// Package api is the HTTP client for the HTLY backend. One Client, one
// service file per resource. Every authenticated call attaches a fresh
// bearer credential at send time; when no credential can be produced the
// call is aborted, never sent bare.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/nikzart/HTLY/internal/session"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when the backend rejects the credential.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx backend response with its decoded error message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.Code)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// TokenSource supplies the bearer credential for outbound requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the HTLY backend REST surface.
type Client struct {
	baseURL    string
	httpc      *http.Client
	tokens     TokenSource
	logger     *zap.Logger
	authFailed func()
}

// OnAuthFailure registers fn, invoked whenever a request's credential is
// rejected by the backend or cannot be produced at all. The session store
// hooks its logout here so an expired credential never parks as a
// view-local error.
func (c *Client) OnAuthFailure(fn func()) {
	c.authFailed = fn
}

// New creates a backend client. baseURL is the API root, e.g.
// "http://localhost:5001/api".
func New(baseURL string, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

// do performs an authenticated JSON request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		err = fmt.Errorf("authorize %s %s: %w", method, path, err)
		c.noteAuthFailure(err)
		return err
	}
	err = c.send(ctx, method, path, query, token, body, out)
	c.noteAuthFailure(err)
	return err
}

// noteAuthFailure fires the auth-failure hook when err means the caller's
// credential is dead. Other failures are the caller's to handle.
func (c *Client) noteAuthFailure(err error) {
	if err == nil || c.authFailed == nil {
		return
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, session.ErrNoCredential) {
		c.authFailed()
	}
}

// doUnauthenticated performs a request without a credential. Only the
// identity provider endpoints (device flow, token refresh) use it.
func (c *Client) doUnauthenticated(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, nil, "", body, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, token string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %w", method, path, decodeStatusError(resp))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// getJSON is do() for idempotent reads, with bounded retries on transport
// or server failures. Client errors and rejected credentials are final.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return retry.Do(
		func() error {
			return c.do(ctx, http.MethodGet, path, query, nil, out)
		},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.MaxDelay(3*time.Second),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying request",
				zap.String("path", path),
				zap.Uint("attempt", n),
				zap.Error(err))
		}),
		retry.RetryIf(func(err error) bool {
			if errors.Is(err, ErrUnauthorized) || errors.Is(err, session.ErrNoCredential) {
				return false
			}
			var se *StatusError
			if errors.As(err, &se) && se.Code < 500 {
				return false
			}
			return true
		}),
	)
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

func decodeStatusError(resp *http.Response) *StatusError {
	se := &StatusError{Code: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		se.Message = body.Error
	}
	return se
}
