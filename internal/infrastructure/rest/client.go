// Package rest is the JSON-over-HTTP transport. Every request reads the
// access token from the keystore and attaches it as a bearer credential; a
// 401 on a request that carried a token raises the typed session-expiry
// signal for the coordinator to handle.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// REST endpoints consumed by the client.
const (
	endpointLogin    = "/auth/login"
	endpointRegister = "/auth/register"
	endpointLogout   = "/auth/logout"
	endpointRefresh  = "/auth/refresh"
	endpointMe       = "/users/me"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the root of the REST API, e.g. http://localhost:8080.
	BaseURL string

	// Timeout bounds every request. The value is fixed at construction and
	// cannot be overridden per call. Defaults to 10s.
	Timeout time.Duration

	Keystore ports.Keystore

	// AuthFailure, when set, is notified exactly once per request whose
	// stored credentials the backend rejected.
	AuthFailure ports.AuthFailureListener

	Logger zerolog.Logger
}

// Client is the shared REST transport. Services wrap it per API area.
type Client struct {
	base        *url.URL
	http        *http.Client
	keys        ports.Keystore
	authFailure ports.AuthFailureListener
	log         zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parse base URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:        base,
		http:        &http.Client{Timeout: timeout},
		keys:        opts.Keystore,
		authFailure: opts.AuthFailure,
		log:         opts.Logger,
	}, nil
}

// envelope is the backend's response wrapper: {"data": ...} on success,
// {"error": "..."} on failure.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do performs one request. A missing access token is not an error; the
// request simply goes out unauthenticated.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rest: encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, payload)
	if err != nil {
		return fmt.Errorf("rest: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	tok := c.keys.AccessToken()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rest: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("rest: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && tok != "" {
		// The stored credentials were rejected. No refresh protocol is
		// implemented, so the session is over: signal the coordinator and
		// surface the typed error. The signal fires once per failing
		// request; there is no retry that could repeat it.
		c.log.Warn().Str("path", path).Msg("stored credentials rejected")
		if c.authFailure != nil {
			c.authFailure.AuthFailure(domain.ErrSessionExpired)
		}
		return fmt.Errorf("rest: %s %s: %w", method, path, domain.ErrSessionExpired)
	}

	if resp.StatusCode >= 400 {
		return c.apiError(resp.StatusCode, raw)
	}

	if out != nil {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("rest: decode response: %w", err)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("rest: decode payload: %w", err)
		}
	}
	return nil
}

// apiError converts a non-401 failure into a human-readable error, mapping
// the statuses the backend uses for known conditions onto domain sentinels.
func (c *Client) apiError(status int, raw []byte) error {
	msg := http.StatusText(status)
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		msg = env.Error
	}

	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrEmailTaken, msg)
	default:
		return fmt.Errorf("request failed (%d): %s", status, msg)
	}
}
