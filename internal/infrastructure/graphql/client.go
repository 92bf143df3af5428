// Package graphql is the GraphQL-over-HTTP transport. It shares the REST
// transport's policy: the stored bearer token is attached when present, and
// an "UNAUTHENTICATED" error classification ends the session. All errors
// stay visible to the caller alongside any partial data the server returned.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// codeUnauthenticated is the error classification the backend attaches to
// auth failures, under extensions.code.
const codeUnauthenticated = "UNAUTHENTICATED"

// Error is one entry of a GraphQL response's error list.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Unauthenticated reports whether the error carries the auth-failure
// classification.
func (e *Error) Unauthenticated() bool {
	code, _ := e.Extensions["code"].(string)
	return code == codeUnauthenticated
}

// Errors is the full error list of one response. It implements error so
// callers get every failure, not just the first.
type Errors []*Error

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Unauthenticated reports whether any error in the list is an auth failure.
func (es Errors) Unauthenticated() bool {
	for _, e := range es {
		if e.Unauthenticated() {
			return true
		}
	}
	return false
}

// Options configures a Client.
type Options struct {
	// Endpoint is the full GraphQL URL, e.g. http://localhost:8080/graphql.
	Endpoint string

	// Timeout bounds every request; fixed at construction. Defaults to 10s.
	Timeout time.Duration

	Keystore ports.Keystore

	// AuthFailure, when set, is notified once per response carrying an
	// UNAUTHENTICATED error.
	AuthFailure ports.AuthFailureListener

	Logger zerolog.Logger
}

// Client posts GraphQL operations to a single endpoint.
type Client struct {
	endpoint    string
	http        *http.Client
	keys        ports.Keystore
	authFailure ports.AuthFailureListener
	log         zerolog.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:    opts.Endpoint,
		http:        &http.Client{Timeout: timeout},
		keys:        opts.Keystore,
		authFailure: opts.AuthFailure,
		log:         opts.Logger,
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Do executes one operation. When the response contains errors, any partial
// data is still decoded into out before the error list is returned.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	raw, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("graphql: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("graphql: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.keys.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("graphql transport error")
		return fmt.Errorf("graphql: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("graphql: read response: %w", err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("graphql: decode response (status %d): %w", httpResp.StatusCode, err)
	}

	// A failure status without a GraphQL error list never reached the
	// executor: a bind failure, a gateway's JSON 502. Surface it as a
	// transport error instead of treating the empty document as success.
	if httpResp.StatusCode >= 400 && len(resp.Errors) == 0 {
		msg := http.StatusText(httpResp.StatusCode)
		var env struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &env) == nil && env.Error != "" {
			msg = env.Error
		}
		c.log.Error().
			Int("status", httpResp.StatusCode).
			Str("message", msg).
			Msg("graphql http error")
		return fmt.Errorf("graphql: request failed (%d): %s", httpResp.StatusCode, msg)
	}

	if len(resp.Errors) > 0 {
		for _, gqlErr := range resp.Errors {
			c.log.Error().
				Str("message", gqlErr.Message).
				Interface("path", gqlErr.Path).
				Msg("graphql error")
		}
		if resp.Errors.Unauthenticated() {
			c.unauthenticated()
		}
	}

	if out != nil && len(resp.Data) > 0 && string(resp.Data) != "null" {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("graphql: decode data: %w", err)
		}
	}

	if len(resp.Errors) > 0 {
		return resp.Errors
	}
	return nil
}

// unauthenticated removes the two token keys from durable storage and raises
// the typed session-expiry signal. Navigation stays with the coordinator.
func (c *Client) unauthenticated() {
	c.log.Warn().Msg("graphql reported unauthenticated; dropping stored tokens")
	if err := c.keys.Remove(ports.KeyAccessToken); err != nil {
		c.log.Error().Err(err).Msg("remove access token")
	}
	if err := c.keys.Remove(ports.KeyRefreshToken); err != nil {
		c.log.Error().Err(err).Msg("remove refresh token")
	}
	if c.authFailure != nil {
		c.authFailure.AuthFailure(domain.ErrSessionExpired)
	}
}
