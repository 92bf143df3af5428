package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/infrastructure/keystore"
)

type recordingListener struct {
	mu    sync.Mutex
	calls []error
}

func (l *recordingListener) AuthFailure(reason error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, reason)
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func newTestClient(t *testing.T, srv *httptest.Server) (*Client, *keystore.File, *recordingListener) {
	t.Helper()
	ks, err := keystore.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("keystore: %v", err)
	}
	listener := &recordingListener{}
	client, err := NewClient(Options{
		BaseURL:     srv.URL,
		Keystore:    ks,
		AuthFailure: listener,
		Logger:      zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, ks, listener
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	client, ks, _ := newTestClient(t, srv)
	_ = ks.SetAccessToken("tok-123")

	var out struct{}
	if err := client.do(context.Background(), http.MethodGet, "/users/me", nil, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestClient_NoTokenMeansNoHeader(t *testing.T) {
	var gotAuth string
	headerSet := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, headerSet = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"data": {}}`))
	}))
	defer srv.Close()

	client, _, _ := newTestClient(t, srv)

	var out struct{}
	if err := client.do(context.Background(), http.MethodGet, "/users/me", nil, &out); err != nil {
		t.Fatalf("request without token should succeed, got %v", err)
	}
	if headerSet {
		t.Errorf("Authorization header present without a stored token: %q", gotAuth)
	}
}

func TestClient_401WithTokenSignalsOnce(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "token expired"}`))
	}))
	defer srv.Close()

	client, ks, listener := newTestClient(t, srv)
	_ = ks.SetAccessToken("stale")

	err := client.do(context.Background(), http.MethodGet, "/users/me", nil, nil)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("error = %v, want ErrSessionExpired", err)
	}
	if requests != 1 {
		t.Errorf("request sent %d times, want 1 (no retry)", requests)
	}
	if listener.count() != 1 {
		t.Errorf("listener notified %d times, want exactly 1", listener.count())
	}
}

func TestClient_401WithoutTokenIsCredentialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid credentials"}`))
	}))
	defer srv.Close()

	client, _, listener := newTestClient(t, srv)

	err := client.do(context.Background(), http.MethodPost, "/auth/login", map[string]string{}, nil)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if listener.count() != 0 {
		t.Errorf("unauthenticated 401 must not raise the session-expiry signal")
	}
}

func TestClient_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrUserNotFound},
		{http.StatusConflict, domain.ErrEmailTaken},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error": "nope"}`))
		}))

		client, _, _ := newTestClient(t, srv)
		err := client.do(context.Background(), http.MethodGet, "/x", nil, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: error = %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestClient_OtherErrorsCarryMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "name too short"}`))
	}))
	defer srv.Close()

	client, _, _ := newTestClient(t, srv)
	err := client.do(context.Background(), http.MethodPost, "/x", nil, nil)
	if err == nil || err.Error() != "request failed (422): name too short" {
		t.Errorf("error = %v", err)
	}
}

func TestAuthService_LoginDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data": {
			"user": {"id": "u1", "email": "alice@example.com", "name": "Alice", "role": "user"},
			"accessToken": "acc",
			"refreshToken": "ref"
		}}`))
	}))
	defer srv.Close()

	client, _, _ := newTestClient(t, srv)
	svc := NewAuthService(client)

	res, err := svc.Login(context.Background(), domain.LoginCredentials{Email: "alice@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User.ID != "u1" || res.AccessToken != "acc" || res.RefreshToken != "ref" {
		t.Errorf("result = %+v", res)
	}
}
