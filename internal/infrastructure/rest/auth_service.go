package rest

import (
	"context"
	"net/http"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// AuthService calls the backend's REST authentication endpoints.
type AuthService struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthService)(nil)

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := s.client.do(ctx, http.MethodPost, endpointLogin, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.AuthResult, error) {
	var out domain.AuthResult
	if err := s.client.do(ctx, http.MethodPost, endpointRegister, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.do(ctx, http.MethodPost, endpointLogout, nil, nil)
}

// Refresh exchanges a refresh token for a new access token. The endpoint is
// wired for completeness; nothing in the client calls it automatically.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := s.client.do(ctx, http.MethodPost, endpointRefresh, body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
