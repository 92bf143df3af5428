package graphql

import (
	"context"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// AuthService runs the authentication mutations over the GraphQL transport.
type AuthService struct {
	client *Client
}

var _ ports.AuthAPI = (*AuthService)(nil)

func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

func (s *AuthService) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthResult, error) {
	var out struct {
		Login domain.AuthResult `json:"login"`
	}
	vars := map[string]any{"email": creds.Email, "password": creds.Password}
	if err := s.client.Do(ctx, loginMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.Login, nil
}

func (s *AuthService) Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.AuthResult, error) {
	var out struct {
		Register domain.AuthResult `json:"register"`
	}
	vars := map[string]any{"email": creds.Email, "name": creds.Name, "password": creds.Password}
	if err := s.client.Do(ctx, registerMutation, vars, &out); err != nil {
		return nil, err
	}
	return &out.Register, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Do(ctx, logoutMutation, nil, nil)
}

// Refresh runs the refreshToken mutation. Wired for completeness; nothing in
// the client calls it automatically.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out struct {
		RefreshToken struct {
			AccessToken string `json:"accessToken"`
		} `json:"refreshToken"`
	}
	vars := map[string]any{"refreshToken": refreshToken}
	if err := s.client.Do(ctx, refreshTokenMutation, vars, &out); err != nil {
		return "", err
	}
	return out.RefreshToken.AccessToken, nil
}
