package ports

import (
	"context"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

// AuthAPI is the backend surface used by the session manager. Both the REST
// and the GraphQL transports implement it.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthResult, error)
	Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.AuthResult, error)
	Logout(ctx context.Context) error

	// Refresh exchanges a refresh token for a new access token. The endpoint
	// exists on the backend but no automatic exchange is wired client-side.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
