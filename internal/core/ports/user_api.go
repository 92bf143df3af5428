package ports

import (
	"context"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

// UserAPI reads and updates the authenticated user's own profile.
type UserAPI interface {
	Me(ctx context.Context) (domain.User, error)
	UpdateMe(ctx context.Context, update domain.UserUpdate) (domain.User, error)
}

// UserDirectory reads profiles and looks up other users. Only the GraphQL
// transport offers it.
type UserDirectory interface {
	Me(ctx context.Context) (domain.User, error)
	User(ctx context.Context, id string) (domain.User, error)
	Users(ctx context.Context, page, pageSize int) (domain.UserPage, error)
}
