package rest

import (
	"context"
	"net/http"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// UserService calls the backend's REST profile endpoints.
type UserService struct {
	client *Client
}

var _ ports.UserAPI = (*UserService)(nil)

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

// Me fetches the authenticated user's profile.
func (s *UserService) Me(ctx context.Context) (domain.User, error) {
	var out domain.User
	if err := s.client.do(ctx, http.MethodGet, endpointMe, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}

// UpdateMe patches the profile and returns the replacement record.
func (s *UserService) UpdateMe(ctx context.Context, update domain.UserUpdate) (domain.User, error) {
	if err := domain.Validate(update); err != nil {
		return domain.User{}, err
	}
	var out domain.User
	if err := s.client.do(ctx, http.MethodPatch, endpointMe, update, &out); err != nil {
		return domain.User{}, err
	}
	return out, nil
}
