package graphql

import (
	"context"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// UserService runs the profile and directory queries over GraphQL.
type UserService struct {
	client *Client
}

var _ ports.UserDirectory = (*UserService)(nil)

func NewUserService(client *Client) *UserService {
	return &UserService{client: client}
}

func (s *UserService) Me(ctx context.Context) (domain.User, error) {
	var out struct {
		Me domain.User `json:"me"`
	}
	if err := s.client.Do(ctx, meQuery, nil, &out); err != nil {
		return domain.User{}, err
	}
	return out.Me, nil
}

func (s *UserService) User(ctx context.Context, id string) (domain.User, error) {
	var out struct {
		User domain.User `json:"user"`
	}
	if err := s.client.Do(ctx, userQuery, map[string]any{"id": id}, &out); err != nil {
		return domain.User{}, err
	}
	return out.User, nil
}

func (s *UserService) Users(ctx context.Context, page, pageSize int) (domain.UserPage, error) {
	var out struct {
		Users domain.UserPage `json:"users"`
	}
	vars := map[string]any{"page": page, "pageSize": pageSize}
	if err := s.client.Do(ctx, usersQuery, vars, &out); err != nil {
		return domain.UserPage{}, err
	}
	return out.Users, nil
}
