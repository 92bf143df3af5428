// Package stub is the local development auth backend. It speaks the same
// REST and GraphQL surface the real backend does, with in-memory users and a
// redis-backed revocation list, so the client SDK and CLI have something to
// run against without external services.
package stub

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

// userRecord is a stored account. PasswordHash never leaves this package.
type userRecord struct {
	domain.User
	PasswordHash string
}

// UserStore is an in-memory account registry. Ephemeral on purpose: a dev
// fixture restarts clean.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*userRecord
	byID    map[string]*userRecord
}

func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]*userRecord),
		byID:    make(map[string]*userRecord),
	}
}

// SeedDemoUser registers the demo account the README points people at.
// Errors are impossible on an empty store short of a bcrypt failure.
func (s *UserStore) SeedDemoUser() (domain.User, error) {
	return s.Create("demo@example.com", "Demo User", "demo-password", domain.RoleAdmin)
}

// Create registers a new account with a bcrypt-hashed password.
func (s *UserStore) Create(email, name, password, role string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return domain.User{}, domain.ErrEmailTaken
	}

	now := time.Now().UTC()
	rec := &userRecord{
		User: domain.User{
			ID:        "user_" + uuid.NewString(),
			Email:     email,
			Name:      name,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: string(hash),
	}
	s.byEmail[email] = rec
	s.byID[rec.ID] = rec
	return rec.User, nil
}

// Authenticate checks the password for email and returns the account.
func (s *UserStore) Authenticate(email, password string) (domain.User, error) {
	s.mu.RLock()
	rec, ok := s.byEmail[email]
	s.mu.RUnlock()
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return rec.User, nil
}

// ByID returns the account for id.
func (s *UserStore) ByID(id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return rec.User, nil
}

// Update applies a partial profile update and returns the replacement record.
func (s *UserStore) Update(id string, update domain.UserUpdate) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if update.Name != nil {
		rec.Name = *update.Name
	}
	if update.Avatar != nil {
		rec.Avatar = *update.Avatar
	}
	rec.UpdatedAt = time.Now().UTC()
	return rec.User, nil
}

// List returns one page of accounts ordered by creation time.
func (s *UserStore) List(page, pageSize int) (domain.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	s.mu.RLock()
	all := make([]domain.User, 0, len(s.byID))
	for _, rec := range s.byID {
		all = append(all, rec.User)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	total := len(all)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.UserPage{
		Users: all[start:end],
		Meta: domain.PageMeta{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}
