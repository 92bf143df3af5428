// Package session holds the client's in-memory view of "who is logged in"
// and orchestrates the login, register, and logout flows against the backend.
package session

import (
	"sync"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

// Snapshot is an immutable view of the session at a single instant.
// IsAuthenticated is true if and only if User is present.
type Snapshot struct {
	User            *domain.User
	AccessToken     string
	IsAuthenticated bool
}

// Store is the process-wide reactive session state. It has no persistence of
// its own; durability belongs to the keystore. Mutations replace the state in
// one transition, so subscribers never observe a partially-cleared session.
type Store struct {
	mu          sync.Mutex
	user        *domain.User
	accessToken string

	subs    map[int]func(Snapshot)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(Snapshot))}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// IsAuthenticated reports whether a user is present.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneUser(s.user)
}

// AccessToken returns the in-memory access token mirror.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// SetUser replaces the current user. The authenticated flag is derived
// purely from whether u is present.
func (s *Store) SetUser(u *domain.User) {
	s.mu.Lock()
	s.user = cloneUser(u)
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// SetAccessToken replaces the in-memory access token.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// ClearAuth resets user, token, and the derived flag in one transition.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	snap, subs := s.snapshotLocked(), s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

// Subscribe registers fn to receive a snapshot after every state transition.
// The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:            cloneUser(s.user),
		AccessToken:     s.accessToken,
		IsAuthenticated: s.user != nil,
	}
}

func (s *Store) subscribersLocked() []func(Snapshot) {
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

// notify runs outside the store lock so subscribers may read the store.
func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
