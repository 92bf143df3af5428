package session

import (
	"testing"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

func TestStore_SetUserDerivesFlag(t *testing.T) {
	s := NewStore()

	if s.IsAuthenticated() {
		t.Fatalf("fresh store reports authenticated")
	}

	s.SetUser(&domain.User{ID: "u1", Email: "a@example.com"})
	if !s.IsAuthenticated() {
		t.Fatalf("store not authenticated after SetUser")
	}

	s.SetUser(nil)
	if s.IsAuthenticated() {
		t.Fatalf("store still authenticated after SetUser(nil)")
	}
}

func TestStore_UserIsCopied(t *testing.T) {
	s := NewStore()
	u := &domain.User{ID: "u1", Name: "Alice"}
	s.SetUser(u)

	u.Name = "mutated"
	if got := s.User(); got.Name != "Alice" {
		t.Errorf("store user mutated through caller's pointer: %q", got.Name)
	}

	got := s.User()
	got.Name = "also mutated"
	if s.User().Name != "Alice" {
		t.Errorf("store user mutated through returned pointer")
	}
}

func TestStore_ClearAuthIsAtomic(t *testing.T) {
	s := NewStore()
	s.SetUser(&domain.User{ID: "u1"})
	s.SetAccessToken("tok")

	var seen []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap)
	})
	defer cancel()

	s.ClearAuth()

	if len(seen) != 1 {
		t.Fatalf("expected exactly one notification for ClearAuth, got %d", len(seen))
	}
	snap := seen[0]
	if snap.User != nil || snap.AccessToken != "" || snap.IsAuthenticated {
		t.Errorf("observer saw a partially cleared session: %+v", snap)
	}
}

func TestStore_ClearAuthIdempotent(t *testing.T) {
	s := NewStore()
	s.SetUser(&domain.User{ID: "u1"})
	s.SetAccessToken("tok")

	s.ClearAuth()
	first := s.Snapshot()
	s.ClearAuth()
	second := s.Snapshot()

	if first != second {
		t.Errorf("second ClearAuth changed state: %+v vs %+v", first, second)
	}
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := NewStore()

	count := 0
	cancel := s.Subscribe(func(Snapshot) { count++ })

	s.SetAccessToken("a")
	if count != 1 {
		t.Fatalf("subscriber not notified, count=%d", count)
	}

	cancel()
	s.SetAccessToken("b")
	if count != 1 {
		t.Fatalf("cancelled subscriber still notified, count=%d", count)
	}
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := NewStore()

	var flag bool
	cancel := s.Subscribe(func(Snapshot) {
		flag = s.IsAuthenticated() // must not deadlock
	})
	defer cancel()

	s.SetUser(&domain.User{ID: "u1"})
	if !flag {
		t.Errorf("subscriber read a stale authenticated flag")
	}
}
