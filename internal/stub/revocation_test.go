package stub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRevoker(t *testing.T) *Revoker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRevoker(client)
}

func TestRevoker_RevokeThenCheck(t *testing.T) {
	r := newTestRevoker(t)
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("fresh token reported revoked")
	}

	if err := r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = r.IsRevoked(ctx, "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Fatal("revoked token not reported revoked")
	}
}

func TestRevoker_ExpiredTokenNeedsNoEntry(t *testing.T) {
	r := newTestRevoker(t)
	ctx := context.Background()

	if err := r.Revoke(ctx, "jti-expired", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err := r.IsRevoked(ctx, "jti-expired")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Fatal("expired token should not get a revocation entry")
	}
}
