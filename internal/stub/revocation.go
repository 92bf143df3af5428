package stub

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker tracks logged-out access tokens in Redis until they would have
// expired anyway. Key format: revoked:<jti>
type Revoker struct {
	client *redis.Client
}

// NewRevoker creates a Revoker wrapping the given Redis client.
func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

// Revoke marks the token with id jti as revoked until expiresAt. Tokens past
// their expiry need no entry: verification already rejects them.
func (r *Revoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token with id jti has been logged out.
func (r *Revoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *Revoker) key(jti string) string {
	return "revoked:" + jti
}
