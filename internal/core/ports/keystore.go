package ports

import "github.com/tnlabs/auth-client-kit/internal/core/domain"

// Durable storage keys. These names are part of the on-disk contract; the
// Keystore interface is the only legal access path to them.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
	KeyTheme        = "theme"
)

// Keystore persists client state across process restarts. Implementations
// are synchronous and side-effecting: every read touches the durable store,
// there is no in-memory cache.
type Keystore interface {
	AccessToken() string
	SetAccessToken(token string) error
	RefreshToken() string
	SetRefreshToken(token string) error

	// User returns the cached user record. The second result is false when
	// no record is stored or the stored value fails to parse.
	User() (domain.User, bool)
	SetUser(u domain.User) error

	// ClearAuth removes exactly the access token, refresh token, and cached
	// user. Unrelated keys are left untouched.
	ClearAuth() error

	// Generic access for arbitrary keys.
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error

	// Clear wipes every stored key.
	Clear() error
}
