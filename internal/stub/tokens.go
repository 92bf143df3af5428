package stub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Issuer mints and verifies the HS256 token pairs the stub backend hands out.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair mints a fresh access/refresh token pair for user.
func (i *Issuer) IssuePair(user domain.User) (domain.TokenPair, error) {
	access, err := i.sign(user, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(user, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a signed token, returning its claims.
func (i *Issuer) Verify(raw string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
