package domain

// TokenPair holds the opaque bearer credentials issued by the backend.
// The access token authorizes API calls; the refresh token is stored for a
// future exchange protocol that is not implemented client-side.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the backend's answer to a successful login or registration.
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Tokens returns the credential pair carried by the result.
func (r AuthResult) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}
