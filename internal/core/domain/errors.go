package domain

import "errors"

var (
	// ErrInvalidCredentials covers a rejected login or a malformed
	// registration payload.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned when the backend knows no such user.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrSessionExpired is the typed signal a transport raises when the
	// backend rejects the stored credentials. It is fatal for the session:
	// the coordinator clears both the in-memory and the durable state.
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthenticated is returned for requests that require a valid
	// bearer token but carried none, or a revoked one.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrLoginSuperseded is returned when a login response arrives after a
	// logout (or another auth reset) already invalidated its generation.
	// The late response is discarded instead of repopulating the session.
	ErrLoginSuperseded = errors.New("login superseded by a newer session change")
)
