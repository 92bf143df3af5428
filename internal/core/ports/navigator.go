package ports

import "github.com/tnlabs/auth-client-kit/internal/core/domain"

// Navigator performs view transitions for the hosting UI.
type Navigator interface {
	// Push navigates to route, keeping the current view in history.
	Push(route domain.Route)

	// Replace navigates to route without leaving the abandoned view in
	// history. Used for redirects the user should not be able to go back to.
	Replace(route domain.Route)
}

// AuthFailureListener receives the typed session-expiry signal raised by a
// transport. Exactly one coordinator owns the reaction (clearing credentials
// and navigating); transports never navigate themselves.
type AuthFailureListener interface {
	AuthFailure(reason error)
}
