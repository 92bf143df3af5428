package session

import (
	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
)

// Guard decides whether navigating to route may proceed. It is a pure
// function of the store's authenticated flag, evaluated on every navigation
// and never cached. An unauthenticated visit to a protected route is
// replace-navigated to the login view so the protected path leaves no
// history entry; the caller must not render the requested view when Guard
// returns false.
func Guard(store *Store, nav ports.Navigator, route domain.Route) bool {
	if route.Protected() && !store.IsAuthenticated() {
		nav.Replace(domain.RouteLogin)
		return false
	}
	return true
}
