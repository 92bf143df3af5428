package domain

// Route identifies a navigable view in the client.
type Route string

const (
	RouteHome      Route = "/"
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/register"
	RouteDashboard Route = "/dashboard"
	RouteProfile   Route = "/profile"
	RouteNotFound  Route = "/404"
)

var protectedRoutes = map[Route]struct{}{
	RouteDashboard: {},
	RouteProfile:   {},
}

// Protected reports whether the route requires an authenticated session.
func (r Route) Protected() bool {
	_, ok := protectedRoutes[r]
	return ok
}
