package tui

import "strings"

// Route names a screen.
type Route string

const (
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/register"
	RouteDashboard Route = "/dashboard"
)

// Resolve maps a path to a route. Anything unknown lands on the dashboard.
func Resolve(path string) Route {
	p := strings.TrimSpace(path)
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(strings.ToLower(p), "/")
	switch Route(p) {
	case RouteLogin, RouteRegister, RouteDashboard:
		return Route(p)
	}
	return RouteDashboard
}

// Guard sends the dashboard to login when there is no token. Login and
// register stay reachable either way.
func Guard(r Route, hasToken bool) Route {
	if r == RouteDashboard && !hasToken {
		return RouteLogin
	}
	return r
}
