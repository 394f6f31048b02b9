package http

import (
	"cmp"
	"slices"
	"sync/atomic"
)

// Router maps an exact (method, path) pair onto a handler. Routes are
// registered during startup; once frozen the table is read-only and
// lookups need no locking.
type Router struct {
	routes     map[routeKey]Handler
	middleware []Middleware
	frozen     atomic.Bool
}

func NewRouter() *Router {
	return &Router{
		routes: make(map[routeKey]Handler),
	}
}

// Use adds middleware applied to every route registered afterwards.
func (router *Router) Use(middleware ...Middleware) {
	router.middleware = append(router.middleware, middleware...)
}

func (router *Router) GET(path string, handler HandlerFunc, middleware ...Middleware) {
	router.Handle(MethodGet, path, handler, middleware...)
}

func (router *Router) POST(path string, handler HandlerFunc, middleware ...Middleware) {
	router.Handle(MethodPost, path, handler, middleware...)
}

// Handle registers handler for method and path, replacing any handler
// already bound to the same pair.
func (router *Router) Handle(method, path string, handler Handler, middleware ...Middleware) {
	if router.frozen.Load() {
		panic(ErrRouterFrozen)
	}

	for _, middleware := range middleware {
		handler = middleware(handler)
	}
	for _, middleware := range router.middleware {
		handler = middleware(handler)
	}

	router.routes[routeKey{method: method, path: path}] = handler
}

func (router *Router) Lookup(method, path string) (Handler, bool) {
	handler, found := router.routes[routeKey{method: method, path: path}]
	return handler, found
}

// Freeze makes the route table read-only. Handle panics afterwards.
func (router *Router) Freeze() {
	router.frozen.Store(true)
}

// Routes lists the registered routes ordered by path, then method.
func (router *Router) Routes() []Route {
	routes := make([]Route, 0, len(router.routes))
	for key, handler := range router.routes {
		routes = append(routes, Route{Method: key.method, Path: key.path, Handler: handler})
	}
	slices.SortFunc(routes, func(a, b Route) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return cmp.Compare(a.Method, b.Method)
	})
	return routes
}
