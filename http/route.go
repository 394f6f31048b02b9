package http

type Route struct {
	Method  string
	Path    string
	Handler Handler
}

type routeKey struct {
	method string
	path   string
}
