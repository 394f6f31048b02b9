package http

import (
	"testing"

	"github.com/freekieb7/rawhttp/test"
)

func TestRouterLookup(t *testing.T) {
	router := NewRouter()

	var called string
	router.GET("/messages", func(req *Request, res *Response) { called = "get" })
	router.POST("/messages", func(req *Request, res *Response) { called = "post" })

	handler, found := router.Lookup(MethodGet, "/messages")
	if !found {
		t.Fatal("GET /messages not found")
	}
	handler.ServeHTTP(&Request{}, NewResponse())
	test.Equal(t, "get", called)

	handler, found = router.Lookup(MethodPost, "/messages")
	if !found {
		t.Fatal("POST /messages not found")
	}
	handler.ServeHTTP(&Request{}, NewResponse())
	test.Equal(t, "post", called)

	for _, miss := range []struct{ method, path string }{
		{MethodGet, "/messages/"},
		{MethodGet, "/Messages"},
		{MethodGet, "/"},
		{"PUT", "/messages"},
	} {
		if _, found := router.Lookup(miss.method, miss.path); found {
			t.Errorf("unexpected route for %s %s", miss.method, miss.path)
		}
	}
}

func TestRouterReRegisterReplaces(t *testing.T) {
	router := NewRouter()

	var called string
	router.GET("/", func(req *Request, res *Response) { called = "first" })
	router.GET("/", func(req *Request, res *Response) { called = "second" })

	handler, _ := router.Lookup(MethodGet, "/")
	handler.ServeHTTP(&Request{}, NewResponse())

	test.Equal(t, "second", called)
	test.Equal(t, 1, len(router.Routes()))
}

func TestRouterMiddlewareOrder(t *testing.T) {
	var trail []string
	mark := func(name string) Middleware {
		return func(next Handler) Handler {
			return HandlerFunc(func(req *Request, res *Response) {
				trail = append(trail, name)
				next.ServeHTTP(req, res)
			})
		}
	}

	router := NewRouter()
	router.Use(mark("router"))
	router.GET("/", func(req *Request, res *Response) { trail = append(trail, "handler") }, mark("route"))

	handler, _ := router.Lookup(MethodGet, "/")
	handler.ServeHTTP(&Request{}, NewResponse())

	test.EqualSlice(t, []string{"router", "route", "handler"}, trail)
}

func TestRouterFrozen(t *testing.T) {
	router := NewRouter()
	router.GET("/", func(req *Request, res *Response) {})
	router.Freeze()

	defer func() {
		recovered := recover()
		if recovered != ErrRouterFrozen {
			t.Errorf("expected ErrRouterFrozen panic, got %v", recovered)
		}
	}()

	router.POST("/", func(req *Request, res *Response) {})
}

func TestRouterRoutesSorted(t *testing.T) {
	router := NewRouter()
	noop := func(req *Request, res *Response) {}
	router.POST("/messages", noop)
	router.GET("/messages", noop)
	router.POST("/", noop)

	routes := router.Routes()
	test.Equal(t, 3, len(routes))
	test.Equal(t, "/", routes[0].Path)
	test.Equal(t, MethodGet, routes[1].Method)
	test.Equal(t, MethodPost, routes[2].Method)
}
