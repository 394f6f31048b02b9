package http

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/freekieb7/rawhttp/test"
)

func TestRecoverMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handler := RecoverMiddleware(logger)(HandlerFunc(func(req *Request, res *Response) {
		res.WithText("partial")
		panic("boom")
	}))

	res := NewResponse()
	handler.ServeHTTP(&Request{Method: MethodGet, Path: "/panic"}, res)

	test.Equal(t, true, res.Abandoned())
	test.Contains(t, logs.String(), "handler panicked")
	test.Contains(t, logs.String(), "panic=boom")
}

func TestLogMiddleware(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	handler := LogMiddleware(logger)(HandlerFunc(func(req *Request, res *Response) {
		res.WithStatus(StatusCreated)
	}))
	handler.ServeHTTP(&Request{Method: MethodPost, Path: "/messages"}, NewResponse())

	test.Contains(t, logs.String(), "handled request")
	test.Contains(t, logs.String(), "path=/messages")
	test.Contains(t, logs.String(), "status=201")
}
