package handlers

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	nethttp "net/http"
	"testing"

	"github.com/freekieb7/rawhttp/http"
	"github.com/freekieb7/rawhttp/test"
)

func serve(t *testing.T, handler http.Handler, req *http.Request) (*nethttp.Response, string) {
	t.Helper()

	res := http.NewResponse()
	handler.ServeHTTP(req, res)

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := res.Send(bw); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	resp, err := nethttp.ReadResponse(bufio.NewReader(&buf), nil)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp, string(body)
}

func TestMessages(t *testing.T) {
	resp, body := serve(t, Messages(), &http.Request{
		Method: http.MethodGet,
		Path:   "/messages",
		Query:  http.ParseParams("id=5&user=Ivan"),
	})

	test.Equal(t, nethttp.StatusOK, resp.StatusCode)
	test.Equal(t, "text/html; charset=UTF-8", resp.Header.Get("Content-Type"))
	test.Contains(t, body, "User: Ivan")
	test.Contains(t, body, "ID: 5")
}

func TestMessagesDefaults(t *testing.T) {
	_, body := serve(t, Messages(), &http.Request{Method: http.MethodGet, Path: "/messages"})

	test.Contains(t, body, "User: guest")
	test.Contains(t, body, "ID: unknown")
}

func TestPostMessage(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	resp, body := serve(t, PostMessage(logger), &http.Request{
		Method: http.MethodPost,
		Path:   "/messages",
		Body:   []byte("hello"),
	})

	test.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	test.Equal(t, MessageReceived, body)
	test.Equal(t, int64(len(MessageReceived)), resp.ContentLength)
	test.Contains(t, logs.String(), "body=hello")
}

func TestFormPost(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	resp, body := serve(t, FormPost(logger), &http.Request{
		Method: http.MethodPost,
		Path:   "/",
		Form:   http.ParseParams("title=Hi&value=1&value=2"),
	})

	test.Equal(t, nethttp.StatusCreated, resp.StatusCode)
	test.Equal(t, "POST data received! Title: Hi", body)
	test.Contains(t, logs.String(), "values=\"[1 2]\"")
}

func TestRegister(t *testing.T) {
	router := http.NewRouter()
	Register(router, slog.Default())

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/messages"},
		{http.MethodPost, "/"},
		{http.MethodPost, "/messages"},
	} {
		if _, found := router.Lookup(route.method, route.path); !found {
			t.Errorf("route %s %s not registered", route.method, route.path)
		}
	}
}
