package http

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/freekieb7/rawhttp/test"
)

type trackingReadCloser struct {
	io.Reader
	closed bool
}

func (rc *trackingReadCloser) Close() error {
	rc.closed = true
	return nil
}

func sendToString(t *testing.T, res *Response) string {
	t.Helper()

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	if err := res.Send(bw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return buf.String()
}

func TestResponseSendText(t *testing.T) {
	res := NewResponse().WithStatus(StatusCreated).WithText("hello, world!")

	got := sendToString(t, res)
	test.Equal(t, ""+
		"HTTP/1.1 201 Created\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"Content-Length: 13\r\n"+
		"Connection: close\r\n"+
		"\r\n"+
		"hello, world!", got)
}

func TestResponseSendEmptyError(t *testing.T) {
	for status, line := range map[uint16]string{
		StatusNotFound:         "HTTP/1.1 404 Not Found\r\n",
		StatusMethodNotAllowed: "HTTP/1.1 405 Method Not Allowed\r\n",
	} {
		got := sendToString(t, NewResponse().WithStatus(status))
		test.Equal(t, line+"Content-Length: 0\r\nConnection: close\r\n\r\n", got)
	}
}

func TestResponseManagedHeadersIgnored(t *testing.T) {
	res := NewResponse().
		WithHeader("content-length", "999").
		WithHeader("Connection", "keep-alive").
		WithHeader("X-Test", "foo").
		WithText("abc")

	got := sendToString(t, res)
	test.Contains(t, got, "X-Test: foo\r\n")
	test.Contains(t, got, "Content-Length: 3\r\n")
	test.Contains(t, got, "Connection: close\r\n")
	if strings.Contains(got, "999") || strings.Contains(got, "keep-alive") {
		t.Errorf("managed headers leaked into response: %q", got)
	}
}

func TestResponseSendStream(t *testing.T) {
	stream := &trackingReadCloser{Reader: strings.NewReader("0123456789")}
	res := NewResponse().WithStream("text/css", stream, 10)

	got := sendToString(t, res)
	test.Contains(t, got, "Content-Type: text/css\r\n")
	test.Contains(t, got, "Content-Length: 10\r\n")
	if !strings.HasSuffix(got, "\r\n\r\n0123456789") {
		t.Errorf("missing or incorrect body: got %q", got)
	}
	test.Equal(t, true, stream.closed)
}

func TestResponseSendShortStream(t *testing.T) {
	stream := &trackingReadCloser{Reader: strings.NewReader("012")}
	res := NewResponse().WithStream("text/css", stream, 10)

	bw := bufio.NewWriter(io.Discard)
	if err := res.Send(bw); err == nil {
		t.Error("expected error for short stream")
	}
	test.Equal(t, true, stream.closed)
}

func TestResponseSendOnce(t *testing.T) {
	res := NewResponse().WithText("once")
	bw := bufio.NewWriter(io.Discard)

	test.NoError(t, res.Send(bw))
	test.ErrorIs(t, res.Send(bw), ErrResponseSent)
}

func TestResponseReleaseClosesUnsentStream(t *testing.T) {
	first := &trackingReadCloser{Reader: strings.NewReader("a")}
	second := &trackingReadCloser{Reader: strings.NewReader("b")}

	res := NewResponse().WithStream("text/plain", first, 1)
	res.WithStream("text/plain", second, 1)
	test.Equal(t, true, first.closed)

	res.release()
	test.Equal(t, true, second.closed)
}
