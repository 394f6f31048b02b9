package http

import (
	"testing"

	"github.com/freekieb7/rawhttp/test"
)

func TestHeaders(t *testing.T) {
	var headers Headers

	headers.Set("Content-Type", "text/plain")
	headers.Set("X-Test", "foo")
	headers.Set("content-type", "text/html")

	test.Equal(t, 2, len(headers))
	test.Equal(t, "content-type", headers[0].Name)

	v, found := headers.Get("CONTENT-TYPE")
	test.Equal(t, true, found)
	test.Equal(t, "text/html", v)

	_, found = headers.Get("X-Missing")
	test.Equal(t, false, found)
}

func TestParseHeaderLines(t *testing.T) {
	headers := parseHeaderLines([]string{
		"Host:  localhost:9999 ",
		"X-Empty:",
		"garbage",
		"X-Colon: a:b",
	})

	test.EqualSlice(t, Headers{
		{Name: "Host", Value: "localhost:9999"},
		{Name: "X-Empty", Value: ""},
		{Name: "X-Colon", Value: "a:b"},
	}, headers)
}
