// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package http

const (
	StatusOK      uint16 = 200 // RFC 7231, 6.3.1
	StatusCreated uint16 = 201 // RFC 7231, 6.3.2

	StatusBadRequest                  uint16 = 400 // RFC 7231, 6.5.1
	StatusNotFound                    uint16 = 404 // RFC 7231, 6.5.4
	StatusMethodNotAllowed            uint16 = 405 // RFC 7231, 6.5.5
	StatusRequestEntityTooLarge       uint16 = 413 // RFC 7231, 6.5.11
	StatusRequestHeaderFieldsTooLarge uint16 = 431 // RFC 6585, 5

	StatusServiceUnavailable uint16 = 503 // RFC 7231, 6.6.4
)

var (
	unknownStatusCode = "Unknown Status Code"

	statusMessages = map[uint16]string{
		StatusOK:      "OK",
		StatusCreated: "Created",

		StatusBadRequest:                  "Bad Request",
		StatusNotFound:                    "Not Found",
		StatusMethodNotAllowed:            "Method Not Allowed",
		StatusRequestEntityTooLarge:       "Request Entity Too Large",
		StatusRequestHeaderFieldsTooLarge: "Request Header Fields Too Large",

		StatusServiceUnavailable: "Service Unavailable",
	}
)

// StatusText returns the reason phrase for code.
func StatusText(code uint16) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return unknownStatusCode
}
