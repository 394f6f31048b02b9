package http

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

type Request struct {
	Method   string
	Path     string
	RawQuery string
	Protocol string
	Headers  Headers
	Body     []byte

	Query Params
	Form  Params

	RemoteAddr string
	ConnID     string

	ctx context.Context
}

func (req *Request) Context() context.Context {
	if req.ctx != nil {
		return req.ctx
	}
	return context.Background()
}

// ParseRequestLine splits "METHOD TARGET VERSION" on single spaces.
func ParseRequestLine(line string) (method, target, protocol string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	return parts[0], parts[1], parts[2], nil
}

// splitTarget separates the path from the query string at the first '?'
// and percent-decodes the path.
func splitTarget(target string) (path, rawQuery string, err error) {
	path, rawQuery, _ = strings.Cut(target, "?")
	if !strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	decoded, err := url.PathUnescape(path)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return decoded, rawQuery, nil
}

// head is the framed and validated part of a request that precedes the body.
type head struct {
	req           *Request
	bodyStart     int
	contentLength int64
}

// parseHead frames and parses buf[:n]. contentLength is -1 when the request
// carries no body to read.
func parseHead(buf []byte, n int, maxBody int64) (head, error) {
	lineEnd := IndexOf(buf, crlf, 0, n)
	if lineEnd == -1 {
		return head{}, fmt.Errorf("%w: request line", ErrMalformedFraming)
	}

	// Searching from lineEnd lets a request without header fields share the
	// request line terminator.
	headerEnd := IndexOf(buf, crlfcrlf, lineEnd, n)
	if headerEnd == -1 {
		return head{}, fmt.Errorf("%w: header block", ErrMalformedFraming)
	}

	method, target, protocol, err := ParseRequestLine(string(buf[:lineEnd]))
	if err != nil {
		return head{}, err
	}
	if !slices.Contains(allowedMethods, method) {
		return head{}, fmt.Errorf("%w: %s", ErrMethodNotAllowed, method)
	}
	path, rawQuery, err := splitTarget(target)
	if err != nil {
		return head{}, err
	}

	var lines []string
	if headersStart := lineEnd + len(crlf); headerEnd > headersStart {
		lines = strings.Split(string(buf[headersStart:headerEnd]), "\r\n")
	}

	h := head{
		req: &Request{
			Method:   method,
			Path:     path,
			RawQuery: rawQuery,
			Protocol: protocol,
			Headers:  parseHeaderLines(lines),
			Body:     []byte{},
		},
		bodyStart:     headerEnd + len(crlfcrlf),
		contentLength: -1,
	}

	if method != MethodGet {
		length, found, err := extractContentLength(lines)
		if err != nil {
			return head{}, err
		}
		if found {
			if length > maxBody {
				return head{}, fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, length)
			}
			h.contentLength = length
		}
	}

	return h, nil
}

// extractContentLength scans raw header lines for Content-Length fields,
// matching the name case-insensitively. Repeated fields must agree.
func extractContentLength(lines []string) (int64, bool, error) {
	var length int64
	found := false
	for _, line := range lines {
		if len(line) < len(contentLengthPrefix) || !strings.EqualFold(line[:len(contentLengthPrefix)], contentLengthPrefix) {
			continue
		}

		value := strings.TrimSpace(line[len(contentLengthPrefix):])
		n, err := atoi(value)
		if err != nil {
			return 0, true, fmt.Errorf("%w: %q", ErrInvalidContentLength, value)
		}
		if found && n != length {
			return 0, true, fmt.Errorf("%w: conflicting values %d and %d", ErrInvalidContentLength, length, n)
		}
		length, found = n, true
	}
	return length, found, nil
}

// decodeParams fills the query and, for form posts, the form parameters.
func (req *Request) decodeParams() {
	req.Query = ParseParams(req.RawQuery)

	if req.Method != MethodPost {
		return
	}
	if contentType, found := req.Headers.Get(headerContentType); found && contentType == ContentTypeForm {
		req.Form = ParseParams(string(req.Body))
	}
}
