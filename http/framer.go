package http

import (
	"bytes"
	"errors"
	"io"
)

// IndexOf returns the offset of the first occurrence of pattern within
// buf[from:to], or -1 when the window does not contain it.
func IndexOf(buf, pattern []byte, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(buf) {
		to = len(buf)
	}
	if len(pattern) == 0 || to-from < len(pattern) {
		return -1
	}

	i := bytes.Index(buf[from:to], pattern)
	if i < 0 {
		return -1
	}
	return from + i
}

// readHead reads from r into buf until the header terminator has been
// buffered. It returns the number of bytes read, which may include the
// beginning of the body.
//
// io.EOF is returned when the peer stops sending before the terminator,
// ErrHeaderTooLarge when buf fills up first.
func readHead(r io.Reader, buf []byte) (int, error) {
	var n int
	for {
		m, err := r.Read(buf[n:])
		from := n - (len(crlfcrlf) - 1)
		n += m

		if IndexOf(buf, crlfcrlf, from, n) >= 0 {
			return n, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, io.EOF
			}
			return n, err
		}
		if n == len(buf) {
			return n, ErrHeaderTooLarge
		}
	}
}
