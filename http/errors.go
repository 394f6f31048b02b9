package http

import "errors"

var (
	ErrMalformedFraming     = errors.New("http: request delimiter not found")
	ErrHeaderTooLarge       = errors.New("http: request header too large")
	ErrMalformedRequestLine = errors.New("http: malformed request line")
	ErrMethodNotAllowed     = errors.New("http: method not allowed")
	ErrInvalidPath          = errors.New("http: invalid request path")
	ErrInvalidContentLength = errors.New("http: invalid content-length")
	ErrBodyTooLarge         = errors.New("http: request body too large")
	ErrAssetNotFound        = errors.New("http: static asset not found")

	ErrResponseSent      = errors.New("http: response already sent")
	ErrResponseAbandoned = errors.New("http: response abandoned by handler")
	ErrRouterFrozen      = errors.New("http: router is frozen")
	ErrServerClosed      = errors.New("http: server closed")
	ErrPoolFull          = errors.New("http: worker pool queue is full")
	ErrPoolClosed        = errors.New("http: worker pool is closed")
)

// statusForError maps a request error onto the status sent to the client.
// ok is false for failures that abandon the connection without a response.
func statusForError(err error) (status uint16, ok bool) {
	switch {
	case errors.Is(err, ErrMalformedFraming), errors.Is(err, ErrInvalidPath), errors.Is(err, ErrAssetNotFound):
		return StatusNotFound, true
	case errors.Is(err, ErrMethodNotAllowed):
		return StatusMethodNotAllowed, true
	case errors.Is(err, ErrMalformedRequestLine), errors.Is(err, ErrInvalidContentLength):
		return StatusBadRequest, true
	case errors.Is(err, ErrBodyTooLarge):
		return StatusRequestEntityTooLarge, true
	case errors.Is(err, ErrHeaderTooLarge):
		return StatusRequestHeaderFieldsTooLarge, true
	}
	return 0, false
}
