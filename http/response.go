package http

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Response collects what a handler wants to send. The server writes it
// exactly once after the handler returns, header before body, always with
// an exact Content-Length and Connection: close.
type Response struct {
	Status  uint16
	Headers Headers
	Body    []byte

	stream     io.ReadCloser
	streamSize int64

	sent      bool
	abandoned bool
}

func NewResponse() *Response {
	return &Response{
		Status: StatusOK,
	}
}

func (res *Response) WithStatus(status uint16) *Response {
	res.Status = status
	return res
}

func (res *Response) WithHeader(name, value string) *Response {
	res.Headers.Set(name, value)
	return res
}

func (res *Response) WithBody(contentType string, body []byte) *Response {
	res.closeStream()
	res.Headers.Set(headerContentType, contentType)
	res.Body = body
	return res
}

func (res *Response) WithText(payload string) *Response {
	return res.WithBody(ContentTypeText, []byte(payload))
}

func (res *Response) WithHTML(payload string) *Response {
	return res.WithBody(ContentTypeHTML, []byte(payload))
}

// WithStream sends size bytes read from body. The stream is closed once the
// response has been sent or released.
func (res *Response) WithStream(contentType string, body io.ReadCloser, size int64) *Response {
	res.closeStream()
	res.Headers.Set(headerContentType, contentType)
	res.Body = nil
	res.stream = body
	res.streamSize = size
	return res
}

// Abandon tells the server to close the connection without sending anything.
func (res *Response) Abandon() {
	res.abandoned = true
}

func (res *Response) Abandoned() bool {
	return res.abandoned
}

func (res *Response) ContentLength() int64 {
	if res.stream != nil {
		return res.streamSize
	}
	return int64(len(res.Body))
}

// Send writes the status line, headers and body to bw and flushes it.
func (res *Response) Send(bw *bufio.Writer) error {
	if res.sent {
		return ErrResponseSent
	}
	res.sent = true
	defer res.closeStream()

	bw.Write(protocolHttp11)
	bw.WriteString(strconv.Itoa(int(res.Status)))
	bw.WriteByte(' ')
	bw.WriteString(StatusText(res.Status))
	bw.Write(crlf)

	for _, header := range res.Headers {
		if isManagedHeader(header.Name) {
			continue
		}
		bw.WriteString(header.Name)
		bw.WriteString(": ")
		bw.WriteString(header.Value)
		bw.Write(crlf)
	}

	bw.WriteString(headerContentLength)
	bw.WriteString(": ")
	bw.WriteString(strconv.FormatInt(res.ContentLength(), 10))
	bw.Write(crlf)
	bw.Write(connectionClose)
	bw.Write(crlf)

	if res.stream != nil {
		if _, err := io.CopyN(bw, res.stream, res.streamSize); err != nil {
			return fmt.Errorf("http: stream body: %w", err)
		}
	} else if _, err := bw.Write(res.Body); err != nil {
		return err
	}

	return bw.Flush()
}

// release frees the body stream of a response that was never sent.
func (res *Response) release() {
	res.closeStream()
}

func (res *Response) closeStream() {
	if res.stream == nil {
		return
	}
	res.stream.Close()
	res.stream = nil
}

func isManagedHeader(name string) bool {
	return strings.EqualFold(name, headerContentLength) || strings.EqualFold(name, headerConnection)
}
