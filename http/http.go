package http

import "time"

const (
	DefaultMaxHeaderBytes  = 4096 // 4kB
	DefaultMaxBodyBytes    = 10 * 1024 * 1024
	DefaultWriteBufferSize = 4096 // 4kB
	DefaultWorkers         = 64
	DefaultConnTimeout     = 30 * time.Second

	rejectWriteTimeout  = 100 * time.Millisecond
	rejectLingerTimeout = 100 * time.Millisecond
	lingerTimeout       = 250 * time.Millisecond
	lingerMaxBytes      = 64 * 1024
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"

	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeText = "text/plain; charset=UTF-8"
	ContentTypeHTML = "text/html; charset=UTF-8"
)

var (
	allowedMethods = []string{MethodGet, MethodPost}

	protocolHttp11      = []byte("HTTP/1.1 ")
	crlf                = []byte("\r\n")
	crlfcrlf            = []byte("\r\n\r\n")
	contentLengthPrefix = "content-length:"

	headerContentLength = "Content-Length"
	headerContentType   = "Content-Type"
	headerConnection    = "Connection"
	connectionClose     = []byte("Connection: close\r\n")
)
