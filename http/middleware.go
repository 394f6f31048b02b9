package http

import (
	"log/slog"
	"time"
)

type Middleware func(next Handler) Handler

// RecoverMiddleware turns a handler panic into an abandoned response so the
// connection is closed without a half-written reply.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(req *Request, res *Response) {
			defer func() {
				if recovered := recover(); recovered != nil {
					logger.Error("handler panicked",
						"method", req.Method,
						"path", req.Path,
						"conn", req.ConnID,
						"panic", recovered,
					)
					res.Abandon()
				}
			}()

			next.ServeHTTP(req, res)
		})
	}
}

// LogMiddleware logs every routed request once its handler has returned.
func LogMiddleware(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(req *Request, res *Response) {
			start := time.Now()

			next.ServeHTTP(req, res)

			logger.InfoContext(req.Context(), "handled request",
				"method", req.Method,
				"path", req.Path,
				"status", res.Status,
				"conn", req.ConnID,
				"duration", time.Since(start),
			)
		})
	}
}
