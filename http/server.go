package http

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/netutil"
)

type Config struct {
	// Workers is the number of connections served in parallel.
	Workers int
	// QueueSize bounds the accepted connections waiting for a worker.
	// Connections beyond it are answered with 503.
	QueueSize int
	// MaxHeaderBytes bounds the request line plus header block.
	MaxHeaderBytes int
	MaxBodyBytes   int64
	// ConnTimeout is the deadline from accept to close. Zero disables it.
	ConnTimeout time.Duration
	// MaxConns caps simultaneously open connections at the listener.
	// Zero means no cap.
	MaxConns int
}

func DefaultConfig() Config {
	return Config{
		Workers:        DefaultWorkers,
		QueueSize:      DefaultWorkers,
		MaxHeaderBytes: DefaultMaxHeaderBytes,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		ConnTimeout:    DefaultConnTimeout,
	}
}

func (cfg Config) Validate() error {
	var errs []error
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("http: workers must be at least 1, got %d", cfg.Workers))
	}
	if cfg.QueueSize < 0 {
		errs = append(errs, fmt.Errorf("http: queue size must not be negative, got %d", cfg.QueueSize))
	}
	if cfg.MaxHeaderBytes < len(crlfcrlf) {
		errs = append(errs, fmt.Errorf("http: max header bytes must be at least %d, got %d", len(crlfcrlf), cfg.MaxHeaderBytes))
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("http: max body bytes must not be negative, got %d", cfg.MaxBodyBytes))
	}
	if cfg.ConnTimeout < 0 {
		errs = append(errs, fmt.Errorf("http: connection timeout must not be negative, got %s", cfg.ConnTimeout))
	}
	if cfg.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("http: max connections must not be negative, got %d", cfg.MaxConns))
	}
	return errors.Join(errs...)
}

type Server struct {
	Name   string
	Config Config
	Router *Router
	Static *StaticResolver
	Logger *slog.Logger

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	metrics        serverMetrics

	mu        sync.Mutex
	listeners map[net.Listener]struct{}
	closing   bool
	active    sync.WaitGroup
}

type ServerOption func(*Server)

func WithRouter(router *Router) ServerOption {
	return func(s *Server) {
		s.Router = router
	}
}

// WithStatic enables the static fallback for requests no route matches.
func WithStatic(static *StaticResolver) ServerOption {
	return func(s *Server) {
		s.Static = static
	}
}

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

func WithMeterProvider(provider metric.MeterProvider) ServerOption {
	return func(s *Server) {
		s.meterProvider = provider
	}
}

func WithTracerProvider(provider trace.TracerProvider) ServerOption {
	return func(s *Server) {
		s.tracerProvider = provider
	}
}

func NewServer(name string, cfg Config, opts ...ServerOption) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		Name:           name,
		Config:         cfg,
		Router:         NewRouter(),
		Logger:         slog.Default(),
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
		listeners:      make(map[net.Listener]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tracer = s.tracerProvider.Tracer(instrumentationName)

	metrics, err := newServerMetrics(s.meterProvider.Meter(instrumentationName))
	if err != nil {
		return nil, fmt.Errorf("http: create metrics: %w", err)
	}
	s.metrics = metrics

	return s, nil
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener and hands each one to the worker
// pool. It returns ErrServerClosed after Shutdown, once every accepted
// connection has been served.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.Config.MaxConns > 0 {
		listener = netutil.LimitListener(listener, s.Config.MaxConns)
	}
	if !s.trackListener(listener) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.active.Done()
	defer s.untrackListener(listener)

	s.Router.Freeze()

	pool := NewWorkerPool(s.Config.Workers, s.Config.QueueSize, func(conn net.Conn) {
		s.ServeConn(ctx, conn)
	})
	pool.Start()
	defer pool.Stop()

	var tempDelay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay = min(2*tempDelay, time.Second)
			}
			s.Logger.Error("accepting connection failed", "error", err, "retry_in", tempDelay)
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0

		if err := pool.Submit(conn); err != nil {
			s.reject(ctx, conn, err)
		}
	}
}

// Shutdown closes the listeners and waits for in-flight connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	var errs []error
	for listener := range s.listeners {
		if err := listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		return errors.Join(errs...)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) trackListener(listener net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.listeners[listener] = struct{}{}
	s.active.Add(1)
	return true
}

func (s *Server) untrackListener(listener net.Listener) {
	s.mu.Lock()
	delete(s.listeners, listener)
	s.mu.Unlock()
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// reject answers 503 on the acceptor goroutine, bounded by a short write
// deadline. The lingering close runs on its own goroutine so the acceptor
// never waits on the client.
func (s *Server) reject(ctx context.Context, conn net.Conn, reason error) {
	s.metrics.rejected.Add(ctx, 1)
	s.Logger.WarnContext(ctx, "connection rejected", "remote", conn.RemoteAddr().String(), "error", reason)

	conn.SetWriteDeadline(time.Now().Add(rejectWriteTimeout))
	bw := bufio.NewWriterSize(conn, 128)
	if err := NewResponse().WithStatus(StatusServiceUnavailable).Send(bw); err != nil {
		s.Logger.DebugContext(ctx, "writing rejection failed", "error", err)
	}

	s.active.Add(1)
	go func() {
		defer s.active.Done()
		lingerClose(conn, rejectLingerTimeout)
	}()
}

// ServeConn runs one request/response cycle on conn and closes it.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()

	if s.Config.ConnTimeout > 0 {
		deadline := start.Add(s.Config.ConnTimeout)
		conn.SetDeadline(deadline)

		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, deadline)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "rawhttp.conn",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("rawhttp.conn.id", connID),
			attribute.String("network.peer.address", remote),
		),
	)
	defer span.End()

	logger := s.Logger.With("conn", connID, "remote", remote)
	s.metrics.connections.Add(ctx, 1)

	status, err := s.serveConn(ctx, conn, connID, logger)

	if closeErr := lingerClose(conn, lingerTimeout); closeErr != nil {
		logger.DebugContext(ctx, "closing connection failed", "error", closeErr)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", int(status)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "connection abandoned", "error", err)
	}
	s.metrics.recordConn(ctx, status, time.Since(start))
}

// serveConn reads, parses and dispatches a single request. It returns the
// status that was sent, or 0 when the connection is abandoned without one.
func (s *Server) serveConn(ctx context.Context, conn net.Conn, connID string, logger *slog.Logger) (uint16, error) {
	bw := bufio.NewWriterSize(conn, DefaultWriteBufferSize)
	buf := make([]byte, s.Config.MaxHeaderBytes)

	n, err := readHead(conn, buf)
	switch {
	case errors.Is(err, ErrHeaderTooLarge):
		return s.sendError(ctx, bw, logger, err)
	case err != nil && !errors.Is(err, io.EOF):
		return 0, fmt.Errorf("http: read request head: %w", err)
	}

	h, err := parseHead(buf, n, s.Config.MaxBodyBytes)
	if err != nil {
		return s.sendError(ctx, bw, logger, err)
	}

	req := h.req
	req.RemoteAddr = conn.RemoteAddr().String()
	req.ConnID = connID
	req.ctx = ctx

	if h.contentLength > 0 {
		body := make([]byte, h.contentLength)
		buffered := copy(body, buf[h.bodyStart:n])
		if _, err := io.ReadFull(conn, body[buffered:]); err != nil {
			return 0, fmt.Errorf("http: read request body: %w", err)
		}
		req.Body = body
	}
	req.decodeParams()

	logger.DebugContext(ctx, "request parsed",
		"method", req.Method,
		"path", req.Path,
		"query", req.RawQuery,
		"headers", req.Headers,
		"body_bytes", len(req.Body),
	)

	return s.dispatch(ctx, bw, req, logger)
}

func (s *Server) dispatch(ctx context.Context, bw *bufio.Writer, req *Request, logger *slog.Logger) (uint16, error) {
	res := NewResponse()
	defer res.release()

	if handler, found := s.Router.Lookup(req.Method, req.Path); found {
		RecoverMiddleware(logger)(handler).ServeHTTP(req, res)
		if res.Abandoned() {
			return 0, ErrResponseAbandoned
		}
		return send(bw, res)
	}

	if s.Static == nil || !s.Static.Allowed(req.Path) {
		return s.sendError(ctx, bw, logger, fmt.Errorf("%w: %s", ErrAssetNotFound, req.Path))
	}
	if err := s.Static.Serve(res, req.Path); err != nil {
		return 0, err
	}
	return send(bw, res)
}

// sendError answers err with its status and an empty body.
func (s *Server) sendError(ctx context.Context, bw *bufio.Writer, logger *slog.Logger, err error) (uint16, error) {
	status, ok := statusForError(err)
	if !ok {
		return 0, err
	}

	logger.DebugContext(ctx, "request rejected", "status", status, "reason", err)
	return send(bw, NewResponse().WithStatus(status))
}

type closeWriter interface {
	CloseWrite() error
}

// lingerClose half-closes TCP connections and drains what the client still
// sends, so unread request bytes do not turn the close into a reset that
// discards the response.
func lingerClose(conn net.Conn, timeout time.Duration) error {
	if cw, ok := conn.(closeWriter); ok {
		if err := cw.CloseWrite(); err == nil {
			conn.SetReadDeadline(time.Now().Add(timeout))
			io.CopyN(io.Discard, conn, lingerMaxBytes)
		}
	}
	return conn.Close()
}

func send(bw *bufio.Writer, res *Response) (uint16, error) {
	if err := res.Send(bw); err != nil {
		return 0, fmt.Errorf("http: write response: %w", err)
	}
	return res.Status, nil
}
