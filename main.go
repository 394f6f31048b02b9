package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/freekieb7/rawhttp/filesystem"
	"github.com/freekieb7/rawhttp/handlers"
	"github.com/freekieb7/rawhttp/http"
	"github.com/freekieb7/rawhttp/telemetry"
)

const name = "rawhttp"

type options struct {
	host         string
	port         int
	public       string
	logLevel     string
	otlpEndpoint string
	otlpInsecure bool
	shutdownWait time.Duration
	server       http.Config
}

func parseFlags(args []string) (options, error) {
	opts := options{server: http.DefaultConfig()}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.host, "host", "0.0.0.0", "interface to listen on")
	fs.IntVar(&opts.port, "port", 9999, "port to listen on")
	fs.StringVar(&opts.public, "public", "public", "directory holding the static assets")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP gRPC collector address, empty disables export")
	fs.BoolVar(&opts.otlpInsecure, "otlp-insecure", false, "connect to the collector without TLS")
	fs.DurationVar(&opts.shutdownWait, "shutdown-timeout", 10*time.Second, "time allowed for in-flight connections on shutdown")
	fs.IntVar(&opts.server.Workers, "workers", opts.server.Workers, "connections served in parallel")
	fs.IntVar(&opts.server.QueueSize, "queue", opts.server.QueueSize, "accepted connections waiting for a worker")
	fs.IntVar(&opts.server.MaxHeaderBytes, "max-header-bytes", opts.server.MaxHeaderBytes, "limit for the request line and headers")
	fs.Int64Var(&opts.server.MaxBodyBytes, "max-body-bytes", opts.server.MaxBodyBytes, "limit for the request body")
	fs.DurationVar(&opts.server.ConnTimeout, "conn-timeout", opts.server.ConnTimeout, "deadline per connection, 0 disables it")
	fs.IntVar(&opts.server.MaxConns, "max-conns", opts.server.MaxConns, "open connections cap, 0 means none")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, opts.server.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalln(err)
	}

	if err := run(context.Background(), opts); err != nil {
		log.Fatalln(err)
	}
}

// newRouter installs the request log and the example handlers.
func newRouter(logger *slog.Logger) *http.Router {
	router := http.NewRouter()
	router.Use(http.LogMiddleware(logger))
	handlers.Register(router, logger)

	for _, route := range router.Routes() {
		logger.Debug("route registered", "method", route.Method, "path", route.Path)
	}
	return router
}

func run(ctx context.Context, opts options) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := telemetry.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: name,
		Endpoint:    opts.otlpEndpoint,
		Insecure:    opts.otlpInsecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), opts.shutdownWait)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	logger := telemetry.NewLogger(name, os.Stdout, level, opts.otlpEndpoint != "")
	slog.SetDefault(logger)

	router := newRouter(logger)

	static := http.NewStaticResolver(filesystem.NewLocalFileSystem(opts.public), http.DefaultAssets())
	for _, path := range static.Missing() {
		logger.Warn("allow-listed asset is missing", "path", path, "public", opts.public)
	}

	server, err := http.NewServer(name, opts.server,
		http.WithRouter(router),
		http.WithStatic(static),
		http.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(opts.host, strconv.Itoa(opts.port))
	serverErrCh := make(chan error, 1)

	go func() {
		logger.Info("listening", "addr", addr, "workers", opts.server.Workers)
		serverErrCh <- server.ListenAndServe(ctx, addr)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownWait)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serverErrCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
