package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/freekieb7/rawhttp/http"

type serverMetrics struct {
	connections metric.Int64Counter
	responses   metric.Int64Counter
	rejected    metric.Int64Counter
	duration    metric.Float64Histogram
}

func newServerMetrics(meter metric.Meter) (serverMetrics, error) {
	var m serverMetrics
	var err error

	m.connections, err = meter.Int64Counter("rawhttp.server.connections",
		metric.WithDescription("Connections handed to a worker"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return m, err
	}

	m.responses, err = meter.Int64Counter("rawhttp.server.responses",
		metric.WithDescription("Responses written, by status code"),
		metric.WithUnit("{response}"))
	if err != nil {
		return m, err
	}

	m.rejected, err = meter.Int64Counter("rawhttp.server.rejected",
		metric.WithDescription("Connections turned away because the worker queue was full"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return m, err
	}

	m.duration, err = meter.Float64Histogram("rawhttp.server.duration",
		metric.WithDescription("Time from accept to close"),
		metric.WithUnit("s"))
	if err != nil {
		return m, err
	}

	return m, nil
}

func (m serverMetrics) recordConn(ctx context.Context, status uint16, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.Int("http.response.status_code", int(status)))
	if status != 0 {
		m.responses.Add(ctx, 1, attrs)
	}
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
