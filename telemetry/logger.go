package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTELHook adds trace and span IDs to every log entry
type OTELHook struct{}

func (h OTELHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}

	e.Str("trace_id", span.SpanContext().TraceID().String())
	e.Str("span_id", span.SpanContext().SpanID().String())

	if level == zerolog.ErrorLevel {
		span.SetStatus(codes.Error, msg)
	}
}

// Logger wraps zerolog with OTEL integration
type Logger struct {
	zerolog.Logger
}

// NewLogger creates a structured JSON logger with OTEL hooks
func NewLogger(service string) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// NewConsoleLogger creates a human-readable logger for interactive CLI
// use, writing to w so command output on stdout stays machine-parseable
func NewConsoleLogger(service string, w io.Writer, debug bool) *Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger().
		Hook(OTELHook{})

	return &Logger{Logger: logger}
}

// WithContext returns a logger with context (for trace propagation)
func (l *Logger) WithContext(ctx context.Context) *zerolog.Logger {
	logger := l.Logger.With().Ctx(ctx).Logger()
	return &logger
}

// LogRunStart logs the start of one fan-out run
func (l *Logger) LogRunStart(ctx context.Context, datacenters int, app string) {
	l.WithContext(ctx).Info().
		Int("datacenters", datacenters).
		Str("app", app).
		Str("operation", "fanout").
		Msg("starting fan-out query")
}

// LogRunComplete logs the end of one fan-out run
func (l *Logger) LogRunComplete(ctx context.Context, machines, failures int, durationMS float64) {
	l.WithContext(ctx).Info().
		Int("machines", machines).
		Int("failed_datacenters", failures).
		Float64("duration_ms", durationMS).
		Str("operation", "fanout").
		Msg("fan-out query completed")
}

// LogDatacenterFailure logs one datacenter's failure
func (l *Logger) LogDatacenterFailure(ctx context.Context, dc, kind string, err error) {
	l.WithContext(ctx).Warn().
		Err(err).
		Str("datacenter", dc).
		Str("kind", kind).
		Msg("datacenter query failed")
}
