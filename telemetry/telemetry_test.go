package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger("skyctl-test")
	require.NotNil(t, logger)

	logger.LogRunStart(context.Background(), 3, "web")
	logger.LogRunComplete(context.Background(), 8, 1, 42.5)
}

func TestNewConsoleLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewConsoleLogger("skyctl-test", &buf, false)
	logger.Debug().Msg("hidden at default level")
	assert.Empty(t, buf.String())

	logger.Warn().Msg("visible warning")
	assert.Contains(t, buf.String(), "visible warning")

	buf.Reset()
	debugLogger := NewConsoleLogger("skyctl-test", &buf, true)
	debugLogger.Debug().Msg("visible in debug")
	assert.Contains(t, buf.String(), "visible in debug")
}

func TestLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	logger := Logger{Logger: NewLogger("skyctl-test").Output(&buf)}

	logger.LogDatacenterFailure(context.Background(), "us-west", "timeout", context.DeadlineExceeded)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "us-west", entry["datacenter"])
	assert.Equal(t, "timeout", entry["kind"])
	assert.Equal(t, "skyctl-test", entry["service"])
}

func TestInitOTEL_NoEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	shutdown, err := InitOTEL(context.Background(), Config{
		ServiceName:    "skyctl-test",
		ServiceVersion: "0.0.0",
		Environment:    "test",
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NotNil(t, PrometheusRegistry)

	assert.NoError(t, shutdown(context.Background()))
}
