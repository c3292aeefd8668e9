package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHealthService(t *testing.T, dataDir string) *HealthService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHealthService("1.2.0-test", dataDir, logger)
}

func TestHealthCheck(t *testing.T) {
	hs := newHealthService(t, t.TempDir())

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.0-test", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready with election data", func(t *testing.T) {
		dir := t.TempDir()
		csv := "код;total;activity\n00001;100;55.0\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "2024-10-27ns.csv"), []byte(csv), 0644))

		status := newHealthService(t, dir).ReadinessCheck(context.Background())
		assert.Equal(t, "ready", status.Status)

		data, ok := status.Services["data"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "healthy", data.Status)
	})

	t.Run("degraded without election files", func(t *testing.T) {
		status := newHealthService(t, t.TempDir()).ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)

		data, ok := status.Services["data"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "degraded", data.Status)
	})

	t.Run("unhealthy without data directory", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "does-not-exist")

		status := newHealthService(t, missing).ReadinessCheck(context.Background())
		assert.Equal(t, "not_ready", status.Status)

		data, ok := status.Services["data"].(ServiceHealth)
		require.True(t, ok)
		assert.Equal(t, "unhealthy", data.Status)
	})
}

func TestLivenessCheck(t *testing.T) {
	hs := newHealthService(t, t.TempDir())

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", status.Status)
	assert.Contains(t, status.Runtime, "go_version")
	assert.Contains(t, status.Runtime, "goroutines")
}

func TestHealthServiceVersion(t *testing.T) {
	hs := newHealthService(t, t.TempDir())

	info := hs.Version()
	assert.Equal(t, "1.2.0-test", info["version"])
	assert.Contains(t, info, "uptime_seconds")
}
