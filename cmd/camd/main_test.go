package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camcore/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:         "bad",
		Environment:  "test",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		DBPath:       filepath.Join(t.TempDir(), "db", "camd.db"),
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRunMissingProfile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProfilePath = filepath.Join(t.TempDir(), "missing.yaml")

	err := run(cfg, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load profile")
	assert.NoFileExists(t, cfg.DBPath)
}

func TestRunStoreError(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.DBPath = filepath.Join(blocker, "camd.db")

	err := run(cfg, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open job store")
}

func TestRunListenError(t *testing.T) {
	cfg := testConfig(t)

	err := run(cfg, discard)
	require.Error(t, err)
	assert.FileExists(t, cfg.DBPath)

	// the store was released, so a second run opens it again
	assert.Error(t, run(cfg, discard))
}
