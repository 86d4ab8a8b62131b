package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camcore/cnc"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "READ_TIMEOUT", "WRITE_TIMEOUT", "CAMD_DB_PATH", "CAMD_PROFILE"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, &Config{
		Port:         "3000",
		Environment:  "development",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		DBPath:       "data/db/camd.db",
	}, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", " Production ")
	t.Setenv("READ_TIMEOUT", "30")
	t.Setenv("WRITE_TIMEOUT", "soon")
	t.Setenv("CAMD_PROFILE", "/etc/camd/router.yaml")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "/etc/camd/router.yaml", cfg.ProfilePath)
}

func TestLoadDurations(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2m", 2 * time.Minute},
		{"45", 45 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"0", 10 * time.Second},
		{"-5s", 10 * time.Second},
	}
	for _, tt := range tests {
		t.Setenv("READ_TIMEOUT", tt.in)
		assert.Equal(t, tt.want, Load().ReadTimeout, tt.in)
	}
}

func TestReadProfileKeepsDefaults(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(`
name: router
tolerance: 0.05
vector:
  mode: outline
  targetDepth: 3
  tabs:
    enabled: true
    height: 0.5
    space: 40
    width: 4
relief:
  invert: true
`))
	require.NoError(t, err)

	def := DefaultProfile()
	assert.Equal(t, "router", p.Name)
	assert.Equal(t, 0.05, p.Tolerance)
	assert.Equal(t, cnc.ModeOutline, p.Vector.Mode)
	assert.Equal(t, 3.0, p.Vector.TargetDepth)
	assert.Equal(t, def.Vector.ToolDiameter, p.Vector.ToolDiameter)
	assert.Equal(t, cnc.Tabs{Enabled: true, Height: 0.5, Space: 40, Width: 4}, p.Vector.Tabs)
	assert.True(t, p.Relief.Invert)
	assert.Equal(t, def.Relief.ConeHalfAngle, p.Relief.ConeHalfAngle)
}

func TestReadProfileEmpty(t *testing.T) {
	p, err := ReadProfile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)
}

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, "default", p.Name)

	path := filepath.Join(t.TempDir(), "laser.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: laser\nvector:\n  type: laser\n"), 0o644))
	p, err = LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "laser", p.Vector.Type)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("vector: [1, 2"), 0o644))
	_, err = LoadProfile(path)
	assert.Error(t, err)
}
