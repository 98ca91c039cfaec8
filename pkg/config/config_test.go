package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"CELLGRID_BACKEND", "CELLGRID_VIEWPORT", "CELLGRID_INLINE_HEIGHT",
		"CELLGRID_COLOR_PROFILE", "CELLGRID_CURSOR_QUERY_TIMEOUT", "CELLGRID_FPS",
		"CELLGRID_ALT_SCREEN", "CELLGRID_RAW_MODE", "CELLGRID_MOUSE",
		"CELLGRID_LOG_LEVEL", "CELLGRID_LOG_FORMAT", "CELLGRID_LOG_DIR",
		"CELLGRID_METRICS", "CELLGRID_METRICS_LISTEN", "CELLGRID_TRACING", "CELLGRID_TRACING_OUTPUT",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendANSI, cfg.Display.Backend)
	assert.Equal(t, ViewportFullscreen, cfg.Display.Viewport)
	assert.True(t, cfg.Display.AlternateScreen)
	assert.False(t, cfg.Display.RawMode)
	assert.Equal(t, 2*time.Second, cfg.Display.CursorQueryTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadHierarchy(t *testing.T) {
	home := isolate(t)
	project := t.TempDir()
	chdir(t, project)

	writeFile(t, filepath.Join(home, ".cellgrid", "config.yaml"), `
display:
  viewport: inline
  inline_height: 4
logging:
  level: debug
`)
	writeFile(t, filepath.Join(project, ".cellgrid", "config.yaml"), `
display:
  inline_height: 6
  alternate_screen: false
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ViewportInline, cfg.Display.Viewport, "user value kept")
	assert.Equal(t, 6, cfg.Display.InlineHeight, "project overrides user")
	assert.False(t, cfg.Display.AlternateScreen)
	assert.True(t, cfg.Display.HideCursor, "unset booleans keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithoutFiles(t *testing.T) {
	isolate(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cellgrid.yaml")
	writeFile(t, path, `
display:
  backend: tcell
  viewport: fixed
  fixed: {x: 2, y: 1, width: 40, height: 10}
  cursor_query_timeout: 250ms
  fps: 0
metrics:
  enabled: true
tracing:
  enabled: true
  output: ~/spans.json
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, BackendTcell, cfg.Display.Backend)
	assert.Equal(t, AreaConfig{X: 2, Y: 1, Width: 40, Height: 10}, cfg.Display.Fixed)
	assert.Equal(t, 250*time.Millisecond, cfg.Display.CursorQueryTimeout)
	assert.Zero(t, cfg.Display.FPS, "explicit zero applies")
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Listen)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "spans.json"), cfg.Tracing.Output)
}

func TestLoadFromPathErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigLoad), "got %v", err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "display: [unclosed")
	_, err = LoadFromPath(bad)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigParse), "got %v", err)

	unknown := filepath.Join(dir, "unknown.yaml")
	writeFile(t, unknown, "display:\n  colour: red\n")
	_, err = LoadFromPath(unknown)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigParse), "unknown keys rejected, got %v", err)

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "display:\n  viewport: sideways\n")
	_, err = LoadFromPath(invalid)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid), "got %v", err)
	field, _ := apperrors.ContextValue(err, "field")
	assert.Equal(t, "display.viewport", field)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CELLGRID_VIEWPORT", "INLINE")
	t.Setenv("CELLGRID_INLINE_HEIGHT", "12")
	t.Setenv("CELLGRID_CURSOR_QUERY_TIMEOUT", "500ms")
	t.Setenv("CELLGRID_ALT_SCREEN", "off")
	t.Setenv("CELLGRID_MOUSE", "yes")
	t.Setenv("CELLGRID_LOG_FORMAT", "text")
	t.Setenv("CELLGRID_METRICS", "1")

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg, nil))

	assert.Equal(t, ViewportInline, cfg.Display.Viewport)
	assert.Equal(t, 12, cfg.Display.InlineHeight)
	assert.Equal(t, 500*time.Millisecond, cfg.Display.CursorQueryTimeout)
	assert.False(t, cfg.Display.AlternateScreen)
	assert.True(t, cfg.Display.MouseCapture)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestEnvOverridesInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("CELLGRID_FPS", "fast")

	err := applyEnvOverrides(DefaultConfig(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid))
	v, _ := apperrors.ContextValue(err, "variable")
	assert.Equal(t, "CELLGRID_FPS", v)
}

func TestConfigEnvFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".cellgrid", "config.env"), `
# comment
export CELLGRID_LOG_LEVEL="debug"
CELLGRID_BACKEND=tcell
not a pair
`)
	t.Setenv("CELLGRID_BACKEND", "ansi")

	env := loadConfigEnvVars()
	assert.Equal(t, "debug", env["CELLGRID_LOG_LEVEL"])

	cfg := DefaultConfig()
	require.NoError(t, applyEnvOverrides(cfg, env))
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, BackendANSI, cfg.Display.Backend, "process environment wins")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"backend", func(c *Config) { c.Display.Backend = "vt52" }, "display.backend"},
		{"inline height", func(c *Config) { c.Display.Viewport = ViewportInline; c.Display.InlineHeight = 0 }, "display.inline_height"},
		{"fixed geometry", func(c *Config) { c.Display.Viewport = ViewportFixed; c.Display.Fixed.Width = -1 }, "display.fixed"},
		{"color profile", func(c *Config) { c.Display.ColorProfile = "sepia" }, "display.color_profile"},
		{"timeout", func(c *Config) { c.Display.CursorQueryTimeout = -time.Second }, "display.cursor_query_timeout"},
		{"fps", func(c *Config) { c.Display.FPS = -1 }, "display.fps"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"metrics listen", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Listen = " " }, "metrics.listen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeConfigInvalid))
			field, ok := apperrors.ContextValue(err, "field")
			assert.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestMergeConfigsPreservesBooleanDefaults(t *testing.T) {
	base := DefaultConfig()
	override := &Config{Display: DisplayConfig{Viewport: ViewportInline}}
	raw := map[string]any{"display": map[string]any{"viewport": "inline"}}

	mergeConfigs(base, override, raw)

	assert.True(t, base.Display.AlternateScreen)
	assert.Equal(t, 8, base.Display.InlineHeight)
	assert.Equal(t, ViewportInline, base.Display.Viewport)
}

func TestResolveLogDir(t *testing.T) {
	home := isolate(t)
	assert.Empty(t, ResolveLogDir(nil))
	assert.Empty(t, ResolveLogDir(DefaultConfig()))

	cfg := DefaultConfig()
	cfg.Logging.Dir = "~/logs"
	assert.Equal(t, filepath.Join(home, "logs"), ResolveLogDir(cfg))

	cfg.Logging.Dir = "relative"
	assert.True(t, filepath.IsAbs(ResolveLogDir(cfg)))
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
