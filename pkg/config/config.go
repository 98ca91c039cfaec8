// Package config loads cellgrid settings from YAML files and CELLGRID_*
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// Viewport kinds.
const (
	ViewportFullscreen = "fullscreen"
	ViewportInline     = "inline"
	ViewportFixed      = "fixed"
)

// Backend kinds.
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Config represents the complete cellgrid configuration
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// DisplayConfig controls the terminal the display draws to.
type DisplayConfig struct {
	Backend            string        `yaml:"backend"`
	Viewport           string        `yaml:"viewport"`
	InlineHeight       int           `yaml:"inline_height"`
	Fixed              AreaConfig    `yaml:"fixed"`
	AlternateScreen    bool          `yaml:"alternate_screen"`
	RawMode            bool          `yaml:"raw_mode"`
	MouseCapture       bool          `yaml:"mouse_capture"`
	HideCursor         bool          `yaml:"hide_cursor"`
	ColorProfile       string        `yaml:"color_profile"`
	CursorQueryTimeout time.Duration `yaml:"cursor_query_timeout"`
	FPS                float64       `yaml:"fps"`
}

// AreaConfig is a fixed viewport rectangle.
type AreaConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// Dir holds per-session log files. Empty logs to stderr.
	Dir string `yaml:"dir"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`

	// Output is a file path for exported spans. Empty writes to stdout.
	Output string `yaml:"output"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Backend:            BackendANSI,
			Viewport:           ViewportFullscreen,
			InlineHeight:       8,
			AlternateScreen:    true,
			HideCursor:         true,
			ColorProfile:       "auto",
			CursorQueryTimeout: 2 * time.Second,
			FPS:                30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Listen: "127.0.0.1:9464",
		},
		Tracing: TracingConfig{
			Service: "cellgrid",
		},
	}
}

// Load loads configuration from default locations with proper precedence:
// defaults, ~/.cellgrid/config.yaml, ./.cellgrid/config.yaml, then the
// environment.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".cellgrid", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, wrapLoadError(err, userConfigPath)
		}
	}

	projectConfigPath := filepath.Join(".", ".cellgrid", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, wrapLoadError(err, projectConfigPath)
	}

	if err := applyEnvOverrides(cfg, configEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, wrapLoadError(err, path)
	}
	if err := applyEnvOverrides(cfg, configEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func wrapLoadError(err error, path string) error {
	if apperrors.GetCode(err) == apperrors.ErrCodeConfigParse {
		return err
	}
	return apperrors.Wrap(err, apperrors.ErrCodeConfigLoad, "loading config").
		WithContext("path", path)
}

// applyEnvOverrides applies CELLGRID_* variables. The process environment
// wins over ~/.cellgrid/config.env.
func applyEnvOverrides(cfg *Config, configEnv map[string]string) error {
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return configEnv[key]
	}

	if v := lookup("CELLGRID_BACKEND"); v != "" {
		cfg.Display.Backend = strings.ToLower(v)
	}
	if v := lookup("CELLGRID_VIEWPORT"); v != "" {
		cfg.Display.Viewport = strings.ToLower(v)
	}
	if v := lookup("CELLGRID_INLINE_HEIGHT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return envError("CELLGRID_INLINE_HEIGHT", v, err)
		}
		cfg.Display.InlineHeight = n
	}
	if v := lookup("CELLGRID_COLOR_PROFILE"); v != "" {
		cfg.Display.ColorProfile = strings.ToLower(v)
	}
	if v := lookup("CELLGRID_CURSOR_QUERY_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return envError("CELLGRID_CURSOR_QUERY_TIMEOUT", v, err)
		}
		cfg.Display.CursorQueryTimeout = d
	}
	if v := lookup("CELLGRID_FPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("CELLGRID_FPS", v, err)
		}
		cfg.Display.FPS = f
	}
	if val, ok := envBool(lookup("CELLGRID_ALT_SCREEN")); ok {
		cfg.Display.AlternateScreen = val
	}
	if val, ok := envBool(lookup("CELLGRID_RAW_MODE")); ok {
		cfg.Display.RawMode = val
	}
	if val, ok := envBool(lookup("CELLGRID_MOUSE")); ok {
		cfg.Display.MouseCapture = val
	}

	if v := lookup("CELLGRID_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := lookup("CELLGRID_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := lookup("CELLGRID_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}

	if val, ok := envBool(lookup("CELLGRID_METRICS")); ok {
		cfg.Metrics.Enabled = val
	}
	if v := lookup("CELLGRID_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if val, ok := envBool(lookup("CELLGRID_TRACING")); ok {
		cfg.Tracing.Enabled = val
	}
	if v := lookup("CELLGRID_TRACING_OUTPUT"); v != "" {
		cfg.Tracing.Output = v
	}
	return nil
}

func envError(key, value string, err error) error {
	return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "invalid environment override").
		WithContext("variable", key).
		WithContext("value", value)
}

func envBool(val string) (bool, bool) {
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	invalid := func(field string, value any, msg string) error {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, msg).
			WithContext("field", field).
			WithContext("value", value)
	}

	switch c.Display.Backend {
	case BackendANSI, BackendTcell:
	default:
		return invalid("display.backend", c.Display.Backend, "backend must be ansi or tcell")
	}

	switch c.Display.Viewport {
	case ViewportFullscreen:
	case ViewportInline:
		if c.Display.InlineHeight <= 0 {
			return invalid("display.inline_height", c.Display.InlineHeight, "inline viewport needs a positive height")
		}
	case ViewportFixed:
		f := c.Display.Fixed
		if f.X < 0 || f.Y < 0 || f.Width < 0 || f.Height < 0 {
			return invalid("display.fixed", f, "fixed viewport cannot have negative geometry")
		}
	default:
		return invalid("display.viewport", c.Display.Viewport, "viewport must be fullscreen, inline or fixed")
	}

	switch c.Display.ColorProfile {
	case "", "auto", "truecolor", "ansi256", "ansi", "ascii":
	default:
		return invalid("display.color_profile", c.Display.ColorProfile, "unknown color profile")
	}
	if c.Display.CursorQueryTimeout < 0 {
		return invalid("display.cursor_query_timeout", c.Display.CursorQueryTimeout, "cursor query timeout cannot be negative")
	}
	if c.Display.FPS < 0 {
		return invalid("display.fps", c.Display.FPS, "fps cannot be negative")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level", c.Logging.Level, "unknown log level")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return invalid("logging.format", c.Logging.Format, "log format must be json or text")
	}

	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Listen) == "" {
		return invalid("metrics.listen", c.Metrics.Listen, "metrics enabled without a listen address")
	}
	return nil
}

func loadConfigEnvVars() map[string]string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(home, ".cellgrid", "config.env"))
	if err != nil {
		return nil
	}
	return parseEnvFile(string(data))
}

func parseEnvFile(data string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	return vars
}
