package config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&override); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parsing YAML").
			WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigParse, "parsing YAML").
			WithContext("path", path)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Booleans and zero-valued numbers
// only apply when the key is present in raw.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	d, o := &base.Display, override.Display
	if o.Backend != "" {
		d.Backend = o.Backend
	}
	if o.Viewport != "" {
		d.Viewport = o.Viewport
	}
	if fieldSet(raw, "display", "inline_height") {
		d.InlineHeight = o.InlineHeight
	}
	if fieldSet(raw, "display", "fixed") {
		d.Fixed = o.Fixed
	}
	if fieldSet(raw, "display", "alternate_screen") {
		d.AlternateScreen = o.AlternateScreen
	}
	if fieldSet(raw, "display", "raw_mode") {
		d.RawMode = o.RawMode
	}
	if fieldSet(raw, "display", "mouse_capture") {
		d.MouseCapture = o.MouseCapture
	}
	if fieldSet(raw, "display", "hide_cursor") {
		d.HideCursor = o.HideCursor
	}
	if o.ColorProfile != "" {
		d.ColorProfile = o.ColorProfile
	}
	if fieldSet(raw, "display", "cursor_query_timeout") {
		d.CursorQueryTimeout = o.CursorQueryTimeout
	}
	if fieldSet(raw, "display", "fps") {
		d.FPS = o.FPS
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = expandHomeDir(override.Logging.Dir)
	}

	if fieldSet(raw, "metrics", "enabled") {
		base.Metrics.Enabled = override.Metrics.Enabled
	}
	if override.Metrics.Listen != "" {
		base.Metrics.Listen = override.Metrics.Listen
	}

	if fieldSet(raw, "tracing", "enabled") {
		base.Tracing.Enabled = override.Tracing.Enabled
	}
	if override.Tracing.Service != "" {
		base.Tracing.Service = override.Tracing.Service
	}
	if override.Tracing.Output != "" {
		base.Tracing.Output = expandHomeDir(override.Tracing.Output)
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
