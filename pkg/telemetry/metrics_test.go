package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

func TestMetrics_ObserveFrame(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveFrame("inline", 12, 30, 2*time.Millisecond)
	m.ObserveFrame("inline", 3, 5, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FramesDrawn.WithLabelValues("inline")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.CellsUpdated.WithLabelValues("inline")))
	assert.Equal(t, 35.0, testutil.ToFloat64(m.ActionsSent.WithLabelValues("inline")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FrameDuration))
}

func TestMetrics_Errors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveDrawError(apperrors.New(apperrors.ErrCodeInsufficientConstraints, "short"))
	m.ObserveDrawError(errors.New("plain"))
	m.ObserveDrawError(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DrawErrors.WithLabelValues(string(apperrors.ErrCodeInsufficientConstraints))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DrawErrors.WithLabelValues(string(apperrors.ErrCodeInternal))))
}

func TestMetrics_CursorQueries(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveCursorQuery(nil)
	m.ObserveCursorQuery(apperrors.New(apperrors.ErrCodeCursorQueryTimeout, "late"))
	m.ObserveCursorQuery(apperrors.New(apperrors.ErrCodeBackendIO, "closed"))

	for _, result := range []string{"ok", "timeout", "error"} {
		assert.Equal(t, 1.0, testutil.ToFloat64(m.CursorQueries.WithLabelValues(result)), result)
	}
}

func TestMetrics_ResizeAndInsert(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveResize("fullscreen")
	m.ObserveInsert(4)
	m.ObserveInsert(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resizes.WithLabelValues("fullscreen")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.InsertedLines))
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.ObserveFrame("fixed", 1, 1, time.Microsecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "cellgrid_display_frames_total")
	assert.Contains(t, names, "cellgrid_display_frame_duration_seconds")

	assert.Panics(t, func() { NewMetrics(reg) }, "duplicate registration")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFrame("x", 1, 1, time.Millisecond)
		m.ObserveResize("x")
		m.ObserveDrawError(errors.New("x"))
		m.ObserveCursorQuery(nil)
		m.ObserveInsert(1)
	})

	unregistered := NewMetrics(nil)
	unregistered.ObserveFrame("x", 1, 1, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(unregistered.FramesDrawn.WithLabelValues("x")))
}
