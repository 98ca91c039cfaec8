package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
)

const namespace = "cellgrid"

// Metrics holds the display's prometheus collectors.
type Metrics struct {
	FramesDrawn   *prometheus.CounterVec
	FrameDuration *prometheus.HistogramVec
	CellsUpdated  *prometheus.CounterVec
	ActionsSent   *prometheus.CounterVec
	Resizes       *prometheus.CounterVec
	DrawErrors    *prometheus.CounterVec
	CursorQueries *prometheus.CounterVec
	InsertedLines prometheus.Counter
}

// NewMetrics registers the display collectors on reg. A nil registerer
// creates collectors that are never exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesDrawn: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "frames_total",
				Help:      "Total number of frames drawn",
			},
			[]string{"viewport"},
		),
		FrameDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "frame_duration_seconds",
				Help:      "Time spent rendering, diffing and flushing a frame",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
			},
			[]string{"viewport"},
		),
		CellsUpdated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "cells_updated_total",
				Help:      "Total number of cells sent to the backend",
			},
			[]string{"viewport"},
		),
		ActionsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "actions_total",
				Help:      "Total number of backend actions executed",
			},
			[]string{"viewport"},
		),
		Resizes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "resizes_total",
				Help:      "Total number of viewport resizes",
			},
			[]string{"viewport"},
		),
		DrawErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "draw_errors_total",
				Help:      "Total number of failed draws by error code",
			},
			[]string{"code"},
		),
		CursorQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "cursor_queries_total",
				Help:      "Total number of cursor position queries by result",
			},
			[]string{"result"},
		),
		InsertedLines: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "display",
				Name:      "inserted_lines_total",
				Help:      "Total number of lines inserted above an inline viewport",
			},
		),
	}
}

// ObserveFrame records a successful frame.
func (m *Metrics) ObserveFrame(viewport string, updates, actions int, d time.Duration) {
	if m == nil {
		return
	}
	m.FramesDrawn.WithLabelValues(viewport).Inc()
	m.FrameDuration.WithLabelValues(viewport).Observe(d.Seconds())
	m.CellsUpdated.WithLabelValues(viewport).Add(float64(updates))
	m.ActionsSent.WithLabelValues(viewport).Add(float64(actions))
}

// ObserveResize records a viewport resize.
func (m *Metrics) ObserveResize(viewport string) {
	if m == nil {
		return
	}
	m.Resizes.WithLabelValues(viewport).Inc()
}

// ObserveDrawError records a failed draw under its error code.
func (m *Metrics) ObserveDrawError(err error) {
	if m == nil || err == nil {
		return
	}
	m.DrawErrors.WithLabelValues(string(apperrors.GetCode(err))).Inc()
}

// ObserveCursorQuery records a cursor position round trip.
func (m *Metrics) ObserveCursorQuery(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if apperrors.IsCode(err, apperrors.ErrCodeCursorQueryTimeout) {
		result = "timeout"
	} else if err != nil {
		result = "error"
	}
	m.CursorQueries.WithLabelValues(result).Inc()
}

// ObserveInsert records lines inserted above an inline viewport.
func (m *Metrics) ObserveInsert(lines int) {
	if m == nil {
		return
	}
	m.InsertedLines.Add(float64(lines))
}
