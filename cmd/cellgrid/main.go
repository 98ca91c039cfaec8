package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/odvcencio/cellgrid/pkg/config"
	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/logging"
	"github.com/odvcencio/cellgrid/pkg/telemetry"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/backend/ansi"
	tcellbackend "github.com/odvcencio/cellgrid/pkg/ui/backend/tcell"
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/display"
)

// Version information - set via ldflags during build
var (
	version   = "0.1.0-dev"
	commit    = "unknown"
	buildDate = "unknown"
)

type options struct {
	configPath  string
	viewport    string
	height      int
	backend     string
	marker      string
	frames      int
	fps         float64
	logLevel    string
	showVersion bool
}

func parseOptions(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cellgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to a config file (default: ~/.cellgrid and ./.cellgrid)")
	fs.StringVar(&opts.viewport, "viewport", "", "viewport: fullscreen, inline or fixed")
	fs.IntVar(&opts.height, "height", 0, "inline viewport height")
	fs.StringVar(&opts.backend, "backend", "", "backend: ansi or tcell")
	fs.StringVar(&opts.marker, "marker", "braille", "canvas marker: dot, block, bar, braille or halfblock")
	fs.IntVar(&opts.frames, "frames", 0, "number of frames to draw (0 runs until interrupted)")
	fs.Float64Var(&opts.fps, "fps", -1, "frame rate limit (0 draws as fast as possible)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.frames < 0 {
		return options{}, fmt.Errorf("frames cannot be negative: %d", opts.frames)
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
	if opts.showVersion {
		fmt.Printf("cellgrid %s (commit %s, built %s)\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeForError(err))
	}
}

func loadConfig(opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.viewport != "" {
		cfg.Display.Viewport = strings.ToLower(opts.viewport)
	}
	if opts.height > 0 {
		cfg.Display.InlineHeight = opts.height
	}
	if opts.backend != "" {
		cfg.Display.Backend = strings.ToLower(opts.backend)
	}
	if opts.fps >= 0 {
		cfg.Display.FPS = opts.fps
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(opts.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	marker, err := canvas.ParseMarker(opts.marker)
	if err != nil {
		return withExitCode(err, exitUsage)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	metrics, stopMetrics, err := startMetrics(cfg, logger)
	if err != nil {
		return err
	}
	defer stopMetrics()

	term, builder, shutdownTracing, err := newBuilder(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	hub := telemetry.NewHub()
	defer hub.Close()
	var events atomic.Int64
	sub, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	go func() {
		for range sub {
			events.Add(1)
		}
	}()

	d, err := builder.WithHub(hub).BuildContext(ctx)
	if err != nil {
		if c, ok := term.(backend.Closer); ok {
			_ = c.Close()
		}
		return err
	}
	if err := d.Start(); err != nil {
		_ = d.Close()
		return err
	}
	defer func() {
		if cerr := d.Close(); cerr != nil {
			logger.Error("failed to restore terminal", "error", cerr)
		}
	}()

	demo, err := newDemo(marker, time.Now())
	if err != nil {
		return err
	}
	return loop(ctx, d, demo, cfg.Display.FPS, opts.frames, &events)
}

func loop(ctx context.Context, d *display.Display, demo *demo, fps float64, frames int, events *atomic.Int64) error {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	limiter := rate.NewLimiter(limit, 1)

	resized := make(chan os.Signal, 1)
	registerTerminalResize(resized)
	defer unregisterTerminalResize(resized)

	inline := d.Viewport().Kind() == display.KindInline
	for n := 1; frames == 0 || n <= frames; n++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-resized:
			if err := d.Autoresize(); err != nil {
				return err
			}
		default:
		}

		if inline && n%demoLogEvery == 0 {
			if err := d.InsertBefore(1, demo.logLine(n)); err != nil {
				return err
			}
		}
		if _, err := d.DrawContext(ctx, demo.frame(n, events.Load())); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	sessionID := logging.NewSessionID()
	opts := logging.Options{
		Level:     level,
		Format:    logging.Format(cfg.Logging.Format),
		SessionID: sessionID,
	}

	if dir := config.ResolveLogDir(cfg); dir != "" {
		f, err := logging.OpenSessionFile(dir, sessionID)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "cannot open log directory").
				WithContext("dir", dir)
		}
		opts.Output = f
		return logging.New("cli", opts), func() { _ = f.Close() }, nil
	}

	// Records on a terminal would land in the middle of the frame.
	if !ansi.IsTerminal(os.Stderr) {
		opts.Output = os.Stderr
	}
	return logging.New("cli", opts), func() {}, nil
}

func startMetrics(cfg *config.Config, logger *logging.Logger) (*telemetry.Metrics, func(), error) {
	if !cfg.Metrics.Enabled {
		return nil, func() {}, nil
	}
	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)

	ln, err := net.Listen("tcp", cfg.Metrics.Listen)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "cannot listen for metrics").
			WithContext("listen", cfg.Metrics.Listen)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return metrics, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func newBuilder(cfg *config.Config, logger *logging.Logger, metrics *telemetry.Metrics) (backend.Backend, *display.Builder, func(), error) {
	tracer, shutdown, err := startTracing(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	b, err := newBackend(cfg)
	if err != nil {
		shutdown()
		return nil, nil, nil, err
	}
	builder := display.NewBuilder(b).
		FromConfig(cfg).
		WithLogger(logger).
		WithMetrics(metrics)
	if tracer != nil {
		builder = builder.WithTracer(tracer)
	}
	return b, builder, shutdown, nil
}

func startTracing(cfg *config.Config, logger *logging.Logger) (trace.Tracer, func(), error) {
	if !cfg.Tracing.Enabled {
		return nil, func() {}, nil
	}
	var out io.Writer = os.Stdout
	closeOut := func() {}
	if cfg.Tracing.Output != "" {
		f, err := os.OpenFile(cfg.Tracing.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "cannot open trace output").
				WithContext("output", cfg.Tracing.Output)
		}
		out, closeOut = f, func() { _ = f.Close() }
	}
	tp, err := telemetry.NewTracerProvider(telemetry.TracingOptions{
		ServiceName: cfg.Tracing.Service,
		Version:     version,
		Output:      out,
	})
	if err != nil {
		closeOut()
		return nil, nil, err
	}
	tp.Install()
	return tp.Tracer(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("failed to flush spans", "error", err)
		}
		closeOut()
	}, nil
}

func newBackend(cfg *config.Config) (backend.Backend, error) {
	if cfg.Display.Backend == config.BackendTcell {
		b, err := tcellbackend.New()
		if err != nil {
			return nil, err
		}
		go drainEvents(b.Screen())
		return b, nil
	}
	return ansi.NewFromFiles(os.Stdin, os.Stdout,
		ansi.WithProfile(colorProfile(cfg.Display.ColorProfile, os.Stdout)),
		ansi.WithQueryTimeout(cfg.Display.CursorQueryTimeout),
	), nil
}

// drainEvents keeps a tcell screen's size current. Input handling is left to
// applications built on the display.
func drainEvents(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if _, ok := ev.(*tcell.EventResize); ok {
			screen.Sync()
		}
	}
}

func colorProfile(name string, out io.Writer) termenv.Profile {
	switch name {
	case "truecolor":
		return termenv.TrueColor
	case "ansi256":
		return termenv.ANSI256
	case "ansi":
		return termenv.ANSI
	case "ascii":
		return termenv.Ascii
	default:
		return termenv.NewOutput(out).ColorProfile()
	}
}
