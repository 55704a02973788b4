// Package app runs the frame loop: read a spectrum frame, extract signals,
// compute colours and write the changes to the terminal.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/guidoenr/oscviz/internal/analyzer"
	"github.com/guidoenr/oscviz/internal/baseline"
	"github.com/guidoenr/oscviz/internal/engine"
	"github.com/guidoenr/oscviz/internal/osc"
	"github.com/guidoenr/oscviz/internal/params"
	"github.com/guidoenr/oscviz/internal/render"
	"github.com/guidoenr/oscviz/internal/scene"
	"github.com/guidoenr/oscviz/internal/source"
	"github.com/guidoenr/oscviz/internal/web"
)

const previewInterval = 100 * time.Millisecond

// BaselineProvider finds out which colours the terminal starts with and which
// terminator it understands.
type BaselineProvider interface {
	Discover(ctx context.Context) (baseline.Baseline, osc.Terminator, error)
}

// StaticBaseline is a BaselineProvider that always answers with the same values.
type StaticBaseline struct {
	Baseline   baseline.Baseline
	Terminator osc.Terminator
}

// Discover implements BaselineProvider.
func (s StaticBaseline) Discover(context.Context) (baseline.Baseline, osc.Terminator, error) {
	return s.Baseline, s.Terminator, nil
}

// Monitor receives a snapshot after every processed frame.
type Monitor interface {
	Publish(web.Snapshot)
}

// Config wires the app's collaborators. Source and Output are required; the
// app takes ownership of both and closes them (when they are io.Closers) in Close.
type Config struct {
	Settings params.Settings
	Source   source.Source
	Output   io.Writer
	Baseline BaselineProvider
	Logger   hclog.Logger
	Monitor  Monitor
	// Preview, when set, receives a one-line colour preview, redrawn in place.
	Preview io.Writer
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App owns the loop state; none of it is shared with other goroutines.
type App struct {
	cfg       Config
	log       hclog.Logger
	scene     scene.Scene
	baseline  baseline.Baseline
	extractor *analyzer.Extractor
	backend   *osc.Backend
	silence   *silenceGate
	prof      *profiler
	preview   *render.Preview
	clock     func() time.Time

	state       engine.State
	last        time.Time
	lastPreview time.Time
	fps         float64
	paused      bool
	sent        int64

	closeOnce sync.Once
	closeErr  error
}

// New validates the settings, resolves the baseline and builds the pipeline.
func New(ctx context.Context, cfg Config) (*App, error) {
	if cfg.Source == nil {
		return nil, errors.New("no frame source")
	}
	if cfg.Output == nil {
		return nil, errors.New("no output")
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.New(&hclog.LoggerOptions{Name: "oscviz", Output: os.Stderr, Level: hclog.Warn})
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Baseline == nil {
		cfg.Baseline = StaticBaseline{Baseline: baseline.Fallback(), Terminator: osc.BEL}
	}

	cfg.Settings.Normalize()
	if err := cfg.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	sc, err := scene.Lookup(cfg.Settings.Scene)
	if err != nil {
		return nil, err
	}

	base, discovered, err := cfg.Baseline.Discover(ctx)
	if err != nil {
		cfg.Logger.Warn("baseline discovery failed, using fallback colours", "error", err)
		base, discovered = baseline.Fallback(), osc.BEL
	}
	base, err = base.WithOverrides(cfg.Settings.BaselineFg, cfg.Settings.BaselineBg)
	if err != nil {
		return nil, fmt.Errorf("baseline override: %w", err)
	}

	terminator, _ := osc.ParseTerminator(cfg.Settings.Terminator)
	if terminator == osc.Auto {
		terminator = discovered
	}

	backend := osc.NewBackend(cfg.Output, osc.Options{
		Channels:   cfg.Settings.Channels(),
		Terminator: terminator,
		FPSCap:     cfg.Settings.FPS,
		MinDelta:   cfg.Settings.MinDelta,
	}, osc.NewState(base.Foreground, base.Background, base.Palette))

	a := &App{
		cfg:       cfg,
		log:       cfg.Logger,
		scene:     sc,
		baseline:  base,
		extractor: analyzer.New(cfg.Settings.AnalyzerConfig()),
		backend:   backend,
		silence:   newSilenceGate(cfg.Settings.SilenceThreshold, cfg.Settings.SilenceDuration),
		prof:      newProfiler(cfg.Settings.Profile, cfg.Logger),
		clock:     cfg.Clock,
	}
	if cfg.Preview != nil {
		a.preview = render.NewPreview(0)
		a.ensureDimensions()
	}

	opts := backend.Options()
	a.log.Info("pipeline ready",
		"scene", sc.Name,
		"channels", opts.Channels.String(),
		"terminator", string(opts.Terminator),
		"fps_cap", opts.FPSCap,
		"bars", a.extractor.Bars(),
	)
	return a, nil
}

// Scene returns the active scene.
func (a *App) Scene() scene.Scene { return a.scene }

// Baseline returns the resolved baseline, overrides applied.
func (a *App) Baseline() baseline.Baseline { return a.baseline }

// Run processes frames until ctx is cancelled, the source fails, or the user
// quits. Quitting returns nil; cancellation returns ctx.Err().
func (a *App) Run(ctx context.Context) error {
	readCtx, cancelRead := context.WithCancel(ctx)
	defer cancelRead()

	frames := make(chan []byte)
	errc := make(chan error, 1)
	go a.readLoop(readCtx, frames, errc)

	var inputEvents <-chan inputEvent
	if a.cfg.Settings.Keys && term.IsTerminal(int(os.Stdin.Fd())) {
		inputEvents = a.startInputListener(readCtx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case evt, ok := <-inputEvents:
			if !ok {
				inputEvents = nil
				continue
			}
			switch evt {
			case inputEventQuit:
				a.log.Debug("quit requested")
				return nil
			case inputEventPause:
				a.togglePause()
			}
		case frame := <-frames:
			a.step(frame)
		}
	}
}

func (a *App) readLoop(ctx context.Context, frames chan<- []byte, errc chan<- error) {
	for {
		frame, err := a.cfg.Source.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				errc <- fmt.Errorf("frame source: %w", err)
			}
			return
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// step runs one frame through the pipeline. Signals are extracted for every
// frame, even when the output ends up rate limited.
func (a *App) step(frame []byte) {
	a.prof.beginFrame()
	defer a.prof.endFrame()

	now := a.clock()
	dt := 0.0
	if !a.last.IsZero() {
		dt = now.Sub(a.last).Seconds()
		if dt > 0 {
			a.fps = a.fps*0.9 + 0.1/dt
		}
	}
	a.last = now

	signals := a.extractor.Extract(frame)
	a.prof.markSection("extract")

	if a.paused {
		a.publish(now, signals)
		return
	}

	if a.silence.update(signals.Global, now) {
		a.log.Debug("silence detected", "mode", a.cfg.Settings.SilenceMode)
		if a.cfg.Settings.SilenceMode == params.SilenceReset {
			a.reset("silence")
		}
	}
	if a.silence.isSilent() {
		a.publish(now, signals)
		return
	}

	last := a.backend.State()
	desired, next := engine.Tick(engine.Input{
		Dt:       dt,
		Signals:  signals,
		Baseline: a.baseline,
		Scene:    a.scene,
		State:    a.state,
		PrevFg:   &last.Fg,
		PrevBg:   &last.Bg,
	})
	a.state = next
	a.prof.markSection("tick")

	n, err := a.backend.ApplyAt(now, desired)
	if err != nil {
		a.log.Warn("colour write failed", "error", err)
	}
	a.sent += int64(n)
	a.prof.markSection("apply")

	a.publish(now, signals)
}

func (a *App) togglePause() {
	a.paused = !a.paused
	if a.paused {
		a.log.Info("paused")
		a.reset("pause")
		return
	}
	a.log.Info("resumed")
}

func (a *App) reset(reason string) {
	if err := a.backend.Reset(); err != nil {
		a.log.Warn("reset failed", "reason", reason, "error", err)
	}
}

func (a *App) publish(now time.Time, s analyzer.Signals) {
	if a.cfg.Monitor == nil && a.preview == nil {
		return
	}
	st := a.backend.State()

	if a.cfg.Monitor != nil {
		snap := web.Snapshot{
			Time:  now,
			Scene: a.scene.Name,
			Signals: web.Signals{
				Bands:  s.Bands,
				Bass:   s.Bass,
				Mids:   s.Mids,
				Treble: s.Treble,
				Global: s.Global,
				Beat:   s.Beat,
			},
			Impact:    a.state.ImpactEnv,
			Fg:        st.Fg.Hex(),
			Bg:        st.Bg.Hex(),
			Silent:    a.silence.isSilent(),
			Paused:    a.paused,
			BytesSent: a.sent,
		}
		for i, c := range st.Palette {
			snap.Palette[i] = c.Hex()
		}
		a.cfg.Monitor.Publish(snap)
	}

	if a.preview != nil && now.Sub(a.lastPreview) >= previewInterval {
		a.lastPreview = now
		a.ensureDimensions()
		line := a.preview.Line(render.Status{
			Scene:   a.scene.Name,
			Signals: s,
			Fg:      st.Fg,
			Bg:      st.Bg,
			Palette: st.Palette,
			Silent:  a.silence.isSilent(),
			Paused:  a.paused,
			FPS:     a.fps,
		})
		fmt.Fprint(a.cfg.Preview, "\r", line, "\x1b[K")
	}
}

// ensureDimensions sizes the preview to the terminal it is drawn on.
func (a *App) ensureDimensions() {
	f, ok := a.cfg.Preview.(*os.File)
	if !ok {
		return
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 || w == a.preview.Width() {
		return
	}
	a.preview.Resize(w)
}

// Close restores the terminal colours and releases the source, output and
// profiler. It is safe to call more than once; every step is attempted even
// when an earlier one fails.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if err := a.backend.Reset(); err != nil {
			errs = append(errs, err)
		}
		if a.preview != nil {
			fmt.Fprint(a.cfg.Preview, "\r\x1b[K")
		}
		if err := a.cfg.Source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close source: %w", err))
		}
		if c, ok := a.cfg.Output.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close output: %w", err))
			}
		}
		if err := a.prof.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close profile: %w", err))
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
