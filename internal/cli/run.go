package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/guidoenr/oscviz/internal/app"
	"github.com/guidoenr/oscviz/internal/params"
	"github.com/guidoenr/oscviz/internal/scene"
	"github.com/guidoenr/oscviz/internal/source"
	"github.com/guidoenr/oscviz/internal/web"
)

const syntheticRate = 60

func run(cmd *cobra.Command, opts *rootOptions) error {
	logger, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	s := opts.settings
	if opts.noAudio {
		s.Input = params.InputSynthetic
	}
	s.Normalize()
	if err := s.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tty, err := openTTY(s.TTY)
	if err != nil {
		return fmt.Errorf("open tty: %w", err)
	}

	src, err := openSource(ctx, s, logger)
	if err != nil {
		_ = tty.Close()
		return err
	}

	cfg := app.Config{
		Settings: s,
		Source:   src,
		Output:   tty,
		Logger:   logger,
	}
	if s.Preview {
		cfg.Preview = cmd.ErrOrStderr()
	}
	if s.WebAddr != "" {
		srv := web.NewServer(logger.Named("web"), scene.Names())
		cfg.Monitor = srv
		go func() {
			if err := srv.ListenAndServe(ctx, s.WebAddr); err != nil {
				logger.Error("monitor stopped", "error", err)
			}
		}()
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		_ = src.Close()
		_ = tty.Close()
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("cleanup", "error", err)
		}
	}()

	err = a.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug("interrupted")
		return nil
	}
	return err
}

func openSource(ctx context.Context, s params.Settings, logger hclog.Logger) (source.Source, error) {
	switch s.Input {
	case params.InputLive:
		live, err := source.OpenLive(source.LiveConfig{
			DeviceName: s.Device,
			BufferSize: s.BufferSize,
			Bars:       s.Bars,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("capturing audio", "device", live.DeviceName())
		return live, nil
	case params.InputSynthetic:
		logger.Info("using synthetic frames")
		return source.NewSynthetic(s.Bars, time.Second/syntheticRate, 0), nil
	default:
		logger.Info("waiting for cava", "fifo", s.FIFOPath)
		return source.OpenFIFO(ctx, s.FIFOPath, s.Bars)
	}
}
