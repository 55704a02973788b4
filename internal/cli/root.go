// Package cli wires the command line onto the app.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/guidoenr/oscviz/internal/params"
	"github.com/guidoenr/oscviz/internal/version"
)

type rootOptions struct {
	settings params.Settings
	noAudio  bool
	logLevel string
	verbose  bool
}

// NewRootCmd builds the oscviz command tree. Running the root command starts
// the visualiser.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{settings: params.Defaults(), logLevel: "warn"}

	cmd := &cobra.Command{
		Use:   "oscviz",
		Short: "Recolour your terminal to music",
		Long: `oscviz reads spectrum frames from cava (or captures audio itself), turns them
into smoothed bass/mids/treble signals and recolours the terminal's default
foreground, background and 16-colour palette with OSC escape sequences.

Only colours that changed noticeably are sent, at a capped frame rate, and the
original colours are restored on exit.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(version.String() + "\n")

	addRunFlags(cmd, opts)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", opts.logLevel, "log level (trace, debug, info, warn, error, off)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	cmd.AddCommand(newScenesCmd())
	cmd.AddCommand(newDevicesCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *rootOptions) {
	s := &opts.settings
	f := cmd.Flags()

	f.StringVar((*string)(&s.Input), "input", string(s.Input), "frame source: fifo, live or synthetic")
	f.BoolVar(&opts.noAudio, "no-audio", false, "use the synthetic source (same as --input synthetic)")
	f.StringVar(&s.FIFOPath, "fifo", s.FIFOPath, "cava raw output FIFO")
	f.StringVar(&s.Device, "device", s.Device, "capture device for --input live (substring match)")
	f.IntVar(&s.BufferSize, "buffer-size", s.BufferSize, "capture ring size in samples for --input live")

	f.IntVar(&s.Bars, "bars", s.Bars, "bars per frame (must match cava's bars setting)")
	f.Var(params.NewRangeValue(&s.Bass), "bass", "bass range as lo:hi fractions of the bars")
	f.Var(params.NewRangeValue(&s.Mids), "mids", "mids range as lo:hi fractions of the bars")
	f.Var(params.NewRangeValue(&s.Treble), "treble", "treble range as lo:hi fractions of the bars")
	f.Float64Var(&s.Smoothing, "smooth", s.Smoothing, "EMA smoothing factor in (0,1]")
	f.Float64Var(&s.BeatThreshold, "beat-threshold", s.BeatThreshold, "smoothed bass level that counts as a beat")

	f.StringVar(&s.Scene, "scene", s.Scene, "scene to play (see 'oscviz scenes')")
	f.StringVar(&s.TTY, "tty", s.TTY, "terminal device to recolour")
	f.StringVar(&s.Terminator, "terminator", s.Terminator, "OSC terminator: st, bel or auto")
	f.Float64Var(&s.FPS, "fps", s.FPS, "maximum colour updates per second (0 = uncapped)")
	f.IntVar(&s.MinDelta, "min-delta", s.MinDelta, "minimum per-channel change before a colour is resent")
	f.BoolVar(&s.NoFg, "no-fg", false, "leave the default foreground alone")
	f.BoolVar(&s.NoBg, "no-bg", false, "leave the default background alone")
	f.BoolVar(&s.NoPalette, "no-palette", false, "leave the 16-colour palette alone")
	f.StringVar(&s.BaselineFg, "baseline-fg", "", "terminal default foreground as #rrggbb")
	f.StringVar(&s.BaselineBg, "baseline-bg", "", "terminal default background as #rrggbb")

	f.Float64Var(&s.SilenceThreshold, "silence-threshold", s.SilenceThreshold, "smoothed energy below which the music counts as stopped")
	f.DurationVar(&s.SilenceDuration, "silence-duration", s.SilenceDuration, "how long energy must stay low before going silent")
	f.StringVar((*string)(&s.SilenceMode), "silence-mode", string(s.SilenceMode), "on silence: reset the colours or hold the last ones")

	f.BoolVar(&s.Keys, "keys", s.Keys, "read q/Esc (quit) and space (pause) from the keyboard")
	f.BoolVar(&s.Preview, "preview", false, "draw a live colour preview line on stderr")
	f.StringVar(&s.WebAddr, "web", "", "serve a read-only monitor on this address, e.g. :8080")
	f.StringVar(&s.Profile, "profile", "", "append per-frame timings to this CSV file")
}

func newLogger(opts *rootOptions, w io.Writer) (hclog.Logger, error) {
	level := hclog.LevelFromString(opts.logLevel)
	if level == hclog.NoLevel {
		return nil, fmt.Errorf("unknown log level %q", opts.logLevel)
	}
	if opts.verbose && level > hclog.Debug {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "oscviz",
		Output: w,
		Level:  level,
	}), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// Execute runs the root command with ctx and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "oscviz:", strings.TrimSpace(err.Error()))
		return 1
	}
	return 0
}
