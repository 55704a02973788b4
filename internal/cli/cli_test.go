package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guidoenr/oscviz/internal/analyzer"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestScenesCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "scenes")
	if err != nil {
		t.Fatalf("scenes: %v", err)
	}
	if out != "focus\nmood\npunchy\nspectrum\nwarmcool\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = execute(t, context.Background(), "scenes", "--long")
	if err != nil {
		t.Fatalf("scenes --long: %v", err)
	}
	if !strings.Contains(out, "punchy") || !strings.Contains(out, "contrast_locked") || !strings.Contains(out, "0,7,8,15") {
		t.Fatalf("long listing incomplete:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	if err != nil || !strings.HasPrefix(out, "oscviz ") {
		t.Fatalf("version output %q err=%v", out, err)
	}
}

func TestRangeFlags(t *testing.T) {
	cmd := NewRootCmd()
	if err := cmd.ParseFlags([]string{"--bass", "0:0.25", "--treble", "0.5:1"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if got := cmd.Flags().Lookup("bass").Value.String(); got != "0.00:0.25" {
		t.Fatalf("bass=%q", got)
	}
	if err := cmd.ParseFlags([]string{"--mids", "wide"}); err == nil {
		t.Fatalf("expected range parse error")
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tty := filepath.Join(t.TempDir(), "tty")
	for _, args := range [][]string{
		{"--scene", "disco", "--tty", tty},
		{"--log-level", "chatty"},
		{"--terminator", "nul", "--tty", tty},
	} {
		if _, err := execute(t, context.Background(), args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRunSyntheticRecoloursAndRestores(t *testing.T) {
	tty := filepath.Join(t.TempDir(), "tty")
	if err := os.WriteFile(tty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(300*time.Millisecond, cancel)
	defer timer.Stop()

	_, err := execute(t, ctx, "--no-audio", "--tty", tty, "--scene", "spectrum", "--keys=false", "--fps", "0")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(tty)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "\x1b]4;") {
		t.Fatalf("no palette updates written: %q", got)
	}
	if !strings.HasSuffix(got, "\x1b]112\x07") {
		t.Fatalf("terminal not restored on exit: %q", got)
	}
}

func TestDefaultsMatchAnalyzer(t *testing.T) {
	cmd := NewRootCmd()
	if got := cmd.Flags().Lookup("bars").DefValue; got != fmt.Sprint(analyzer.DefaultBars) {
		t.Fatalf("bars default %q", got)
	}
	if got := cmd.Flags().Lookup("smooth").DefValue; got != "0.22" {
		t.Fatalf("smooth default %q", got)
	}
}
