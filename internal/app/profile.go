package app

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// profiler appends per-section timings of every processed frame to a CSV file.
// A nil profiler is valid and does nothing.
type profiler struct {
	mu    sync.Mutex
	file  *os.File
	start time.Time
	last  time.Time
}

func newProfiler(path string, logger hclog.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Warn("profiler disabled", "path", path, "error", err)
		return nil
	}
	p := &profiler{file: f}
	p.writeHeader()
	logger.Debug("profiling frames", "path", path)
	return p
}

func (p *profiler) writeHeader() {
	if info, err := p.file.Stat(); err == nil && info.Size() > 0 {
		return
	}
	fmt.Fprintln(p.file, "timestamp,section,delta_ms")
}

func (p *profiler) beginFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	p.start = now
	p.last = now
}

func (p *profiler) markSection(name string) {
	if p == nil {
		return
	}
	now := time.Now()
	delta := now.Sub(p.last).Seconds() * 1000
	p.last = now
	p.log(name, delta)
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	p.log("frame_total", time.Since(p.start).Seconds()*1000)
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.file.Close()
	p.file = nil
	return err
}

func (p *profiler) log(section string, deltaMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return
	}
	fmt.Fprintf(p.file, "%s,%s,%.3f\n", time.Now().Format(time.RFC3339Nano), section, deltaMs)
}
