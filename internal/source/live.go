package source

import (
	"context"
	"fmt"
	"time"

	"github.com/guidoenr/oscviz/internal/audio"
)

// LiveConfig selects the capture device and analysis size for Live.
type LiveConfig struct {
	DeviceName string
	BufferSize int
	Bars       int
	// Rate is the number of frames produced per second.
	Rate float64
}

// Live captures audio with PortAudio and turns it into bars itself, for when
// no external visualiser is running.
type Live struct {
	capture  *audio.Capture
	spectrum *audio.Spectrum
	samples  []float32
	ticker   *time.Ticker
}

// OpenLive initialises PortAudio and starts capturing.
func OpenLive(cfg LiveConfig) (*Live, error) {
	if cfg.Rate <= 0 {
		cfg.Rate = 60
	}
	if err := audio.Initialize(); err != nil {
		return nil, err
	}
	capture, err := audio.NewCapture(audio.Config{
		DeviceName: cfg.DeviceName,
		BufferSize: cfg.BufferSize,
		Channels:   2,
	})
	if err != nil {
		audio.Terminate()
		return nil, fmt.Errorf("audio capture: %w", err)
	}
	spectrum := audio.NewSpectrum(audio.SpectrumConfig{
		Bars:       cfg.Bars,
		SampleRate: capture.SampleRate(),
	})
	return &Live{
		capture:  capture,
		spectrum: spectrum,
		samples:  make([]float32, spectrum.Size()),
		ticker:   time.NewTicker(time.Duration(float64(time.Second) / cfg.Rate)),
	}, nil
}

// DeviceName reports the device being captured.
func (l *Live) DeviceName() string { return l.capture.DeviceName() }

// Next waits for the next tick and analyses the newest samples.
func (l *Live) Next(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-l.ticker.C:
	}
	l.capture.Latest(l.samples)
	return l.spectrum.Frame(l.samples, nil), nil
}

// Close stops the stream and releases PortAudio.
func (l *Live) Close() error {
	l.ticker.Stop()
	err := l.capture.Close()
	audio.Terminate()
	return err
}
