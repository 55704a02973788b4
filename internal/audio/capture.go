package audio

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Capture wraps a PortAudio input stream and keeps the most recent mono samples
// in a ring buffer.
type Capture struct {
	stream     *portaudio.Stream
	sampleRate float64
	channels   int
	device     *portaudio.DeviceInfo

	mu    sync.Mutex
	ring  []float32
	index int
	fresh int
}

// Config controls how a Capture instance is created.
type Config struct {
	DeviceName string
	BufferSize int
	Channels   int
}

const defaultBufferSize = 4096

// NewCapture opens and starts a PortAudio input stream.
func NewCapture(cfg Config) (*Capture, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}

	device, err := findDevice(cfg.DeviceName)
	if err != nil {
		return nil, err
	}
	channels := min(cfg.Channels, device.MaxInputChannels)

	c := &Capture{
		sampleRate: device.DefaultSampleRate,
		channels:   channels,
		device:     device,
		ring:       make([]float32, cfg.BufferSize),
	}

	framesPerBuffer := cfg.BufferSize / 4
	if framesPerBuffer < 64 {
		framesPerBuffer = portaudio.FramesPerBufferUnspecified
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      c.sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, c.process)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	c.stream = stream

	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	return c, nil
}

// Close stops and closes the underlying PortAudio stream.
func (c *Capture) Close() error {
	if c.stream == nil {
		return nil
	}
	if err := c.stream.Stop(); err != nil && !isInvalidStreamState(err) {
		return err
	}
	return c.stream.Close()
}

// SampleRate returns the stream sample rate.
func (c *Capture) SampleRate() float64 { return c.sampleRate }

// DeviceName returns the name of the device being captured.
func (c *Capture) DeviceName() string {
	if c.device == nil {
		return ""
	}
	return c.device.Name
}

// Latest copies the newest len(dst) samples into dst, oldest first, and reports
// how many samples arrived since the previous call.
func (c *Capture) Latest(dst []float32) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	copyLatest(dst, c.ring, c.index)
	fresh := c.fresh
	c.fresh = 0
	return fresh
}

func (c *Capture) process(in []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(in) / c.channels
	for i := 0; i < n; i++ {
		sum := float32(0)
		for ch := 0; ch < c.channels; ch++ {
			sum += in[i*c.channels+ch]
		}
		c.ring[c.index] = sum / float32(c.channels)
		c.index = (c.index + 1) % len(c.ring)
	}
	c.fresh += n
}

// copyLatest unrolls the ring (write position next) into dst, newest sample last.
func copyLatest(dst, ring []float32, next int) {
	n := min(len(dst), len(ring))
	start := next - n
	if start < 0 {
		start += len(ring)
	}
	for i := 0; i < n; i++ {
		dst[len(dst)-n+i] = ring[(start+i)%len(ring)]
	}
}

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name != "" {
		return findDeviceByName(name)
	}
	if dev, err := portaudio.DefaultInputDevice(); err == nil && dev != nil && dev.MaxInputChannels > 0 {
		return dev, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	if dev := pickBestDevice(devices); dev != nil {
		return dev, nil
	}
	return nil, fmt.Errorf("no suitable audio input device found")
}

func findDeviceByName(name string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list audio devices: %w", err)
	}
	name = strings.ToLower(name)
	for _, device := range devices {
		if device.MaxInputChannels == 0 {
			continue
		}
		if strings.Contains(strings.ToLower(device.Name), name) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("audio device %q not found", name)
}

// loopbackKeywords mark devices that carry what the speakers play, which is
// what a cava-style visual wants rather than the microphone.
var loopbackKeywords = []string{"monitor", "loopback", "stereo mix", "what u hear"}

func pickBestDevice(devices []*portaudio.DeviceInfo) *portaudio.DeviceInfo {
	candidates := make([]*portaudio.DeviceInfo, 0, len(devices))
	for _, d := range devices {
		if d != nil && d.MaxInputChannels > 0 {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := deviceScore(candidates[i]), deviceScore(candidates[j])
		if si == sj {
			return strings.ToLower(candidates[i].Name) < strings.ToLower(candidates[j].Name)
		}
		return si > sj
	})
	return candidates[0]
}

func deviceScore(d *portaudio.DeviceInfo) int {
	score := d.MaxInputChannels
	lower := strings.ToLower(d.Name)
	for _, kw := range loopbackKeywords {
		if strings.Contains(lower, kw) {
			score += 20
			break
		}
	}
	if strings.Contains(lower, "default") {
		score += 10
	}
	return score
}

// isInvalidStreamState reports whether err comes from stopping an already stopped stream.
func isInvalidStreamState(err error) bool {
	return err != nil && strings.Contains(err.Error(), "PaErrorCode -9986")
}
