package audio

import (
	"fmt"
	"io"
	"math/cmplx"
	"sync"
	"time"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/lumenclass/boardlink/pkg/config"
	"github.com/lumenclass/boardlink/pkg/logger"
)

// releaser frees one platform resource exactly once regardless of how many
// teardown paths reach it.
type releaser struct {
	name string
	once sync.Once
	fn   func()
}

func (r *releaser) release() {
	r.once.Do(r.fn)
}

// Extractor pulls periodic frequency samples from a live audio track and
// keeps a fixed-length sequence of normalized bin magnitudes for the
// visualizer. It owns every resource it creates per attachment; nothing is
// shared across attach/detach cycles.
type Extractor struct {
	cfg config.AudioConfig

	mu        sync.Mutex
	track     Track
	samples   []float64
	stop      chan struct{}
	done      chan struct{}
	resources []*releaser
}

func NewExtractor(cfg config.AudioConfig) *Extractor {
	if cfg.Bins <= 0 {
		cfg.Bins = 32
	}
	if cfg.RefreshHz <= 0 {
		cfg.RefreshHz = 60
	}
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = 480
	}
	return &Extractor{
		cfg:     cfg,
		samples: make([]float64, cfg.Bins),
	}
}

// Attach resolves the source and starts the sampling loop at the display
// refresh cadence. Any previous attachment is torn down first; every attach
// gets fresh resources. When no usable track is found the extractor keeps
// serving an all-zero spectrum.
func (e *Extractor) Attach(source interface{}) error {
	e.Detach()

	track := Resolve(source)
	if track == nil {
		logger.WarnC("audio", "No usable track in source, visualizer stays silent")
		return fmt.Errorf("no usable audio track in source")
	}

	if e.cfg.SampleHz > 0 && track.SampleRate() != e.cfg.SampleHz {
		logger.WarnCF("audio", "Track sample rate differs from configured rate", map[string]interface{}{
			"track_hz":      track.SampleRate(),
			"configured_hz": e.cfg.SampleHz,
		})
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	ticker := time.NewTicker(time.Second / time.Duration(e.cfg.RefreshHz))

	e.mu.Lock()
	e.track = track
	e.stop = stop
	e.done = done
	e.resources = []*releaser{
		{name: "ticker", fn: ticker.Stop},
		{name: "loop", fn: func() { close(stop) }},
		{name: "track", fn: func() { closeTrack(track) }},
	}
	e.mu.Unlock()

	// Prime once so callers see a spectrum without waiting for a tick.
	e.sample(track)

	go e.run(track, ticker, stop, done)

	logger.InfoCF("audio", "Audio track attached", map[string]interface{}{
		"sample_rate": track.SampleRate(),
		"bins":        e.cfg.Bins,
	})
	return nil
}

// Detach releases every resource created by the current attachment and
// resets the spectrum to zeros. Safe to call twice and with nothing attached.
func (e *Extractor) Detach() {
	e.mu.Lock()
	resources := e.resources
	done := e.done
	e.resources = nil
	e.track = nil
	e.stop = nil
	e.done = nil
	e.mu.Unlock()

	for _, r := range resources {
		r.release()
	}
	if done != nil {
		<-done
	}

	// Zero only after the sampling goroutine has exited: a sample already
	// past the select would otherwise store a stale spectrum on top of it.
	e.mu.Lock()
	e.samples = make([]float64, e.cfg.Bins)
	e.mu.Unlock()
}

// Samples returns a copy of the latest normalized magnitudes, one per bin.
// All zeros when nothing is attached or the track is not readable.
func (e *Extractor) Samples() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]float64, len(e.samples))
	copy(out, e.samples)
	return out
}

func (e *Extractor) run(track Track, ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.sample(track)
		}
	}
}

func (e *Extractor) sample(track Track) {
	frame, err := track.ReadFrame()
	if err != nil || len(frame) == 0 {
		e.store(make([]float64, e.cfg.Bins))
		return
	}
	e.store(spectrum(conform(frame, e.cfg.FrameSize), e.cfg.Bins))
}

// conform pads or trims a frame to the analysis window length so bin
// resolution stays stable across sources with different frame sizes.
func conform(frame []int16, size int) []int16 {
	if size <= 0 || len(frame) == size {
		return frame
	}
	out := make([]int16, size)
	copy(out, frame)
	return out
}

func (e *Extractor) store(bins []float64) {
	e.mu.Lock()
	e.samples = bins
	e.mu.Unlock()
}

func closeTrack(track Track) {
	if c, ok := track.(io.Closer); ok {
		c.Close()
	}
}

// spectrum windows one PCM frame, runs a real FFT and folds the magnitude
// halves into the configured bin count, normalized against the maximum
// representable int16 magnitude so every value lands in [0,1].
func spectrum(frame []int16, bins int) []float64 {
	x := make([]float64, len(frame))
	for i, s := range frame {
		x[i] = float64(s)
	}
	window.Apply(x, window.Hann)

	spec := fft.FFTReal(x)
	half := len(spec) / 2
	if half == 0 {
		return make([]float64, bins)
	}

	fullScale := float64(len(x)) / 2 * 32767
	mags := make([]float64, half)
	for i := 0; i < half; i++ {
		m := cmplx.Abs(spec[i]) / fullScale
		if m > 1 {
			m = 1
		}
		mags[i] = m
	}

	out := make([]float64, bins)
	if half <= bins {
		copy(out, mags)
		return out
	}

	per := half / bins
	for b := 0; b < bins; b++ {
		start := b * per
		end := start + per
		if b == bins-1 {
			end = half
		}
		sum := 0.0
		for i := start; i < end; i++ {
			sum += mags[i]
		}
		out[b] = sum / float64(end-start)
	}
	return out
}
