package emu

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"nescore/emu/log"
)

// FrameRate is the NTSC frame rate, in frames per second.
const FrameRate = 60.0988

// Time between 2 frames, 1s / 60.0988.
const framePeriod = time.Second * 10000 / 600988

// If emulation lags behind by more than that, frame pacing restarts from
// now rather than trying to catch up.
const maxLag = 250 * time.Millisecond

// Number of samples popped from the APU at once.
const audioChunkSize = 1024

// How long the audio consumer waits when no samples are available.
const audioPollInterval = time.Millisecond

type Emulator struct {
	NES *NES
	cfg Config

	// These are accessed concurrently by the emulator loop and its
	// controller.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool
}

// NewEmulator returns an emulator driving nes. cfg is checked before use.
func NewEmulator(nes *NES, cfg Config) *Emulator {
	cfg.Check()
	return &Emulator{NES: nes, cfg: cfg}
}

// SetPause, Stop, Reset and Restart allows to control
// the emulator loop in a concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing soft reset").End()
		e.NES.Reset()
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing hard reset").End()
		e.NES.PowerCycle()
	}
}

// Run runs nframes frames, or until Stop is called or ctx is done if nframes
// is 0. The samples produced by the APU are consumed concurrently by sink,
// which may be nil.
func (e *Emulator) Run(ctx context.Context, nframes int, sink AudioSink) (Stats, error) {
	if e.cfg.Audio.Disable {
		sink = nil
	}

	log.AddContext(&e.NES.CPU)
	defer log.RemoveContext(&e.NES.CPU)

	var stats Stats
	start := time.Now()
	cycles, instrs := e.NES.CPU.Cycles, e.NES.CPU.Instrs

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		stats.Frames = e.loop(gctx, nframes)
		return nil
	})

	if sink != nil {
		g.Go(func() error {
			n, err := drainAudio(gctx, e.NES, sink, done)
			stats.Samples = n
			return err
		})
	}

	err := g.Wait()
	stats.Elapsed = time.Since(start)
	stats.CPUCycles = e.NES.CPU.Cycles - cycles
	stats.Instructions = e.NES.CPU.Instrs - instrs

	log.ModEmu.InfoZ("Emulation loop exited").
		Uint64("frames", stats.Frames).
		Duration("elapsed", stats.Elapsed).
		End()
	return stats, err
}

func (e *Emulator) loop(ctx context.Context, nframes int) uint64 {
	var (
		frames uint64
		pacer  pacer
	)

	for nframes == 0 || frames < uint64(nframes) {
		if e.quit.Load() || ctx.Err() != nil {
			break
		}

		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
			pacer.restart()
			continue
		}

		e.NES.RunFrame()
		frames++

		if e.cfg.Emulation.FrameLimit {
			if !pacer.wait(ctx, framePeriod) {
				break
			}
		}
		e.handleReset()
	}
	return frames
}

// drainAudio pops samples from the APU and writes them to sink, until done is
// closed and all remaining samples have been consumed.
func drainAudio(ctx context.Context, nes *NES, sink AudioSink, done <-chan struct{}) (uint64, error) {
	var total uint64
	buf := make([]float32, audioChunkSize)

	ticker := time.NewTicker(audioPollInterval)
	defer ticker.Stop()

	for {
		n := nes.APU.PopSamples(buf)
		if n > 0 {
			if err := sink.WriteSamples(buf[:n]); err != nil {
				return total, err
			}
			total += uint64(n)
			continue
		}

		select {
		case <-done:
			// The producer has stopped, flush what's left.
			for {
				n := nes.APU.PopSamples(buf)
				if n == 0 {
					return total, nil
				}
				if err := sink.WriteSamples(buf[:n]); err != nil {
					return total, err
				}
				total += uint64(n)
			}
		case <-ctx.Done():
			return total, nil
		case <-ticker.C:
		}
	}
}

// pacer paces frames at a constant rate, accumulating wall-clock time so
// that short delays are caught up on the next frames.
type pacer struct {
	next time.Time
}

func (p *pacer) restart() { p.next = time.Time{} }

// wait blocks until the next frame is due. It returns false if ctx is done
// before that.
func (p *pacer) wait(ctx context.Context, period time.Duration) bool {
	now := time.Now()
	if p.next.IsZero() {
		p.next = now
	}
	p.next = p.next.Add(period)

	d := p.next.Sub(now)
	if d <= 0 {
		if -d > maxLag {
			log.ModEmu.DebugZ("emulation lagging, restart frame pacing").Duration("lag", -d).End()
			p.next = now
		}
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
