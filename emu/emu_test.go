package emu

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-faster/jx"
)

func loopEmulator(t *testing.T, cfg Config) *Emulator {
	t.Helper()

	nes := testNES(t,
		0x4C, 0x00, 0x80, // JMP $8000
	)
	return NewEmulator(nes, cfg)
}

func unlimitedConfig() Config {
	cfg := DefaultConfig()
	cfg.Emulation.FrameLimit = false
	return cfg
}

func TestEmulatorRun(t *testing.T) {
	e := loopEmulator(t, unlimitedConfig())

	var sink recordSink
	stats, err := e.Run(context.Background(), 3, &sink)
	if err != nil {
		t.Fatal(err)
	}

	if stats.Frames != 3 {
		t.Errorf("stats.Frames = %d, want 3", stats.Frames)
	}
	if e.NES.Frames() != 3 {
		t.Errorf("NES.Frames() = %d, want 3", e.NES.Frames())
	}

	// 3 frames are 89342 CPU cycles, that's 2396 samples at 48kHz.
	if stats.CPUCycles < 89340 || stats.CPUCycles > 89344 {
		t.Errorf("stats.CPUCycles = %d, want ~89342", stats.CPUCycles)
	}
	if stats.Samples < 2394 || stats.Samples > 2398 {
		t.Errorf("stats.Samples = %d, want ~2396", stats.Samples)
	}
	if uint64(len(sink.samples)) != stats.Samples {
		t.Errorf("sink received %d samples, stats report %d", len(sink.samples), stats.Samples)
	}
	if e.NES.APU.Samples().Len() != 0 {
		t.Errorf("%d samples left in the ring buffer", e.NES.APU.Samples().Len())
	}
}

func TestEmulatorRunAudioDisabled(t *testing.T) {
	cfg := unlimitedConfig()
	cfg.Audio.Disable = true
	e := loopEmulator(t, cfg)

	var sink recordSink
	stats, err := e.Run(context.Background(), 1, &sink)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Samples != 0 || len(sink.samples) != 0 {
		t.Errorf("got %d samples, want none", len(sink.samples))
	}
}

func TestEmulatorSinkError(t *testing.T) {
	e := loopEmulator(t, unlimitedConfig())

	errSink := errors.New("sink error")
	sink := recordSink{err: errSink}

	// Runs until the sink fails.
	_, err := e.Run(context.Background(), 0, &sink)
	if !errors.Is(err, errSink) {
		t.Errorf("Run() error = %v, want %v", err, errSink)
	}
}

func TestEmulatorStop(t *testing.T) {
	t.Run("stop", func(t *testing.T) {
		e := loopEmulator(t, unlimitedConfig())
		e.Stop()

		stats, err := e.Run(context.Background(), 0, nil)
		if err != nil {
			t.Fatal(err)
		}
		if stats.Frames != 0 {
			t.Errorf("stats.Frames = %d, want 0", stats.Frames)
		}
	})

	t.Run("context", func(t *testing.T) {
		e := loopEmulator(t, DefaultConfig())

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		var sink recordSink
		stats, err := e.Run(ctx, 0, &sink)
		if err != nil {
			t.Fatal(err)
		}
		// Frame limited at 60Hz, that's 6 frames in 100ms.
		if stats.Frames == 0 || stats.Frames > 8 {
			t.Errorf("stats.Frames = %d, want ~6", stats.Frames)
		}
	})
}

func TestEmulatorFrameLimit(t *testing.T) {
	e := loopEmulator(t, DefaultConfig())

	stats, err := e.Run(context.Background(), 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	if atLeast := 3 * framePeriod; stats.Elapsed < atLeast {
		t.Errorf("4 frames ran in %s, want at least %s", stats.Elapsed, atLeast)
	}
}

func TestFramePeriod(t *testing.T) {
	rate := FrameRate
	want := time.Duration(float64(time.Second) / rate)
	if d := framePeriod - want; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("framePeriod = %s, want %s", framePeriod, want)
	}
}

func TestEmulatorReset(t *testing.T) {
	e := loopEmulator(t, unlimitedConfig())
	e.NES.Bus.Write8(0x0000, 0x55)

	e.Reset()
	if _, err := e.Run(context.Background(), 1, nil); err != nil {
		t.Fatal(err)
	}
	if e.NES.Frames() != 0 {
		t.Errorf("after reset, NES.Frames() = %d, want 0", e.NES.Frames())
	}
	if got := e.NES.Bus.Peek8(0x0000); got != 0x55 {
		t.Errorf("after soft reset, RAM[0] = $%02X, want $55", got)
	}

	e.Restart()
	if _, err := e.Run(context.Background(), 1, nil); err != nil {
		t.Fatal(err)
	}
	if got := e.NES.Bus.Peek8(0x0000); got != 0 {
		t.Errorf("after hard reset, RAM[0] = $%02X, want $00", got)
	}
}

func TestStatsJSON(t *testing.T) {
	stats := Stats{
		Frames:       120,
		CPUCycles:    3573600,
		Instructions: 1191200,
		Samples:      96000,
		Elapsed:      2 * time.Second,
	}

	var e jx.Encoder
	stats.Encode(&e)

	const want = `{"frames":120,"cpu_cycles":3573600,"instructions":1191200,"samples":96000,"elapsed_ms":2000,"fps":60}`
	if got := e.String(); got != want {
		t.Errorf("Encode() = %s, want %s", got, want)
	}

	if (Stats{}).FPS() != 0 {
		t.Errorf("FPS() of empty stats should be 0")
	}
}

func TestStatsPrint(t *testing.T) {
	stats := Stats{
		Frames:       120,
		CPUCycles:    3573600,
		Instructions: 1191200,
		Samples:      96000,
		Elapsed:      2 * time.Second,
	}

	var buf bytes.Buffer
	stats.Print(&buf)

	const want = `frames:       120
cpu cycles:   3573600
instructions: 1191200
samples:      96000
elapsed:      2s
fps:          60.00
`
	if got := buf.String(); got != want {
		t.Errorf("Print() =\n%s\nwant\n%s", got, want)
	}
}
