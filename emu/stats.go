package emu

import (
	"fmt"
	"io"
	"time"

	"github.com/go-faster/jx"
)

// Stats summarizes an emulation run.
type Stats struct {
	Frames       uint64
	CPUCycles    int64
	Instructions uint64
	Samples      uint64 // audio samples consumed
	Elapsed      time.Duration
}

// FPS returns the average number of emulated frames per second.
func (s Stats) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

// Encode writes s as a JSON object.
func (s Stats) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("frames", func(e *jx.Encoder) { e.UInt64(s.Frames) })
		e.Field("cpu_cycles", func(e *jx.Encoder) { e.Int64(s.CPUCycles) })
		e.Field("instructions", func(e *jx.Encoder) { e.UInt64(s.Instructions) })
		e.Field("samples", func(e *jx.Encoder) { e.UInt64(s.Samples) })
		e.Field("elapsed_ms", func(e *jx.Encoder) { e.Int64(s.Elapsed.Milliseconds()) })
		e.Field("fps", func(e *jx.Encoder) { e.Float64(s.FPS()) })
	})
}

// Print writes a human readable summary of s.
func (s Stats) Print(w io.Writer) {
	fmt.Fprintf(w, "frames:       %d\n", s.Frames)
	fmt.Fprintf(w, "cpu cycles:   %d\n", s.CPUCycles)
	fmt.Fprintf(w, "instructions: %d\n", s.Instructions)
	fmt.Fprintf(w, "samples:      %d\n", s.Samples)
	fmt.Fprintf(w, "elapsed:      %s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "fps:          %.2f\n", s.FPS())
}
