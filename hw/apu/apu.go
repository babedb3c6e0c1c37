package apu

import "nescore/emu/log"

// DefaultSampleRate is the default output sample rate, in Hz.
const DefaultSampleRate = 48000

// Config holds the APU output configuration.
type Config struct {
	SampleRate int    // output sample rate, in Hz
	RingSize   int    // ring buffer capacity, rounded up to a power of two
	Resampler  string // ResamplerNearest or ResamplerBlip
}

// APU is the NES audio processing unit. It's clocked once per CPU cycle and
// pushes the samples it produces into a ring buffer, from which the audio
// consumer pops them, possibly from another goroutine.
type APU struct {
	Square1  squareChannel
	Square2  squareChannel
	Triangle triangleChannel
	Noise    noiseChannel
	DMC      dmc

	frameCounter frameCounter
	resampler    resampler
	ring         *Ring
	muted        [NumChannels]bool

	cfg    Config
	cycles uint64
}

// New returns a powered up APU.
func New(cfg Config) *APU {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}

	a := &APU{
		Square1: newSquareChannel(true),
		Square2: newSquareChannel(false),
		ring:    NewRing(cfg.RingSize),
		cfg:     cfg,
	}

	switch cfg.Resampler {
	case ResamplerBlip:
		a.resampler = newBlipResampler(cfg.SampleRate)
	default:
		a.resampler = newNearestResampler(cfg.SampleRate)
	}

	a.Reset()
	return a
}

// SetMemoryReader sets the function used by the DMC to fetch samples from
// CPU memory.
func (a *APU) SetMemoryReader(read func(addr uint16) uint8) {
	a.DMC.read = read
}

// Reset resets all channels and the frame counter. Samples still in the ring
// buffer are kept.
func (a *APU) Reset() {
	a.Square1.reset()
	a.Square2.reset()
	a.Triangle.reset()
	a.Noise.reset()
	a.DMC.reset()
	a.frameCounter.reset()
	a.resampler.reset()
	a.cycles = 0
}

// SampleRate returns the output sample rate.
func (a *APU) SampleRate() int { return a.cfg.SampleRate }

// Samples returns the output ring buffer.
func (a *APU) Samples() *Ring { return a.ring }

// PopSamples copies up to len(dst) samples into dst, returning the number of
// copied samples. It's safe to call from a different goroutine than the one
// clocking the APU. On underflow, the rest of dst is left untouched.
func (a *APU) PopSamples(dst []float32) int {
	return a.ring.Pop(dst)
}

// Cycles returns the number of CPU cycles the APU has been clocked for since
// the last reset.
func (a *APU) Cycles() uint64 { return a.cycles }

// Clock advances the APU by one CPU cycle.
func (a *APU) Clock() {
	a.cycles++

	a.frameTick(a.frameCounter.clock())

	a.Square1.clock()
	a.Square2.clock()
	a.Triangle.clock()
	a.Noise.clock()
	a.DMC.clock()

	a.resampler.clock(a.Output(), a.ring)
}

func (a *APU) frameTick(ftyp frameType) {
	if ftyp == noFrame {
		return
	}

	// Quarter & half frame clock envelope & linear counter
	a.Square1.tickEnvelope()
	a.Square2.tickEnvelope()
	a.Triangle.tickLinearCounter()
	a.Noise.tickEnvelope()

	if ftyp == halfFrame {
		// Half frames clock length counter & sweep
		a.Square1.tickLengthCounter()
		a.Square2.tickLengthCounter()
		a.Triangle.tickLengthCounter()
		a.Noise.tickLengthCounter()

		a.Square1.tickSweep()
		a.Square2.tickSweep()
	}
}

// Mute silences, or restores, a channel in the mixer output. A muted channel
// keeps running.
func (a *APU) Mute(ch Channel, muted bool) {
	if ch < NumChannels {
		a.muted[ch] = muted
	}
}

// Output returns the current mixed output of all channels.
func (a *APU) Output() float32 {
	out := [NumChannels]uint8{
		Square1:  a.Square1.output(),
		Square2:  a.Square2.output(),
		Triangle: a.Triangle.output(),
		Noise:    a.Noise.output(),
		DPCM:     a.DMC.output(),
	}
	for ch, muted := range a.muted {
		if muted {
			out[ch] = 0
		}
	}
	return mix(out[Square1], out[Square2], out[Triangle], out[Noise], out[DPCM])
}

// IRQ reports whether the APU asserts the CPU IRQ line, that is if either the
// frame counter or the DMC interrupt flag is set.
func (a *APU) IRQ() bool {
	return a.frameCounter.irq || a.DMC.irq
}

// PeekStatus returns the value of the status register ($4015) without
// side effects.
//
//	IF-D NT21
//	|| | |||+- pulse 1 length counter > 0
//	|| | ||+-- pulse 2 length counter > 0
//	|| | |+--- triangle length counter > 0
//	|| | +---- noise length counter > 0
//	|| +------ DMC bytes remaining > 0
//	|+-------- frame interrupt
//	+--------- DMC interrupt
func (a *APU) PeekStatus() uint8 {
	var status uint8

	if a.Square1.status() {
		status |= 0x01
	}
	if a.Square2.status() {
		status |= 0x02
	}
	if a.Triangle.status() {
		status |= 0x04
	}
	if a.Noise.status() {
		status |= 0x08
	}
	if a.DMC.status() {
		status |= 0x10
	}
	if a.frameCounter.irq {
		status |= 0x40
	}
	if a.DMC.irq {
		status |= 0x80
	}

	return status
}

// ReadStatus reads the status register ($4015). Reading it clears the frame
// interrupt flag.
func (a *APU) ReadStatus() uint8 {
	status := a.PeekStatus()
	a.frameCounter.irq = false

	log.ModSound.DebugZ("read status").Hex8("status", status).End()
	return status
}

func (a *APU) writeStatus(val uint8) {
	log.ModSound.DebugZ("write status").Hex8("val", val).End()

	// Writing to $4015 clears the DMC interrupt flag. This needs to be done
	// before setting the enabled flag for the DMC (because doing so can
	// trigger an IRQ).
	a.DMC.irq = false

	a.Square1.setEnabled(val&0x01 == 0x01)
	a.Square2.setEnabled(val&0x02 == 0x02)
	a.Triangle.setEnabled(val&0x04 == 0x04)
	a.Noise.setEnabled(val&0x08 == 0x08)
	a.DMC.setEnabled(val&0x10 == 0x10)
}

// WriteRegister writes to one of the APU registers ($4000-$4013, $4015 and
// $4017). Writes to other addresses are ignored.
func (a *APU) WriteRegister(addr uint16, val uint8) {
	switch {
	case addr >= 0x4000 && addr <= 0x4003:
		a.Square1.write(addr, val)
	case addr >= 0x4004 && addr <= 0x4007:
		a.Square2.write(addr, val)
	case addr >= 0x4008 && addr <= 0x400B:
		a.Triangle.write(addr, val)
	case addr >= 0x400C && addr <= 0x400F:
		a.Noise.write(addr, val)
	case addr >= 0x4010 && addr <= 0x4013:
		a.DMC.write(addr, val)
	case addr == 0x4015:
		a.writeStatus(val)
	case addr == 0x4017:
		a.frameTick(a.frameCounter.write(val))
	default:
		log.ModSound.DebugZ("unmapped write").Hex16("addr", addr).Hex8("val", val).End()
	}
}
