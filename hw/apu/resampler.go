package apu

import (
	"github.com/arl/blip"
)

// Resamplers names, as found in configuration files.
const (
	ResamplerNearest = "nearest"
	ResamplerBlip    = "blip"
)

// A resampler converts the APU output, produced at the CPU rate, to the
// output sample rate.
type resampler interface {
	// clock is called once per CPU cycle with the current mixer output.
	clock(sample float32, out *Ring)
	reset()
}

// nearestResampler emits the current mixer output every time its phase
// accumulator crosses 1. There's no interpolation.
type nearestResampler struct {
	phase float64
	step  float64
}

func newNearestResampler(sampleRate int) *nearestResampler {
	return &nearestResampler{step: float64(sampleRate) / CPUClockHz}
}

func (nr *nearestResampler) clock(sample float32, out *Ring) {
	nr.phase += nr.step
	for nr.phase >= 1.0 {
		nr.phase -= 1.0
		out.Push(sample)
	}
}

func (nr *nearestResampler) reset() {
	nr.phase = 0
}

const (
	// number of CPU cycles in a blip time frame.
	blipFrameCycles = 1024

	// mixer output [0, 1] to blip amplitude.
	blipScale = 1 << 14
)

// blipResampler is a band-limited resampler. Mixer output changes are fed to
// a blip buffer as deltas, samples are read at the end of each time frame.
type blipResampler struct {
	buf  *blip.Buffer
	time uint64
	prev int32
	tmp  []int16
}

func newBlipResampler(sampleRate int) *blipResampler {
	// Enough room for one time frame.
	nsamples := blipFrameCycles*sampleRate/CPUClockHz + 16
	br := &blipResampler{
		buf: blip.NewBuffer(nsamples),
		tmp: make([]int16, nsamples),
	}
	br.buf.SetRates(CPUClockHz, float64(sampleRate))
	return br
}

func (br *blipResampler) clock(sample float32, out *Ring) {
	amp := int32(sample * blipScale)
	if delta := amp - br.prev; delta != 0 {
		br.buf.AddDelta(br.time, delta)
		br.prev = amp
	}

	br.time++
	if br.time < blipFrameCycles {
		return
	}

	br.buf.EndFrame(int(br.time))
	br.time = 0

	n := br.buf.ReadSamples(br.tmp, len(br.tmp), blip.Mono)
	for _, s := range br.tmp[:n] {
		out.Push(float32(s) / blipScale)
	}
}

func (br *blipResampler) reset() {
	br.buf.Clear()
	br.time = 0
	br.prev = 0
}
