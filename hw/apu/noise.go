package apu

import "nescore/emu/log"

// noiseChannel generates pseudo-random 1-bit noise at 16 different frequencies.
//
//	      Timer --> Shift Register   Length Counter
//	                    |                |
//	                    v                v
//	Envelope -------> Gate ----------> Gate --> (to mixer)
type noiseChannel struct {
	envelope envelope
	timer    timer

	shiftReg uint16
	mode     bool
}

var noisePeriodLUT = [16]uint16{4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068}

func (nc *noiseChannel) write(reg uint16, val uint8) {
	switch reg & 0x03 {
	case 0:
		nc.envelope.init(val)
		log.ModSound.DebugZ("write noise volume").Uint8("val", val).End()
	case 1:
		// unused
	case 2:
		nc.timer.period = noisePeriodLUT[val&0x0F] - 1
		nc.mode = val&0x80 != 0
		log.ModSound.DebugZ("write noise period").
			Uint8("val", val).
			Bool("mode", nc.mode).
			End()
	case 3:
		nc.envelope.lenCounter.load(val >> 3)
		nc.envelope.restart()
		log.ModSound.DebugZ("write noise length").Uint8("val", val).End()
	}
}

func (nc *noiseChannel) clock() {
	if nc.timer.clock() {
		nc.shift()
	}
}

// shift clocks the 15-bit linear feedback shift register.
func (nc *noiseChannel) shift() {
	// Feedback is calculated as the exclusive-OR of bit 0 and one other
	// bit: bit 6 if Mode flag is set, otherwise bit 1.
	modebit := 1
	if nc.mode {
		modebit = 6
	}

	feedback := (nc.shiftReg & 0x01) ^ ((nc.shiftReg >> modebit) & 0x01)
	nc.shiftReg >>= 1
	nc.shiftReg |= feedback << 14
}

func (nc *noiseChannel) output() uint8 {
	// The mixer receives the current envelope volume except when bit 0 of the
	// shift register is set, or the length counter is zero.
	if nc.shiftReg&0x01 == 0x01 {
		return 0
	}
	return nc.envelope.output()
}

func (nc *noiseChannel) tickEnvelope() {
	nc.envelope.tick()
}

func (nc *noiseChannel) tickLengthCounter() {
	nc.envelope.lenCounter.tick()
}

func (nc *noiseChannel) setEnabled(enabled bool) {
	nc.envelope.lenCounter.setEnabled(enabled)
}

func (nc *noiseChannel) status() bool {
	return nc.envelope.lenCounter.status()
}

func (nc *noiseChannel) reset() {
	nc.envelope.reset()
	nc.timer.reset()

	nc.timer.period = noisePeriodLUT[0] - 1
	nc.shiftReg = 1
	nc.mode = false
}
