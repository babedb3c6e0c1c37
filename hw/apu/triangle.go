package apu

import "nescore/emu/log"

// The triangleChannel contains the following: Timer, 32-step sequencer, Length
// Counter, Linear Counter, 4-bit DAC.
//
//	+---------+    +---------+
//	|LinearCtr|    | Length  |
//	+---------+    +---------+
//	     |              |
//	     v              v
//	+---------+        |\             |\         +---------+    +---------+
//	|  Timer  |------->| >----------->| >------->|Sequencer|--->|   DAC   |
//	+---------+        |/             |/         +---------+    +---------+
type triangleChannel struct {
	lenCounter lengthCounter
	timer      timer

	linearCounter       uint8
	linearCounterReload uint8
	linearReload        bool
	linearCtrl          bool

	pos uint8 // current position in triangleSequence
}

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8,
	7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7,
	8, 9, 10, 11, 12, 13, 14, 15,
}

func (tc *triangleChannel) write(reg uint16, val uint8) {
	switch reg & 0x03 {
	case 0:
		tc.writeLinear(val)
	case 1:
		// unused
	case 2:
		tc.writeTimer(val)
	case 3:
		tc.writeLength(val)
	}
}

func (tc *triangleChannel) writeLinear(val uint8) {
	tc.linearCtrl = val&0x80 == 0x80
	tc.linearCounterReload = val & 0x7F

	// The control flag is also the length counter halt flag.
	tc.lenCounter.halt = tc.linearCtrl

	log.ModSound.DebugZ("write triangle linear").
		Uint8("reg", val).
		Bool("ctrl", tc.linearCtrl).
		Uint8("reload", tc.linearCounterReload).
		End()
}

func (tc *triangleChannel) writeTimer(val uint8) {
	tc.timer.period = (tc.timer.period & 0xFF00) | uint16(val)

	log.ModSound.DebugZ("write triangle timer").
		Uint8("reg", val).
		Uint16("period", tc.timer.period).
		End()
}

func (tc *triangleChannel) writeLength(val uint8) {
	tc.lenCounter.load(val >> 3)
	tc.timer.period = (tc.timer.period & 0xFF) | (uint16(val&0x07) << 8)

	// Sets the linear counter reload flag (side effect).
	tc.linearReload = true

	log.ModSound.DebugZ("write triangle length").
		Uint8("reg", val).
		Uint16("period", tc.timer.period).
		Uint8("len", tc.lenCounter.counter).
		End()
}

func (tc *triangleChannel) clock() {
	if !tc.timer.clock() {
		return
	}

	// The sequencer is clocked by the timer as long as both the linear
	// counter and the length counter are nonzero. Periods below 2 produce
	// ultrasonic frequencies, the sequencer is frozen to avoid pops.
	if tc.lenCounter.status() && tc.linearCounter > 0 && tc.timer.period >= 2 {
		tc.pos = (tc.pos + 1) & 0x1F
	}
}

func (tc *triangleChannel) output() uint8 {
	if !tc.lenCounter.status() {
		return 0
	}
	return triangleSequence[tc.pos]
}

func (tc *triangleChannel) tickLinearCounter() {
	if tc.linearReload {
		tc.linearCounter = tc.linearCounterReload
	} else if tc.linearCounter > 0 {
		tc.linearCounter--
	}

	if !tc.linearCtrl {
		tc.linearReload = false
	}
}

func (tc *triangleChannel) tickLengthCounter() {
	tc.lenCounter.tick()
}

func (tc *triangleChannel) setEnabled(enabled bool) {
	tc.lenCounter.setEnabled(enabled)
}

func (tc *triangleChannel) status() bool {
	return tc.lenCounter.status()
}

func (tc *triangleChannel) reset() {
	tc.timer.reset()
	tc.lenCounter.reset()

	tc.linearCounter = 0
	tc.linearCounterReload = 0
	tc.linearReload = false
	tc.linearCtrl = false
	tc.pos = 0
}
