package apu

import "nescore/emu/log"

// There are two square channels beginning at registers $4000 and $4004. Each
// contains the following: Envelope Generator, Sweep Unit, Timer with
// divide-by-two on the output, 8-step sequencer, Length Counter.
//
//	               +---------+    +---------+
//	               |  Sweep  |--->|Timer / 2|
//	               +---------+    +---------+
//	                    |              |
//	                    |              v
//	                    |         +---------+    +---------+
//	                    |         |Sequencer|    | Length  |
//	                    |         +---------+    +---------+
//	                    |              |              |
//	                    v              v              v
//	+---------+        |\             |\             |\          +---------+
//	|Envelope |------->| >----------->| >----------->| >-------->|   DAC   |
//	+---------+        |/             |/             |/          +---------+
type squareChannel struct {
	envelope envelope
	timer    timer

	isChannel1 bool

	duty    uint8
	dutyPos uint8

	sweepEnabled      bool
	sweepPeriod       uint8
	sweepNegate       bool
	sweepShift        uint8
	reloadSweep       bool
	sweepDivider      uint8
	sweepTargetPeriod uint32
	realPeriod        uint16
}

func newSquareChannel(isChannel1 bool) squareChannel {
	return squareChannel{isChannel1: isChannel1}
}

// duty cycle sequences for the square channels.
var squareDuty = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{0, 0, 0, 0, 0, 0, 1, 1},
	{0, 0, 0, 0, 1, 1, 1, 1},
	{1, 1, 1, 1, 1, 1, 0, 0},
}

// write handles a write to one of the 4 channel registers.
func (sc *squareChannel) write(reg uint16, val uint8) {
	switch reg & 0x03 {
	case 0:
		sc.writeDuty(val)
	case 1:
		sc.writeSweep(val)
	case 2:
		sc.writeTimer(val)
	case 3:
		sc.writeLength(val)
	}
}

func (sc *squareChannel) writeDuty(val uint8) {
	sc.envelope.init(val)
	sc.duty = (val & 0xC0) >> 6

	log.ModSound.DebugZ("write pulse duty").
		Bool("ch1", sc.isChannel1).
		Uint8("reg", val).
		Uint8("duty", sc.duty).
		End()
}

func (sc *squareChannel) writeSweep(val uint8) {
	sc.initSweep(val)

	log.ModSound.DebugZ("write pulse sweep").
		Bool("ch1", sc.isChannel1).
		Uint8("reg", val).
		End()
}

func (sc *squareChannel) writeTimer(val uint8) {
	period := (sc.realPeriod & 0x0700) | uint16(val)
	sc.setPeriod(period)

	log.ModSound.DebugZ("write pulse timer").
		Bool("ch1", sc.isChannel1).
		Uint8("reg", val).
		Uint16("period", period).
		End()
}

func (sc *squareChannel) writeLength(val uint8) {
	sc.envelope.lenCounter.load(val >> 3)
	period := (sc.realPeriod & 0xFF) | (uint16(val&0x07) << 8)
	sc.setPeriod(period)

	// The sequencer is restarted at the first value of the current sequence
	// and the envelope is restarted.
	sc.dutyPos = 0
	sc.envelope.restart()

	log.ModSound.DebugZ("write pulse length").
		Bool("ch1", sc.isChannel1).
		Uint8("reg", val).
		Uint8("len", sc.envelope.lenCounter.counter).
		Uint16("period", period).
		End()
}

func (sc *squareChannel) isMuted() bool {
	// A period of t < 8, either set explicitly or via a sweep period update,
	// silences the corresponding pulse channel.
	return sc.realPeriod < 8 || (!sc.sweepNegate && sc.sweepTargetPeriod > 0x7FF)
}

func (sc *squareChannel) initSweep(reg uint8) {
	sc.sweepEnabled = reg&0x80 == 0x80
	sc.sweepNegate = reg&0x08 == 0x08

	// The divider's period is set to P + 1
	sc.sweepPeriod = ((reg & 0x70) >> 4) + 1
	sc.sweepShift = reg & 0x07

	sc.updateTargetPeriod()
	sc.reloadSweep = true
}

func (sc *squareChannel) updateTargetPeriod() {
	shifted := sc.realPeriod >> sc.sweepShift
	if !sc.sweepNegate {
		sc.sweepTargetPeriod = uint32(sc.realPeriod + shifted)
		return
	}

	sc.sweepTargetPeriod = uint32(sc.realPeriod - shifted)
	if sc.isChannel1 {
		// Pulse 1 adds the ones' complement (-c - 1).
		sc.sweepTargetPeriod--
	}
}

func (sc *squareChannel) setPeriod(period uint16) {
	sc.realPeriod = period
	// The sequencer is clocked every other CPU cycle.
	sc.timer.period = period*2 + 1
	sc.updateTargetPeriod()
}

func (sc *squareChannel) clock() {
	if sc.timer.clock() {
		sc.dutyPos = (sc.dutyPos - 1) & 0x07
	}
}

func (sc *squareChannel) output() uint8 {
	if sc.isMuted() {
		return 0
	}
	return squareDuty[sc.duty][sc.dutyPos] * sc.envelope.output()
}

func (sc *squareChannel) tickEnvelope() {
	sc.envelope.tick()
}

func (sc *squareChannel) tickLengthCounter() {
	sc.envelope.lenCounter.tick()
}

func (sc *squareChannel) tickSweep() {
	sc.sweepDivider--
	if sc.sweepDivider == 0 {
		if sc.sweepShift > 0 && sc.sweepEnabled && sc.realPeriod >= 8 && sc.sweepTargetPeriod <= 0x7FF {
			sc.setPeriod(uint16(sc.sweepTargetPeriod))
		}
		sc.sweepDivider = sc.sweepPeriod
	}

	if sc.reloadSweep {
		sc.sweepDivider = sc.sweepPeriod
		sc.reloadSweep = false
	}
}

func (sc *squareChannel) setEnabled(enabled bool) {
	sc.envelope.lenCounter.setEnabled(enabled)
}

func (sc *squareChannel) status() bool {
	return sc.envelope.lenCounter.status()
}

func (sc *squareChannel) reset() {
	sc.envelope.reset()
	sc.timer.reset()

	sc.duty = 0
	sc.dutyPos = 0
	sc.realPeriod = 0

	sc.sweepEnabled = false
	sc.sweepPeriod = 0
	sc.sweepNegate = false
	sc.sweepShift = 0
	sc.reloadSweep = false
	sc.sweepDivider = 0
	sc.updateTargetPeriod()
}
