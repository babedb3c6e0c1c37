package apu

import "nescore/emu/log"

// The dmc (Delta Modulation Channel) can output samples composed of 1-bit
// deltas and its DAC can be directly changed. It contains the following: DMA
// reader, interrupt flag, sample buffer, Timer, output unit, 7-bit counter tied
// to 7-bit DAC.
//
//	+----------+    +---------+
//	|DMA Reader|    |  Timer  |
//	+----------+    +---------+
//	     |               |
//	     |               v
//	+----------+    +---------+     +---------+     +---------+
//	|  Buffer  |----| Output  |---->| Counter |---->|   DAC   |
//	+----------+    +---------+     +---------+     +---------+
type dmc struct {
	timer timer

	// read fetches sample bytes from CPU memory.
	read func(addr uint16) uint8

	sampleAddr uint16
	sampleLen  uint16
	outlvl     uint8
	irqEnabled bool
	loop       bool
	irq        bool

	curaddr   uint16
	remaining uint16
	readbuf   uint8
	bufEmpty  bool

	shiftReg uint8
	bitsLeft uint8
	silence  bool
}

var dmcPeriodLUT = [16]uint16{428, 380, 340, 320, 286, 254, 226, 214, 190, 160, 142, 128, 106, 84, 72, 54}

func (dc *dmc) reset() {
	dc.timer.reset()

	dc.sampleAddr = 0xC000
	dc.sampleLen = 1
	dc.outlvl = 0
	dc.irqEnabled = false
	dc.loop = false
	dc.irq = false

	dc.curaddr = 0
	dc.remaining = 0
	dc.readbuf = 0
	dc.bufEmpty = true

	dc.shiftReg = 0
	dc.bitsLeft = 8
	dc.silence = true

	dc.timer.period = dmcPeriodLUT[0] - 1
	dc.timer.counter = dc.timer.period
}

func (dc *dmc) write(reg uint16, val uint8) {
	switch reg & 0x03 {
	case 0:
		// $4010 IL-- RRRR
		dc.irqEnabled = val&0x80 == 0x80
		dc.loop = val&0x40 == 0x40
		dc.timer.period = dmcPeriodLUT[val&0x0F] - 1
		if !dc.irqEnabled {
			dc.irq = false
		}

		log.ModSound.DebugZ("write dmc flags").
			Uint8("reg", val).
			Bool("irq enabled", dc.irqEnabled).
			Bool("loop", dc.loop).
			Uint16("period", dc.timer.period).
			End()
	case 1:
		// $4011 -DDD DDDD
		dc.outlvl = val & 0x7F

		log.ModSound.DebugZ("write dmc load").Uint8("out lvl", dc.outlvl).End()
	case 2:
		// $4012 start of DMC sample is at address $C000 + $40*$xx
		dc.sampleAddr = 0xC000 | uint16(val)<<6

		log.ModSound.DebugZ("write dmc sample addr").Hex16("addr", dc.sampleAddr).End()
	case 3:
		// $4013 Length of DMC waveform is $10*$xx + 1 bytes (128*$xx + 8 samples)
		dc.sampleLen = uint16(val)<<4 | 0x1

		log.ModSound.DebugZ("write dmc sample len").Uint16("len", dc.sampleLen).End()
	}
}

func (dc *dmc) restart() {
	dc.curaddr = dc.sampleAddr
	dc.remaining = dc.sampleLen
}

func (dc *dmc) setEnabled(enabled bool) {
	if !enabled {
		dc.remaining = 0
		return
	}
	if dc.remaining == 0 {
		dc.restart()
		dc.fetch()
	}
}

func (dc *dmc) status() bool {
	return dc.remaining > 0
}

// fetch refills the sample buffer, if it's empty and there are bytes
// remaining.
func (dc *dmc) fetch() {
	if !dc.bufEmpty || dc.remaining == 0 || dc.read == nil {
		return
	}

	dc.readbuf = dc.read(dc.curaddr)
	dc.bufEmpty = false

	// Address wraps around to $8000, not $0000.
	dc.curaddr++
	if dc.curaddr == 0 {
		dc.curaddr = 0x8000
	}

	dc.remaining--
	if dc.remaining == 0 {
		switch {
		case dc.loop:
			dc.restart()
		case dc.irqEnabled:
			dc.irq = true
			log.ModSound.DebugZ("dmc irq").End()
		}
	}
}

func (dc *dmc) clock() {
	dc.fetch()
	if !dc.timer.clock() {
		return
	}

	if !dc.silence {
		if dc.shiftReg&0x01 == 0x01 {
			if dc.outlvl <= 125 {
				dc.outlvl += 2
			}
		} else if dc.outlvl >= 2 {
			dc.outlvl -= 2
		}
	}
	dc.shiftReg >>= 1

	dc.bitsLeft--
	if dc.bitsLeft == 0 {
		// Start a new output cycle.
		dc.bitsLeft = 8
		if dc.bufEmpty {
			dc.silence = true
		} else {
			dc.silence = false
			dc.shiftReg = dc.readbuf
			dc.bufEmpty = true
			dc.fetch()
		}
	}
}

func (dc *dmc) output() uint8 {
	return dc.outlvl
}
