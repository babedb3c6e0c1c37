package apu

import "nescore/emu/log"

// Frame sequencer steps, in CPU cycles since the start of the sequence.
//
//	mode 0 (4-step)          mode 1 (5-step)
//	 3729   quarter           3729   quarter
//	 7457   quarter+half      7457   quarter+half
//	11186   quarter          11186   quarter
//	14915   quarter+half,IRQ 14915   -
//	                         18641   quarter+half
const (
	step1          = 3729
	step2          = 7457
	step3          = 11186
	step4          = 14915
	step5          = 18641
	fourStepLength = 14916
	fiveStepLength = 18641
)

type frameCounter struct {
	cycle      uint32
	fiveStep   bool
	inhibitIRQ bool
	irq        bool
}

func (fc *frameCounter) reset() {
	fc.cycle = 0
	fc.fiveStep = false
	fc.inhibitIRQ = false
	fc.irq = false
}

// write handles $4017 writes (MI-- ----). It returns the frame type to clock
// immediately.
func (fc *frameCounter) write(val uint8) frameType {
	fc.fiveStep = val&0x80 == 0x80
	fc.inhibitIRQ = val&0x40 == 0x40
	if fc.inhibitIRQ {
		fc.irq = false
	}
	fc.cycle = 0

	log.ModSound.DebugZ("write frame counter").
		Bool("5-step", fc.fiveStep).
		Bool("irq inhibit", fc.inhibitIRQ).
		End()

	// Writing to $4017 with bit 7 set will immediately generate a clock for
	// both the quarter frame and the half frame units.
	if fc.fiveStep {
		return halfFrame
	}
	return noFrame
}

// clock advances the sequencer by one CPU cycle.
func (fc *frameCounter) clock() frameType {
	fc.cycle++

	ftyp := noFrame
	switch fc.cycle {
	case step1, step3:
		ftyp = quarterFrame
	case step2:
		ftyp = halfFrame
	case step4:
		if !fc.fiveStep {
			ftyp = halfFrame
			if !fc.inhibitIRQ {
				fc.irq = true
				log.ModSound.DebugZ("frame irq").End()
			}
		}
	case step5:
		if fc.fiveStep {
			ftyp = halfFrame
		}
	}

	length := uint32(fourStepLength)
	if fc.fiveStep {
		length = fiveStepLength
	}
	if fc.cycle >= length {
		fc.cycle = 0
	}
	return ftyp
}
