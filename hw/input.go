package hw

import "nescore/emu/log"

// Standard controller buttons, in the order they are shifted out.
const (
	ButtonA uint8 = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// InputPorts handles the serial I/O with the 2 standard controllers, at $4016
// and $4017.
type InputPorts struct {
	buttons [2]uint8 // buttons currently pressed
	state   [2]uint8 // state shift registers

	strobe bool
}

func (ip *InputPorts) reset() {
	ip.state = [2]uint8{}
	ip.strobe = false
}

// capture state of both controllers.
func (ip *InputPorts) loadstate() {
	ip.state = ip.buttons
}

func (ip *InputPorts) write(val uint8) {
	prevStrobe := ip.strobe
	ip.strobe = val&1 == 1
	if ip.strobe || prevStrobe {
		// Controllers are continuously reloaded while strobe is high, the
		// state latched on the falling edge is then shifted out.
		ip.loadstate()
	}
	if prevStrobe != ip.strobe {
		log.ModInput.DebugZ("strobe").Bool("high", ip.strobe).End()
	}
}

func (ip *InputPorts) read(port uint8, peek bool) uint8 {
	if ip.strobe {
		ip.loadstate()
		return 0x40 | ip.state[port]&1
	}
	if peek {
		return 0x40 | ip.state[port]&1
	}

	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// After 8 bits are read, all subsequent bits will report 1 on a standard
	// NES controller.
	ip.state[port] |= 0x80

	// Emulate open bus behavior.
	return 0x40 | ret
}
