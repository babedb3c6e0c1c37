package apu

import "strings"

// CPUClockHz is the NTSC CPU clock rate. The APU is clocked at this rate.
const CPUClockHz = 1789773

//go:generate go tool stringer -type=Channel

// Channel identifies one of the APU channels.
type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise
	DPCM

	NumChannels
)

// ChannelByName returns the channel with the given name, case insensitive.
func ChannelByName(name string) (Channel, bool) {
	for ch := range NumChannels {
		if strings.EqualFold(ch.String(), name) {
			return ch, true
		}
	}
	return NumChannels, false
}

type frameType uint8

const (
	noFrame frameType = iota
	quarterFrame
	halfFrame // a half frame also clocks the quarter frame units
)
