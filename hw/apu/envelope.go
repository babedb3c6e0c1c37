package apu

// envelope generates either a constant volume or a saw envelope, optionally
// looping. The length counter halt flag doubles as the envelope loop flag, so
// the envelope owns its channel length counter.
type envelope struct {
	lenCounter lengthCounter

	constantVolume bool
	volume         uint8 // constant volume, or divider period

	start   bool
	divider int8
	counter uint8
}

// init configures the envelope from the channel first register (--LC VVVV).
func (env *envelope) init(reg uint8) {
	env.lenCounter.halt = reg&0x20 == 0x20
	env.constantVolume = reg&0x10 == 0x10
	env.volume = reg & 0x0F
}

func (env *envelope) restart() {
	env.start = true
}

func (env *envelope) reset() {
	env.lenCounter.reset()
	env.constantVolume = false
	env.volume = 0
	env.start = false
	env.divider = 0
	env.counter = 0
}

// output returns the current volume, 0 if the length counter has expired.
func (env *envelope) output() uint8 {
	if !env.lenCounter.status() {
		return 0
	}
	if env.constantVolume {
		return env.volume
	}
	return env.counter
}

func (env *envelope) tick() {
	if env.start {
		env.start = false
		env.counter = 15
		env.divider = int8(env.volume)
		return
	}

	env.divider--
	if env.divider < 0 {
		env.divider = int8(env.volume)
		if env.counter > 0 {
			env.counter--
		} else if env.lenCounter.halt {
			env.counter = 15
		}
	}
}
