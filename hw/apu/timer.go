package apu

// timer is a divider clocked once per CPU cycle. When its counter reaches 0
// it is reloaded with the period and outputs a clock.
type timer struct {
	period  uint16
	counter uint16
}

func (t *timer) reset() {
	t.period = 0
	t.counter = 0
}

// clock decrements the timer and reports whether it has just been reloaded.
func (t *timer) clock() bool {
	if t.counter == 0 {
		t.counter = t.period
		return true
	}
	t.counter--
	return false
}
