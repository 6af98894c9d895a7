package httpapi

import "github.com/jonboulle/clockwork"

// clock times requests; tests swap in a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the request time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
