package booking

import "time"

// Clock supplies the current time. Window math is tested against a fixed
// clock; production wiring uses SystemClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
