package passenger

import "time"

// Clock abstracts time.Now so that age math and century pivots can be
// tested against a frozen "today".
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
