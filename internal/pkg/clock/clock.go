package clock

import "time"

// Clock supplies the current time. Payment variants stamp their creation
// time through this capability instead of calling time.Now directly, so
// tests can pin timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a clock backed by the system time, normalised to UTC.
func System() Clock { return systemClock{} }

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }
