package clock

import "time"

// Clock abstracts "now" so service tests can pin it.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Frozen always reports the instant it was created with until advanced.
type Frozen struct {
	current time.Time
}

func NewFrozen(t time.Time) *Frozen {
	return &Frozen{current: t}
}

func (f *Frozen) Now() time.Time {
	return f.current
}

func (f *Frozen) Advance(d time.Duration) {
	f.current = f.current.Add(d)
}
