package expression

import "time"

// Clock supplies the resolution instant
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now calls f
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Resolver resolves preset token pairs in a fixed location
type Resolver struct {
	clock Clock
	loc   *time.Location
}

// NewResolver creates a resolver. Nil arguments fall back to the system clock
// and UTC.
func NewResolver(clock Clock, loc *time.Location) *Resolver {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{clock: clock, loc: loc}
}

// Now returns the current instant in the resolver's location
func (r *Resolver) Now() time.Time {
	return r.clock.Now().In(r.loc)
}

// Location returns the resolver's location
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Resolve returns the concrete range when value is a preset token pair
func (r *Resolver) Resolve(value interface{}) ([2]string, bool) {
	p, ok := Lookup(value)
	if !ok {
		return [2]string{}, false
	}
	return p.Resolve(r.Now()), true
}
