// Package clock provides the current local calendar date to the catalog.
package clock

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock reports today's date in the local time zone.
type Clock interface {
	Today() civil.Date
}

// System reads the wall clock.
type System struct{}

// Today returns the local date of time.Now.
func (System) Today() civil.Date {
	return civil.DateOf(time.Now())
}

// Manual is a settable clock for tests and simulations.
type Manual struct {
	date civil.Date
}

// NewManual returns a Manual clock fixed at d.
func NewManual(d civil.Date) *Manual {
	return &Manual{date: d}
}

func (m *Manual) Today() civil.Date {
	return m.date
}

// Set moves the clock to d.
func (m *Manual) Set(d civil.Date) {
	m.date = d
}

// Advance moves the clock by n days; n may be negative.
func (m *Manual) Advance(days int) {
	m.date = m.date.AddDays(days)
}
