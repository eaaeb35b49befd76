// Package clock provides the secondary.Clock implementations.
package clock

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/example/pledge/internal/ports/secondary"
)

// System reads the wall clock in a fixed location, so "today" follows the
// user's time zone rather than the host's.
type System struct {
	loc *time.Location
}

// NewSystem returns a clock for the named IANA zone. An empty name uses the
// host's local zone.
func NewSystem(zone string) (*System, error) {
	if zone == "" {
		return &System{loc: time.Local}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return &System{loc: loc}, nil
}

// Now returns the current time in the clock's location.
func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

// Fixed always returns the same instant. Used for back-dated commands and tests.
type Fixed time.Time

// Now returns the fixed instant.
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

var (
	_ secondary.Clock = (*System)(nil)
	_ secondary.Clock = Fixed{}
)
