// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"
	"time"
)

// Expiration is the calendar cutoff after which an implicit layer stops
// activating automatically. The manifest encodes it as "YYYY-MM-DD-hh-mm",
// exactly sixteen characters.
type Expiration struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// ParseExpiration parses the manifest expiration format.
func ParseExpiration(s string) (Expiration, error) {
	if len(s) != 16 {
		return Expiration{}, fmt.Errorf("expiration %q: want 16 characters in YYYY-MM-DD-hh-mm form", s)
	}
	var e Expiration
	n, err := fmt.Sscanf(s, "%4d-%2d-%2d-%2d-%2d", &e.Year, &e.Month, &e.Day, &e.Hour, &e.Minute)
	if err != nil || n != 5 {
		return Expiration{}, fmt.Errorf("expiration %q: not in YYYY-MM-DD-hh-mm form", s)
	}
	return e, nil
}

// Time returns the expiration instant in UTC.
func (e Expiration) Time() time.Time {
	return time.Date(e.Year, time.Month(e.Month), e.Day, e.Hour, e.Minute, 0, 0, time.UTC)
}

// ExpiredAt reports whether the cutoff has been reached: the layer stays
// active only while now is strictly before the expiration instant.
func (e Expiration) ExpiredAt(now time.Time) bool {
	return !now.UTC().Before(e.Time())
}

// String renders the expiration the way the report displays it.
func (e Expiration) String() string {
	return fmt.Sprintf("%d/%d/%d %d:%d", e.Year, e.Month, e.Day, e.Hour, e.Minute)
}
