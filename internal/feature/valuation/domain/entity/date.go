package entity

import (
	"fmt"
	"time"
)

// JST is the fixed UTC+9 zone input dates are interpreted in.
var JST = time.FixedZone("JST", 9*60*60)

// ParseDate parses "YYYY-MM-DD" as midnight JST.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Yesterday returns now in JST minus one day, keeping the time of day.
// Explicit dates go through ParseDate and stay at midnight.
func Yesterday(now time.Time) time.Time {
	return now.In(JST).AddDate(0, 0, -1)
}
