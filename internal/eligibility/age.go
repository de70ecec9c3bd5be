package eligibility

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of ApplicantProfile.BirthDate.
const DateLayout = "2006-01-02"

// Age returns the whole years between birthDate and today. A birthday that
// falls on today counts as already reached. Birth dates after today yield 0.
func Age(birthDate, today time.Time) int {
	years := today.Year() - birthDate.Year()
	if today.Month() < birthDate.Month() ||
		(today.Month() == birthDate.Month() && today.Day() < birthDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ParseBirthDate parses a YYYY-MM-DD date.
func ParseBirthDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse birth date %q: %w", raw, err)
	}
	return t, nil
}
