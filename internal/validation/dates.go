package validation

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of product dates
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-MM-dd date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ReleaseDateValid reports whether release is today or later.
// Only calendar dates are compared, today being taken in now's location.
func ReleaseDateValid(release, now time.Time) bool {
	return !calendarDay(release).Before(calendarDay(now))
}

// ExpectedRevision returns the release date plus one calendar year.
// Feb 29 normalizes to Mar 1 of the following year.
func ExpectedRevision(release time.Time) time.Time {
	return release.AddDate(1, 0, 0)
}

// RevisionDateValid reports whether revision falls exactly one year after release
func RevisionDateValid(release, revision time.Time) bool {
	expected := ExpectedRevision(calendarDay(release))
	return calendarDay(revision).Equal(expected)
}

// calendarDay drops the time of day and the location, keeping year, month and day
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
