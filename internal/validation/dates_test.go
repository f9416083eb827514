package validation_test

import (
	"testing"
	"time"

	"financialproducts/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := validation.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d, err := validation.ParseDate("2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 9, d.Day())

	for _, bad := range []string{"", "2025-3-9", "09/03/2025", "2025-02-30", "tomorrow"} {
		_, err := validation.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestReleaseDateValid(t *testing.T) {
	// Late evening so that a UTC comparison would already see the next day
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, time.June, 15, 22, 30, 0, 0, loc)

	tests := []struct {
		name    string
		release string
		want    bool
	}{
		{"yesterday", "2025-06-14", false},
		{"today", "2025-06-15", true},
		{"tomorrow", "2025-06-16", true},
		{"next year", "2026-01-01", true},
		{"last year", "2024-12-31", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.ReleaseDateValid(mustDate(t, tt.release), now))
		})
	}
}

func TestExpectedRevision(t *testing.T) {
	tests := []struct {
		release string
		want    string
	}{
		{"2025-01-01", "2026-01-01"},
		{"2025-12-31", "2026-12-31"},
		{"2024-02-29", "2025-03-01"},
		{"2027-02-28", "2028-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.release, func(t *testing.T) {
			got := validation.ExpectedRevision(mustDate(t, tt.release))
			assert.Equal(t, tt.want, got.Format(validation.DateLayout))
		})
	}
}

func TestRevisionDateValid(t *testing.T) {
	tests := []struct {
		name     string
		release  string
		revision string
		want     bool
	}{
		{"exactly one year", "2025-01-01", "2026-01-01", true},
		{"one day short", "2025-01-01", "2025-12-31", false},
		{"one day over", "2025-01-01", "2026-01-02", false},
		{"same day", "2025-01-01", "2025-01-01", false},
		{"two years", "2025-01-01", "2027-01-01", false},
		{"leap day rolls to march", "2024-02-29", "2025-03-01", true},
		{"leap day to feb 28", "2024-02-29", "2025-02-28", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.RevisionDateValid(mustDate(t, tt.release), mustDate(t, tt.revision))
			assert.Equal(t, tt.want, got)
		})
	}
}
