package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate_EveryMonth(t *testing.T) {
	for month := time.January; month <= time.December; month++ {
		d := time.Date(2024, month, 28, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, d.Format("January 2, 2006"), FormatDate(d))
	}
	assert.Empty(t, FormatDate(time.Time{}))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "March 5, 2025", FormatDate(time.Date(2025, time.March, 5, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, "December 31, 1999", FormatDate(time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-01-15T00:00:00.000Z", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2025-01-15T10:30:00Z", time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-01-15", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{" 2025-01-15 ", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []string{"", "tomorrow", "15/01/2025"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{"same instant", now, 0},
		{"few hours ahead rounds up", now.Add(3 * time.Hour), 1},
		{"36 hours ahead", now.Add(36 * time.Hour), 2},
		{"exactly a week", now.AddDate(0, 0, 7), 7},
		{"a day ago", now.AddDate(0, 0, -1), -1},
		{"few hours ago", now.Add(-3 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.target, now))
			assert.Equal(t, DaysUntil(tt.target, now), DaysUntil(tt.target, now))
		})
	}
}

func TestCategoryIcon(t *testing.T) {
	assert.Equal(t, "🎵", CategoryIcon("music"))
	assert.Equal(t, "☁", CategoryIcon("cloud"))
	assert.Equal(t, CategoryIcon("other"), CategoryIcon("gardening"))
	assert.Equal(t, CategoryIcon("other"), CategoryIcon(""))
}
