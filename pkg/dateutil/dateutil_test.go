package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 3, 15, 18, 42, 7, 123, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}

func TestDueDateForWeek(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		weekNumber int
		expected   time.Time
	}{
		{
			name:       "first week is seven days after disbursement",
			weekNumber: 1,
			expected:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "second week",
			weekNumber: 2,
			expected:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "tenth week",
			weekNumber: 10,
			expected:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DueDateForWeek(baseDate, tt.weekNumber)
			assert.True(t, result.Equal(tt.expected), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestWeekBounds(t *testing.T) {
	tests := []struct {
		name          string
		in            time.Time
		expectedStart time.Time
	}{
		{
			name:          "monday maps to itself",
			in:            time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC),
			expectedStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "midweek maps back to monday",
			in:            time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			expectedStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			name:          "sunday belongs to the preceding monday's week",
			in:            time.Date(2024, 1, 14, 23, 59, 0, 0, time.UTC),
			expectedStart: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := WeekBounds(tt.in)
			assert.True(t, start.Equal(tt.expectedStart), "start: expected %v, got %v", tt.expectedStart, start)

			assert.Equal(t, time.Monday, start.Weekday())
			assert.Equal(t, time.Sunday, end.Weekday())
			assert.True(t, end.After(start))
			assert.True(t, end.Before(start.AddDate(0, 0, 7)))
		})
	}
}

func TestWithinInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, WithinInclusive(start, start, end))
	assert.True(t, WithinInclusive(end, start, end))
	assert.True(t, WithinInclusive(start.AddDate(0, 0, 7), start, end))
	assert.False(t, WithinInclusive(start.Add(-time.Nanosecond), start, end))
	assert.False(t, WithinInclusive(end.Add(time.Nanosecond), start, end))
}

func TestStartOfMonthAndYear(t *testing.T) {
	ts := time.Date(2024, 7, 19, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(ts))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), StartOfYear(ts))
}
