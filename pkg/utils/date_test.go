package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2024, time.March, 15, 13, 45, 12, 999, time.UTC)

	got := TruncateToDay(in)

	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "same day",
			start: time.Date(2024, time.March, 15, 1, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.March, 15, 23, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "ten days",
			start: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
			want:  10,
		},
		{
			name:  "intraday components ignored",
			start: time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC),
			end:   time.Date(2024, time.March, 2, 1, 0, 0, 0, time.UTC),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end))
		})
	}
}
