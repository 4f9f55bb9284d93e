package util

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestStartOfDay(t *testing.T) {
	got := StartOfDay(time.Date(2026, 3, 15, 18, 42, 7, 999, time.UTC))
	want := date(2026, 3, 15)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2026, 1, 10), date(2026, 1, 10), 0},
		{"ignores time of day", time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC), time.Date(2026, 1, 11, 1, 0, 0, 0, time.UTC), 1},
		{"across month boundary", date(2026, 1, 25), date(2026, 2, 5), 11},
		{"negative when reversed", date(2026, 1, 11), date(2026, 1, 10), -1},
		{"across DST-free leap day", date(2024, 2, 28), date(2024, 3, 1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("Expected %d days, got %d", tt.want, got)
			}
		})
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month", date(2026, 1, 15), 1, date(2026, 2, 15)},
		{"several months", date(2026, 1, 15), 6, date(2026, 7, 15)},
		{"clamps Jan 31 to Feb 28", date(2026, 1, 31), 1, date(2026, 2, 28)},
		{"clamps Jan 31 to Feb 29 in leap year", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"clamps to 30-day month", date(2026, 3, 31), 1, date(2026, 4, 30)},
		{"does not stick to clamped day", date(2026, 1, 30), 2, date(2026, 3, 30)},
		{"rolls over year", date(2026, 11, 15), 3, date(2027, 2, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonthsClamped(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
