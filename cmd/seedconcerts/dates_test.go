package main

import (
	"testing"
	"time"
)

func TestParseDisplayDate(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		display string
		want    time.Time
	}{
		{"Tuesday, April 22nd - 1:00 PM", time.Date(2026, time.April, 22, 13, 0, 0, 0, loc)},
		{"Friday, May 2nd - 8:00 PM", time.Date(2026, time.May, 2, 20, 0, 0, 0, loc)},
		{"Sunday, June 1st - 11:30 AM", time.Date(2026, time.June, 1, 11, 30, 0, 0, loc)},
		{"Monday, July 13th - 12:00 AM", time.Date(2026, time.July, 13, 0, 0, 0, 0, loc)},
		{"Saturday, August 3rd", time.Date(2026, time.August, 3, 0, 0, 0, 0, loc)},
		{"December 31st - 9:00 PM", time.Date(2026, time.December, 31, 21, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		got, err := parseDisplayDate(tt.display, 2026, loc)
		if err != nil {
			t.Errorf("parseDisplayDate(%q) error: %v", tt.display, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseDisplayDate(%q) = %v, want %v", tt.display, got, tt.want)
		}
	}
}

func TestParseDisplayDateRejectsGarbage(t *testing.T) {
	for _, display := range []string{"", "sometime soon", "13:00 on the 5th"} {
		if _, err := parseDisplayDate(display, 2026, time.UTC); err == nil {
			t.Errorf("parseDisplayDate(%q) should fail", display)
		}
	}
}
