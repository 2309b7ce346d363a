package utils

import (
	"testing"
	"time"
)

func TestAtoiDefault(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"", 10, 10},
		{"x", 5, 5},
		{"-3", 0, -3},
	}
	for _, tt := range tests {
		if got := AtoiDefault(tt.in, tt.def); got != tt.want {
			t.Errorf("AtoiDefault(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"future", now.Add(time.Hour), "just now"},
		{"one minute", now.Add(-90 * time.Second), "a minute ago"},
		{"minutes", now.Add(-45 * time.Minute), "45 minutes ago"},
		{"one hour", now.Add(-90 * time.Minute), "about an hour ago"},
		{"hours", now.Add(-7 * time.Hour), "about 7 hours ago"},
		{"one day", now.Add(-30 * time.Hour), "a day ago"},
		{"days", now.Add(-6 * 24 * time.Hour), "6 days ago"},
		{"a month", now.Add(-40 * 24 * time.Hour), "about a month ago"},
		{"months", now.Add(-100 * 24 * time.Hour), "about 3 months ago"},
		{"a year", now.Add(-400 * 24 * time.Hour), "about a year ago"},
		{"years", now.Add(-3 * 365 * 24 * time.Hour), "about 3 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeAgo(tt.t, now); got != tt.want {
				t.Fatalf("TimeAgo = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSlotEnd(t *testing.T) {
	tests := []struct {
		slot     string
		duration int
		want     string
	}{
		{"10:00", 60, "11:00"},
		{"09:30", 45, "10:15"},
		{"23:30", 60, "00:30"}, // midnight wrap
	}
	for _, tt := range tests {
		got, err := SlotEnd(tt.slot, tt.duration)
		if err != nil {
			t.Fatalf("SlotEnd(%q, %d): %v", tt.slot, tt.duration, err)
		}
		if got != tt.want {
			t.Errorf("SlotEnd(%q, %d) = %q, want %q", tt.slot, tt.duration, got, tt.want)
		}
	}

	if _, err := SlotEnd("25:99", 30); err == nil {
		t.Error("expected error for malformed timeslot")
	}
}

func TestEventSpan(t *testing.T) {
	start, end, err := EventSpan("22-07-2026", "10:00", 60)
	if err != nil {
		t.Fatalf("EventSpan: %v", err)
	}
	if start != "2026-07-22T10:00:00" {
		t.Errorf("start = %q", start)
	}
	if end != "2026-07-22T11:00:00" {
		t.Errorf("end = %q", end)
	}

	if _, _, err := EventSpan("2026-07-22", "10:00", 60); err == nil {
		t.Error("expected error for wrong date layout")
	}
	if _, _, err := EventSpan("22-07-2026", "10h00", 60); err == nil {
		t.Error("expected error for wrong timeslot layout")
	}
}

func TestIsPastClass(t *testing.T) {
	now := time.Date(2026, 7, 22, 9, 0, 0, 0, time.UTC)
	if !IsPastClass("21-07-2026", now) {
		t.Error("yesterday should be past")
	}
	if IsPastClass("22-07-2026", now) {
		t.Error("today is not past")
	}
	if IsPastClass("23-07-2026", now) {
		t.Error("tomorrow is not past")
	}
	if IsPastClass("garbage", now) {
		t.Error("unparseable date should not be past")
	}
}

func TestValidTimeslot(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		if !ValidTimeslot(ok) {
			t.Errorf("ValidTimeslot(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"24:00", "9:3", "garbage", ""} {
		if ValidTimeslot(bad) {
			t.Errorf("ValidTimeslot(%q) = true, want false", bad)
		}
	}
}
