package utils

import (
	"fmt"
	"time"
)

// ParseClassDate parses the DD-MM-YYYY date format classes are stored with.
func ParseClassDate(s string) (time.Time, error) {
	return time.Parse("02-01-2006", s)
}

// ValidTimeslot reports whether s is a well-formed HH:MM wall-clock value.
func ValidTimeslot(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// SlotEnd returns the HH:MM end time of a slot starting at timeslot and
// lasting duration minutes, wrapping past midnight.
func SlotEnd(timeslot string, duration int) (string, error) {
	start, err := time.Parse("15:04", timeslot)
	if err != nil {
		return "", err
	}
	end := start.Add(time.Duration(duration) * time.Minute)
	return end.Format("15:04"), nil
}

// EventSpan converts a stored class date/timeslot/duration triple into the
// ISO-ish start/end strings the calendar UI consumes
// ("2006-01-02T15:04:00"). Errors surface malformed stored values.
func EventSpan(date, timeslot string, duration int) (start, end string, err error) {
	d, err := ParseClassDate(date)
	if err != nil {
		return "", "", fmt.Errorf("parse date %q: %w", date, err)
	}
	t, err := time.Parse("15:04", timeslot)
	if err != nil {
		return "", "", fmt.Errorf("parse timeslot %q: %w", timeslot, err)
	}
	begin := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	finish := begin.Add(time.Duration(duration) * time.Minute)
	const layout = "2006-01-02T15:04:05"
	return begin.Format(layout), finish.Format(layout), nil
}

// IsPastClass reports whether a stored class date lies strictly before now's
// calendar day.
func IsPastClass(date string, now time.Time) bool {
	d, err := ParseClassDate(date)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}
