package models

import "time"

// DateLayout is the wire format for calendar dates (no time component).
const DateLayout = "2006-01-02"

// WeekdayNames lists the seven days of a sheet week in display order,
// Monday first.
var WeekdayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// MondayOf returns the Monday on or before the given date. The input is
// normalised to a fixed mid-day UTC instant before any weekday arithmetic so
// that DST shifts or UTC offset conversions cannot move the result across a
// day boundary.
func MondayOf(d time.Time) time.Time {
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)

	// time.Weekday has Sunday=0; a Sunday belongs to the week that started
	// six days earlier.
	offset := int(noon.Weekday()) - 1
	if noon.Weekday() == time.Sunday {
		offset = 6
	}

	monday := noon.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// SundayOf returns the Sunday ending the week that starts on the given
// Monday. Calendar-day addition keeps the result DST-safe.
func SundayOf(monday time.Time) time.Time {
	sunday := monday.AddDate(0, 0, 6)
	return time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekRange normalises an arbitrary anchor date to its Monday-Sunday window.
func WeekRange(anchor time.Time) (monday, sunday time.Time) {
	monday = MondayOf(anchor)
	return monday, SundayOf(monday)
}

// WeekdayIndex maps a date to its position within the sheet week,
// Monday=0 through Sunday=6.
func WeekdayIndex(d time.Time) int {
	if d.Weekday() == time.Sunday {
		return 6
	}
	return int(d.Weekday()) - 1
}

// ParseDate parses a YYYY-MM-DD value into a UTC midnight instant.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// WithinWeek reports whether a date falls inside the 7-day window starting
// at monday.
func WithinWeek(d, monday time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(start.AddDate(0, 0, 6))
}
