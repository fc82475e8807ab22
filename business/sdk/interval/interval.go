// Package interval provides the time range semantics shared by the booking
// and availability domains. Ranges are half-open: [start, end).
package interval

import "time"

// Overlaps reports whether two half-open ranges intersect. The test is strict
// on both ends, so ranges that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsValidRange reports whether end is strictly after start.
func IsValidRange(start, end time.Time) bool {
	return end.After(start)
}

// Day truncates the specified time to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DayWindow expands a calendar date into the UTC window covering that whole
// day, from midnight through 23:59:59.999.
func DayWindow(date time.Time) (start, end time.Time) {
	start = Day(date)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}
