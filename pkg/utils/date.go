package utils

import "time"

// TruncateToDay drops the intraday component of t.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(TruncateToDay(end).Sub(TruncateToDay(start)).Hours() / 24)
}
