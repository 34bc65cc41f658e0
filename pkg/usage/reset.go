package usage

import "time"

// ShouldReset reports whether now falls in a later calendar month (UTC) than windowStart.
// Crossing a month boundary triggers a reset; elapsed duration does not.
func ShouldReset(windowStart, now time.Time) bool {
	ws, n := windowStart.UTC(), now.UTC()
	if n.Year() != ws.Year() {
		return n.Year() > ws.Year()
	}
	return n.Month() > ws.Month()
}

// NextWindowStart returns the first instant of now's month in UTC.
func NextWindowStart(now time.Time) time.Time {
	n := now.UTC()
	return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// windowEnd returns the first instant of the month after windowStart.
func windowEnd(windowStart time.Time) time.Time {
	return NextWindowStart(windowStart).AddDate(0, 1, 0)
}
