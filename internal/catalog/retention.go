package catalog

import "time"

// RetentionMonths is how long a sold item stays listed before the sweep removes it.
const RetentionMonths = 1

// SubtractMonths moves t back n calendar months, keeping the clock time and
// clamping the day to the last day of the target month (Mar 31 -> Feb 28/29).
// time.AddDate would normalise Feb 31 into early March instead.
func SubtractMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(target.Year(), target.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// RetentionCutoff is the instant before which a sale is old enough to purge.
func RetentionCutoff(now time.Time) time.Time {
	return SubtractMonths(now, RetentionMonths)
}

// Expired reports whether a product sold at soldAt is due for the sweep.
func Expired(soldAt *time.Time, now time.Time) bool {
	return soldAt != nil && soldAt.Before(RetentionCutoff(now))
}
