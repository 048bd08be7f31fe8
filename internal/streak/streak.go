// Package streak tracks consecutive calendar days of activity.
package streak

import "time"

// Day truncates t to its calendar date in loc. The result is expressed in UTC
// so that dates from different zones compare by value.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Update applies one day of activity at now to a streak whose last activity
// was lastActivity (nil if the user was never active).
//
// Rules, in order: first activity starts a streak of 1; activity on the same
// day changes nothing; activity on the following day extends the streak;
// anything else (a gap, or a clock that moved backwards) restarts at 1.
func Update(current int, lastActivity *time.Time, now time.Time, loc *time.Location) (int, bool) {
	if lastActivity == nil {
		return 1, true
	}

	today := Day(now, loc)
	last := Day(*lastActivity, loc)

	switch {
	case today.Equal(last):
		return current, false
	case today.Equal(last.AddDate(0, 0, 1)):
		return current + 1, true
	default:
		return 1, true
	}
}
