package schedule

import "time"

// maxWindowSearch bounds the forward search in FirstInWindow so a
// pathological anchor far in the past cannot loop unbounded.
const maxWindowSearch = 100

// NextOccurrence returns the occurrence that follows t for the given
// frequency. The second return value is false for ALWAYS and ONCE, which
// have no next occurrence, and for unknown frequencies.
//
// Monthly and yearly steps are calendar-aware: the day of month is
// clamped to the last valid day of the target month, so Jan 31 advances
// to Feb 28 (29 in leap years). Semimonthly occurrences fall on the 1st
// and the 15th of each month; NextOccurrence returns whichever of those
// comes next after t. The time of day is preserved in every case.
func NextOccurrence(t time.Time, f Frequency) (time.Time, bool) {
	switch f {
	case FrequencyAlways, FrequencyOnce:
		return time.Time{}, false
	case FrequencyDaily:
		return t.AddDate(0, 0, 1), true
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7), true
	case FrequencyBiweekly:
		return t.AddDate(0, 0, 14), true
	case FrequencySemimonthly:
		return nextSemimonthly(t), true
	case FrequencyMonthly:
		return AddMonths(t, 1), true
	case FrequencyYearly:
		return AddMonths(t, 12), true
	}
	return time.Time{}, false
}

// AddMonths advances t by the given number of months, clamping the day
// to the last valid day of the target month. Unlike time.AddDate it
// never rolls into the following month (Jan 31 + 1 month is Feb 28/29,
// not Mar 2/3).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	m0 := int(m) - 1 + months
	year := y + m0/12
	month := time.Month(m0%12 + 1)

	if last := daysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// nextSemimonthly returns the next 1st or 15th strictly after t.
func nextSemimonthly(t time.Time) time.Time {
	y, m, d := t.Date()
	if d < 15 {
		return time.Date(y, m, 15, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	next := time.Date(y, m, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	return next.AddDate(0, 1, 0)
}

// FirstInWindow searches forward from anchor for the first occurrence of
// the frequency that lands inside [start, end] inclusive. It returns
// false when the frequency has no occurrences (ALWAYS, ONCE), when an
// occurrence overshoots end before landing inside the window, or when
// the search cap is exhausted.
func FirstInWindow(anchor, start, end time.Time, f Frequency) (time.Time, bool) {
	if !f.Recurring() {
		return time.Time{}, false
	}

	current := anchor
	for i := 0; i < maxWindowSearch; i++ {
		if !current.Before(start) && !current.After(end) {
			return current, true
		}
		if current.After(end) {
			return time.Time{}, false
		}
		next, ok := NextOccurrence(current, f)
		if !ok {
			return time.Time{}, false
		}
		current = next
	}
	return time.Time{}, false
}

// IsDueOn reports whether a recurring item anchored at anchor has an
// occurrence on the calendar day of date. This is the projection used by
// "due soon" listings; it applies the same canonical rules as
// NextOccurrence, in particular semimonthly items are due on the 1st and
// the 15th.
func IsDueOn(date, anchor time.Time, f Frequency) bool {
	day := truncateToDay(date)
	start := truncateToDay(anchor)
	if day.Before(start) {
		return false
	}
	daysSince := int(day.Sub(start).Hours() / 24)

	switch f {
	case FrequencyAlways:
		return true
	case FrequencyOnce:
		return daysSince == 0
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return daysSince%7 == 0
	case FrequencyBiweekly:
		return daysSince%14 == 0
	case FrequencySemimonthly:
		return day.Day() == 1 || day.Day() == 15
	case FrequencyMonthly:
		if day.Day() == anchor.Day() {
			return true
		}
		// Clamped occurrences: an anchor on the 31st is due on the last
		// day of shorter months.
		return anchor.Day() > day.Day() && day.Day() == daysIn(day.Year(), day.Month())
	case FrequencyYearly:
		return day.Month() == anchor.Month() && day.Day() == anchor.Day()
	}
	return false
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
