// Package schedule implements the recurrence rules for bills and income:
// how a frequency advances an occurrence date, how to find the first
// occurrence inside a date window, and whether an occurrence falls on a
// given day. All arithmetic is done in the time.Time's own location;
// callers are expected to pass UTC instants.
package schedule

// Frequency is the closed set of recurrence frequencies supported by the
// system. There are no cron-like expressions; each value maps to a fixed
// advancement rule.
type Frequency string

const (
	// FrequencyAlways marks a bill as continuously applicable. It has no
	// occurrence dates and is exempt from window validation.
	FrequencyAlways Frequency = "always"
	// FrequencyOnce marks a one-time bill. It does not advance.
	FrequencyOnce        Frequency = "once"
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencyBiweekly    Frequency = "biweekly"
	FrequencySemimonthly Frequency = "semimonthly"
	FrequencyMonthly     Frequency = "monthly"
	FrequencyYearly      Frequency = "yearly"
)

// Frequencies lists every valid frequency value.
var Frequencies = []Frequency{
	FrequencyAlways,
	FrequencyOnce,
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyBiweekly,
	FrequencySemimonthly,
	FrequencyMonthly,
	FrequencyYearly,
}

// Valid reports whether f is one of the supported frequency values.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyAlways, FrequencyOnce, FrequencyDaily, FrequencyWeekly,
		FrequencyBiweekly, FrequencySemimonthly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Recurring reports whether f produces a series of occurrence dates.
// ALWAYS and ONCE do not recur and are exempt from window validation.
func (f Frequency) Recurring() bool {
	return f.Valid() && f != FrequencyAlways && f != FrequencyOnce
}

func (f Frequency) String() string { return string(f) }
