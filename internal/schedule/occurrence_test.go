package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextOccurrence(t *testing.T) {
	t.Run("daily", func(t *testing.T) {
		next, ok := NextOccurrence(date(2026, time.March, 10), FrequencyDaily)
		if !ok {
			t.Fatal("expected an occurrence")
		}
		if !next.Equal(date(2026, time.March, 11)) {
			t.Errorf("expected 2026-03-11, got %s", next)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		next, _ := NextOccurrence(date(2026, time.March, 10), FrequencyWeekly)
		if !next.Equal(date(2026, time.March, 17)) {
			t.Errorf("expected 2026-03-17, got %s", next)
		}
	})

	t.Run("biweekly", func(t *testing.T) {
		next, _ := NextOccurrence(date(2026, time.March, 10), FrequencyBiweekly)
		if !next.Equal(date(2026, time.March, 24)) {
			t.Errorf("expected 2026-03-24, got %s", next)
		}
	})

	t.Run("monthly_clamps_to_short_month", func(t *testing.T) {
		// Anchor on Jan 31: the series clamps to the last day of shorter
		// months rather than rolling into the next one.
		current := date(2026, time.January, 31)
		expected := []time.Time{
			date(2026, time.February, 28),
			date(2026, time.March, 28),
			date(2026, time.April, 28),
		}
		for i, want := range expected {
			next, ok := NextOccurrence(current, FrequencyMonthly)
			if !ok {
				t.Fatalf("step %d: expected an occurrence", i)
			}
			if !next.Equal(want) {
				t.Errorf("step %d: expected %s, got %s", i, want, next)
			}
			current = next
		}
	})

	t.Run("monthly_leap_year", func(t *testing.T) {
		next, _ := NextOccurrence(date(2028, time.January, 31), FrequencyMonthly)
		if !next.Equal(date(2028, time.February, 29)) {
			t.Errorf("expected 2028-02-29, got %s", next)
		}
	})

	t.Run("semimonthly_before_15th", func(t *testing.T) {
		next, _ := NextOccurrence(date(2026, time.March, 3), FrequencySemimonthly)
		if !next.Equal(date(2026, time.March, 15)) {
			t.Errorf("expected 2026-03-15, got %s", next)
		}
	})

	t.Run("semimonthly_on_or_after_15th", func(t *testing.T) {
		next, _ := NextOccurrence(date(2026, time.March, 15), FrequencySemimonthly)
		if !next.Equal(date(2026, time.April, 1)) {
			t.Errorf("expected 2026-04-01, got %s", next)
		}
	})

	t.Run("yearly", func(t *testing.T) {
		next, _ := NextOccurrence(date(2026, time.June, 30), FrequencyYearly)
		if !next.Equal(date(2027, time.June, 30)) {
			t.Errorf("expected 2027-06-30, got %s", next)
		}
	})

	t.Run("yearly_leap_day", func(t *testing.T) {
		next, _ := NextOccurrence(date(2028, time.February, 29), FrequencyYearly)
		if !next.Equal(date(2029, time.February, 28)) {
			t.Errorf("expected 2029-02-28, got %s", next)
		}
	})

	t.Run("non_recurring", func(t *testing.T) {
		for _, f := range []Frequency{FrequencyAlways, FrequencyOnce} {
			if _, ok := NextOccurrence(date(2026, time.March, 10), f); ok {
				t.Errorf("expected no occurrence for %s", f)
			}
		}
	})

	t.Run("preserves_time_of_day", func(t *testing.T) {
		anchor := time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)
		next, _ := NextOccurrence(anchor, FrequencyMonthly)
		if next.Hour() != 9 || next.Minute() != 30 {
			t.Errorf("expected 09:30, got %02d:%02d", next.Hour(), next.Minute())
		}
	})
}

func TestAddMonths(t *testing.T) {
	t.Run("december_rollover", func(t *testing.T) {
		got := AddMonths(date(2026, time.December, 15), 1)
		if !got.Equal(date(2027, time.January, 15)) {
			t.Errorf("expected 2027-01-15, got %s", got)
		}
	})

	t.Run("multi_month_clamp", func(t *testing.T) {
		got := AddMonths(date(2026, time.January, 31), 3)
		if !got.Equal(date(2026, time.April, 30)) {
			t.Errorf("expected 2026-04-30, got %s", got)
		}
	})
}

func TestFirstInWindow(t *testing.T) {
	t.Run("anchor_inside_window", func(t *testing.T) {
		got, ok := FirstInWindow(date(2026, time.January, 1), date(2026, time.January, 1), date(2026, time.January, 31), FrequencyBiweekly)
		if !ok {
			t.Fatal("expected an occurrence inside the window")
		}
		if !got.Equal(date(2026, time.January, 1)) {
			t.Errorf("expected 2026-01-01, got %s", got)
		}
	})

	t.Run("searches_forward_from_anchor", func(t *testing.T) {
		// Weekly series anchored in December reaches the January window.
		got, ok := FirstInWindow(date(2025, time.December, 2), date(2026, time.January, 5), date(2026, time.January, 31), FrequencyWeekly)
		if !ok {
			t.Fatal("expected an occurrence inside the window")
		}
		if !got.Equal(date(2026, time.January, 6)) {
			t.Errorf("expected 2026-01-06, got %s", got)
		}
	})

	t.Run("inclusive_end_bound", func(t *testing.T) {
		got, ok := FirstInWindow(date(2026, time.January, 10), date(2026, time.January, 1), date(2026, time.January, 10), FrequencyMonthly)
		if !ok {
			t.Fatal("expected the boundary occurrence to count")
		}
		if !got.Equal(date(2026, time.January, 10)) {
			t.Errorf("expected 2026-01-10, got %s", got)
		}
	})

	t.Run("overshoots_window", func(t *testing.T) {
		// Monthly on the 15th never lands inside Feb 1 to Feb 10.
		if _, ok := FirstInWindow(date(2026, time.January, 15), date(2026, time.February, 1), date(2026, time.February, 10), FrequencyMonthly); ok {
			t.Error("expected no occurrence inside the window")
		}
	})

	t.Run("anchor_past_window", func(t *testing.T) {
		if _, ok := FirstInWindow(date(2026, time.March, 1), date(2026, time.January, 1), date(2026, time.January, 31), FrequencyDaily); ok {
			t.Error("expected no occurrence for anchor past the window")
		}
	})

	t.Run("non_recurring", func(t *testing.T) {
		if _, ok := FirstInWindow(date(2026, time.January, 5), date(2026, time.January, 1), date(2026, time.January, 31), FrequencyOnce); ok {
			t.Error("expected no search for ONCE")
		}
	})

	t.Run("search_cap", func(t *testing.T) {
		// A daily anchor more than maxWindowSearch days before the window
		// exhausts the cap without reaching it.
		if _, ok := FirstInWindow(date(2025, time.January, 1), date(2026, time.January, 1), date(2026, time.January, 31), FrequencyDaily); ok {
			t.Error("expected the search cap to exhaust")
		}
	})
}

func TestIsDueOn(t *testing.T) {
	t.Run("always_and_daily", func(t *testing.T) {
		anchor := date(2026, time.January, 1)
		day := date(2026, time.March, 9)
		if !IsDueOn(day, anchor, FrequencyAlways) {
			t.Error("ALWAYS should be due on any day")
		}
		if !IsDueOn(day, anchor, FrequencyDaily) {
			t.Error("DAILY should be due on any day after the anchor")
		}
	})

	t.Run("before_anchor", func(t *testing.T) {
		if IsDueOn(date(2026, time.January, 1), date(2026, time.February, 1), FrequencyDaily) {
			t.Error("nothing is due before its anchor")
		}
	})

	t.Run("once", func(t *testing.T) {
		anchor := date(2026, time.March, 9)
		if !IsDueOn(anchor, anchor, FrequencyOnce) {
			t.Error("ONCE should be due on its anchor day")
		}
		if IsDueOn(anchor.AddDate(0, 0, 1), anchor, FrequencyOnce) {
			t.Error("ONCE should not be due after its anchor day")
		}
	})

	t.Run("biweekly", func(t *testing.T) {
		anchor := date(2026, time.January, 2)
		if !IsDueOn(date(2026, time.January, 16), anchor, FrequencyBiweekly) {
			t.Error("expected due 14 days after anchor")
		}
		if IsDueOn(date(2026, time.January, 9), anchor, FrequencyBiweekly) {
			t.Error("expected not due 7 days after anchor")
		}
	})

	t.Run("semimonthly_first_and_fifteenth", func(t *testing.T) {
		anchor := date(2026, time.January, 1)
		if !IsDueOn(date(2026, time.March, 1), anchor, FrequencySemimonthly) {
			t.Error("expected due on the 1st")
		}
		if !IsDueOn(date(2026, time.March, 15), anchor, FrequencySemimonthly) {
			t.Error("expected due on the 15th")
		}
		if IsDueOn(date(2026, time.March, 20), anchor, FrequencySemimonthly) {
			t.Error("expected not due on the 20th")
		}
	})

	t.Run("monthly_clamped_anchor", func(t *testing.T) {
		anchor := date(2026, time.January, 31)
		if !IsDueOn(date(2026, time.February, 28), anchor, FrequencyMonthly) {
			t.Error("expected clamped occurrence on the last day of February")
		}
		if IsDueOn(date(2026, time.February, 27), anchor, FrequencyMonthly) {
			t.Error("expected not due before the last day of February")
		}
	})

	t.Run("yearly", func(t *testing.T) {
		anchor := date(2025, time.June, 30)
		if !IsDueOn(date(2026, time.June, 30), anchor, FrequencyYearly) {
			t.Error("expected due on the anniversary")
		}
		if IsDueOn(date(2026, time.July, 30), anchor, FrequencyYearly) {
			t.Error("expected not due in other months")
		}
	})
}
