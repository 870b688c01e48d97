package services

import (
	"fmt"
	"time"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/schedule"
)

// resolveBudgetBillDueDate implements the budget window validation for
// attaching a bill:
//
//   - An explicit due date must fall inside [budget.StartDate,
//     budget.EndDate] inclusive.
//   - ALWAYS bills carry no schedule; their due date is the attachment
//     time and they are always accepted.
//   - ONCE bills have a single occurrence, the anchor date itself.
//   - Recurring bills search forward from the bill's anchor (the budget
//     start when the bill has none) for the first occurrence inside the
//     window.
//
// The returned date becomes the budget bill's due date.
func resolveBudgetBillDueDate(bill *models.Bill, budget *models.Budget, explicit *time.Time, now time.Time) (*time.Time, error) {
	windowStart := budget.StartDate.UTC()
	windowEnd := budget.EndDate.UTC()

	if explicit != nil {
		due := explicit.UTC()
		if due.Before(windowStart) || due.After(windowEnd) {
			return nil, apperrors.WithMessage(apperrors.ErrBillOutOfWindow,
				fmt.Sprintf("Due date %s is outside budget window (%s to %s)",
					due.Format("2006-01-02"), windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02")))
		}
		return &due, nil
	}

	anchor := bill.StartFreq.UTC()
	if anchor.IsZero() {
		anchor = windowStart
	}

	switch bill.Frequency {
	case schedule.FrequencyAlways:
		due := now
		return &due, nil

	case schedule.FrequencyOnce:
		if anchor.Before(windowStart) || anchor.After(windowEnd) {
			return nil, outOfWindowError(bill, windowStart, windowEnd)
		}
		return &anchor, nil

	default:
		due, ok := schedule.FirstInWindow(anchor, windowStart, windowEnd, bill.Frequency)
		if !ok {
			return nil, outOfWindowError(bill, windowStart, windowEnd)
		}
		return &due, nil
	}
}

func outOfWindowError(bill *models.Bill, windowStart, windowEnd time.Time) error {
	return apperrors.WithMessage(apperrors.ErrBillOutOfWindow,
		fmt.Sprintf("Bill '%s' does not occur within budget date window (%s to %s)",
			bill.Name, windowStart.Format("2006-01-02"), windowEnd.Format("2006-01-02")))
}
