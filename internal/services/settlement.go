package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fiscus/internal/config"
	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
)

// UpdateBudgetBill applies a patch to a budget bill. When the patch
// marks the bill paid (positive paid amount with a resolved paid-on
// instant), the settlement engine runs: the payment account is debited
// with a paired ledger entry, and for transfer bills the transfer
// account is credited with its own entry. The budget-bill update, the
// ledger appends, and both balance mutations commit as one database
// transaction.
//
// Re-settling an already-paid budget bill is governed by the configured
// settlement policy: reject it, or reverse the prior ledger effect and
// apply the new settlement as a correction.
func (s *budgetService) UpdateBudgetBill(budgetID, budgetBillID string, patch BudgetBillPatch) (*models.BudgetBill, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}
	budgetBill, err := s.getBudgetBill(budgetID, budgetBillID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	paidOn := normalizePaidOn(patch, now)
	markingPaid := patch.PaidAmount != nil && patch.PaidAmount.IsPositive() && paidOn != nil

	var account *models.Account
	if markingPaid {
		account, err = s.accountService.GetAccountByID(budgetBill.AccountID)
		if err != nil {
			return nil, err
		}
		if !account.Enabled {
			return nil, apperrors.WithMessage(apperrors.ErrAccountDisabled,
				"Cannot pay bill using disabled account '"+account.Name+"'")
		}
		if budgetBill.Paid() && s.settlePolicy == config.SettlePolicyReject {
			return nil, apperrors.WithMessage(apperrors.ErrAlreadySettled,
				"Budget bill was already settled on "+budgetBill.PaidOn.Format("2006-01-02"))
		}
	}

	updates := make(map[string]interface{})
	if patch.BudgetedAmount != nil {
		updates["budgeted_amount"] = *patch.BudgetedAmount
	}
	if patch.DueDate != nil {
		updates["due_date"] = patch.DueDate.UTC()
	}
	if patch.Note != nil {
		updates["note"] = *patch.Note
	}
	if patch.PaidAmount != nil {
		updates["paid_amount"] = *patch.PaidAmount
	}
	if paidOn != nil {
		updates["paid_on"] = *paidOn
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if markingPaid && budgetBill.Paid() {
			// Correction path: undo the prior settlement's ledger effect
			// before applying the new one.
			if err := s.reverseSettlement(tx, budgetBill, account); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(budgetBill).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if !markingPaid {
			return nil
		}

		note := budgetBill.Note
		if note == "" {
			note = "Payment for bill via budget " + budget.Name
		}

		if err := applyBalanceChange(tx, account, &budgetBill.ID, models.TransactionTypeDebit, *patch.PaidAmount, note); err != nil {
			return err
		}

		if budgetBill.TransferAccountID == nil {
			return nil
		}

		var transferAccount models.Account
		if err := tx.Where("id = ?", *budgetBill.TransferAccountID).First(&transferAccount).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.WithMessage(apperrors.ErrAccountNotFound, "Transfer account not found")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		transferNote := "Transfer from " + account.Name + ": " + note
		return applyBalanceChange(tx, &transferAccount, &budgetBill.ID, models.TransactionTypeCredit, *patch.PaidAmount, transferNote)
	})
	if err != nil {
		return nil, err
	}
	return budgetBill, nil
}

// normalizePaidOn resolves the paid-on instant for a settlement patch:
//
//   - No positive paid amount: pass any supplied paid-on through in UTC.
//   - Positive paid amount without paid-on: default to now.
//   - Supplied paid-on at exactly midnight (date-only input): splice the
//     current UTC time of day onto that date, preserving "paid today at
//     the actual time" semantics for calendar-only input.
func normalizePaidOn(patch BudgetBillPatch, now time.Time) *time.Time {
	if patch.PaidAmount == nil || !patch.PaidAmount.IsPositive() {
		if patch.PaidOn == nil {
			return nil
		}
		u := patch.PaidOn.UTC()
		return &u
	}

	if patch.PaidOn == nil {
		return &now
	}

	paidOn := patch.PaidOn.UTC()
	if paidOn.Hour() == 0 && paidOn.Minute() == 0 && paidOn.Second() == 0 && paidOn.Nanosecond() == 0 {
		paidOn = time.Date(paidOn.Year(), paidOn.Month(), paidOn.Day(),
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	}
	return &paidOn
}

// reverseSettlement appends compensating ledger entries for a prior
// settlement: a credit restoring the payment account and, for transfer
// bills, a debit taking the money back out of the transfer account.
func (s *budgetService) reverseSettlement(tx *gorm.DB, budgetBill *models.BudgetBill, account *models.Account) error {
	prior := budgetBill.PaidAmount
	if !prior.IsPositive() {
		return nil
	}

	note := "Reversal of prior settlement"
	if err := applyBalanceChange(tx, account, &budgetBill.ID, models.TransactionTypeCredit, prior, note); err != nil {
		return err
	}

	if budgetBill.TransferAccountID == nil {
		return nil
	}

	var transferAccount models.Account
	if err := tx.Where("id = ?", *budgetBill.TransferAccountID).First(&transferAccount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrAccountNotFound, "Transfer account not found")
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return applyBalanceChange(tx, &transferAccount, &budgetBill.ID, models.TransactionTypeDebit, prior, note)
}
