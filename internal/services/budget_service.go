package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fiscus/internal/config"
	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
)

// budgetService handles budget-related business logic: budget CRUD with
// overlap validation, budget-bill attachment with window validation,
// settlement, and retention pruning.
type budgetService struct {
	db             *gorm.DB
	accountService AccountServicer
	settlePolicy   config.SettlePolicy
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, accountService AccountServicer, settlePolicy config.SettlePolicy) BudgetServicer {
	return &budgetService{
		db:             db,
		accountService: accountService,
		settlePolicy:   settlePolicy,
	}
}

// CreateBudget creates a budget after validating that its window does
// not overlap any existing non-deleted budget. The overlap check and the
// insert run in the same database transaction.
func (s *budgetService) CreateBudget(name, description string, startDate, endDate time.Time) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}

	start := startDate.UTC()
	end := endDate.UTC()
	if !end.After(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}

	budget := &models.Budget{
		Name:        name,
		Description: description,
		StartDate:   start,
		EndDate:     end,
		Enabled:     true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := checkNoOverlap(tx, start, end, ""); err != nil {
			return err
		}
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// checkNoOverlap fails when [start, end) intersects the window of any
// other non-deleted budget. Two windows overlap iff the candidate starts
// before the other ends and ends after the other starts. The first
// conflict found is reported with its name and date range.
func checkNoOverlap(tx *gorm.DB, start, end time.Time, excludeBudgetID string) error {
	q := tx.Where("deleted = ?", false)
	if excludeBudgetID != "" {
		q = q.Where("id <> ?", excludeBudgetID)
	}

	var others []models.Budget
	if err := q.Find(&others).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, other := range others {
		otherStart := other.StartDate.UTC()
		otherEnd := other.EndDate.UTC()
		if start.Before(otherEnd) && end.After(otherStart) {
			return apperrors.WithMessage(apperrors.ErrBudgetOverlap,
				fmt.Sprintf("Budget overlaps with existing budget '%s' (from %s to %s)",
					other.Name, otherStart.Format("2006-01-02"), otherEnd.Format("2006-01-02")))
		}
	}
	return nil
}

// GetBudgets retrieves a paginated list of non-deleted budgets.
func (s *budgetService) GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("deleted = ?", false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Scopes(pagination.Paginate(page)).Order("start_date DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID retrieves a non-deleted budget by ID.
func (s *budgetService) GetBudgetByID(budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND deleted = ?", budgetID, false).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget applies partial updates to a budget. When either window
// date changes, the resulting window is re-validated against all other
// budgets before anything is written.
func (s *budgetService) UpdateBudget(budgetID string, patch BudgetPatch) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Name != nil && *patch.Name != "" {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Enabled != nil {
		updates["enabled"] = *patch.Enabled
	}

	datesChanged := patch.StartDate != nil || patch.EndDate != nil
	newStart := budget.StartDate.UTC()
	newEnd := budget.EndDate.UTC()
	if patch.StartDate != nil {
		newStart = patch.StartDate.UTC()
		updates["start_date"] = newStart
	}
	if patch.EndDate != nil {
		newEnd = patch.EndDate.UTC()
		updates["end_date"] = newEnd
	}
	if datesChanged && !newEnd.After(newStart) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}

	if len(updates) == 0 {
		return budget, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if datesChanged {
			if err := checkNoOverlap(tx, newStart, newEnd, budget.ID); err != nil {
				return err
			}
		}
		if err := tx.Model(budget).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return budget, nil
}

// DeleteBudget soft-deletes a budget. Deletion is blocked while any
// budget bill references it.
func (s *budgetService) DeleteBudget(budgetID string) error {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return err
	}

	var attached int64
	if err := s.db.Model(&models.BudgetBill{}).Where("budget_id = ?", budgetID).Count(&attached).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if attached > 0 {
		return apperrors.ErrBudgetHasBills
	}

	if err := s.db.Model(budget).Updates(map[string]interface{}{"deleted": true, "enabled": false}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AttachBill attaches a bill occurrence to a budget. The due date is
// resolved by the window validator; budgeted amount and transfer account
// default from the bill when the caller omits them.
func (s *budgetService) AttachBill(budgetID string, params AttachBillParams) (*models.BudgetBill, error) {
	budget, err := s.GetBudgetByID(budgetID)
	if err != nil {
		return nil, err
	}

	var bill models.Bill
	if err := s.db.Where("id = ? AND deleted = ?", params.BillID, false).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account, err := s.accountService.GetAccountByID(params.AccountID)
	if err != nil {
		return nil, err
	}

	dueDate, err := resolveBudgetBillDueDate(&bill, budget, params.DueDate, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	budgetedAmount := bill.BudgetedAmount
	if params.BudgetedAmount != nil {
		budgetedAmount = *params.BudgetedAmount
	}
	transferAccountID := bill.TransferAccountID
	if params.TransferAccountID != nil {
		transferAccountID = params.TransferAccountID
	}

	budgetBill := &models.BudgetBill{
		BudgetID:          budget.ID,
		BillID:            bill.ID,
		AccountID:         account.ID,
		TransferAccountID: transferAccountID,
		BudgetedAmount:    budgetedAmount,
		DueDate:           dueDate,
		Note:              params.Note,
	}
	if err := s.db.Create(budgetBill).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgetBill, nil
}

// GetBudgetBills lists the bills attached to a budget.
func (s *budgetService) GetBudgetBills(budgetID string) ([]models.BudgetBill, error) {
	if _, err := s.GetBudgetByID(budgetID); err != nil {
		return nil, err
	}

	var budgetBills []models.BudgetBill
	if err := s.db.Where("budget_id = ?", budgetID).Order("due_date").Find(&budgetBills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgetBills, nil
}

// RemoveBill detaches a bill from a budget.
func (s *budgetService) RemoveBill(budgetID, budgetBillID string) error {
	budgetBill, err := s.getBudgetBill(budgetID, budgetBillID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budgetBill).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) getBudgetBill(budgetID, budgetBillID string) (*models.BudgetBill, error) {
	var budgetBill models.BudgetBill
	if err := s.db.Where("id = ? AND budget_id = ?", budgetBillID, budgetID).First(&budgetBill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budgetBill, nil
}

// pruneCutoff computes the retention cutoff: months are approximated as
// 30 days each, a documented quirk kept from the original behavior.
func pruneCutoff(now time.Time, months int) time.Time {
	return now.Add(-time.Duration(months) * 30 * 24 * time.Hour)
}

// ListPrunable lists non-deleted budgets whose end date is strictly
// before the retention cutoff.
func (s *budgetService) ListPrunable(months int) ([]models.Budget, error) {
	if months < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "retention months must be at least 1")
	}

	cutoff := pruneCutoff(time.Now().UTC(), months)
	var budgets []models.Budget
	if err := s.db.Where("deleted = ? AND end_date < ?", false, cutoff).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// Prune soft-deletes budgets older than the retention cutoff and returns
// the count. Running it again is a no-op because deleted budgets are
// excluded from the selection.
func (s *budgetService) Prune(months int) (*PruneResult, error) {
	if months < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "retention months must be at least 1")
	}

	cutoff := pruneCutoff(time.Now().UTC(), months)

	res := s.db.Model(&models.Budget{}).
		Where("deleted = ? AND end_date < ?", false, cutoff).
		Updates(map[string]interface{}{"deleted": true, "enabled": false})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}

	return &PruneResult{
		Count:      int(res.RowsAffected),
		CutoffDate: cutoff,
		Months:     months,
	}, nil
}
