package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
	"fiscus/internal/schedule"
)

// incomeService handles income-related business logic.
type incomeService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB, accountService AccountServicer) IncomeServicer {
	return &incomeService{db: db, accountService: accountService}
}

// CreateIncome creates an income source deposited into an account.
func (s *incomeService) CreateIncome(accountID string, fields IncomeFields) (*models.Income, error) {
	if fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income name is required")
	}
	if !fields.Frequency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency '"+fields.Frequency.String()+"'")
	}

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.Enabled {
		return nil, apperrors.WithMessage(apperrors.ErrAccountDisabled, "Cannot add income to disabled account '"+account.Name+"'")
	}

	income := &models.Income{
		AccountID:   account.ID,
		Name:        fields.Name,
		Description: fields.Description,
		Amount:      fields.Amount,
		Frequency:   fields.Frequency,
		StartFreq:   fields.StartFreq.UTC(),
		Enabled:     true,
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetIncomes retrieves a paginated list of non-deleted income sources.
func (s *incomeService) GetIncomes(page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("deleted = ?", false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID retrieves a non-deleted income source by ID.
func (s *incomeService) GetIncomeByID(incomeID string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND deleted = ?", incomeID, false).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// GetIncomesByAccount retrieves income sources for one account.
func (s *incomeService) GetIncomesByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error) {
	if _, err := s.accountService.GetAccountByID(accountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("account_id = ? AND deleted = ?", accountID, false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateIncome applies partial updates to an income source.
func (s *incomeService) UpdateIncome(incomeID string, patch IncomePatch) (*models.Income, error) {
	income, err := s.GetIncomeByID(incomeID)
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
	if patch.Amount != nil {
		updates["amount"] = *patch.Amount
	}
	if patch.Frequency != nil {
		if !patch.Frequency.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency '"+patch.Frequency.String()+"'")
		}
		updates["frequency"] = *patch.Frequency
	}
	if patch.StartFreq != nil {
		updates["start_freq"] = patch.StartFreq.UTC()
	}
	if patch.Enabled != nil {
		updates["enabled"] = *patch.Enabled
	}

	if len(updates) > 0 {
		if err := s.db.Model(income).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return income, nil
}

// DeleteIncome soft-deletes an income source.
func (s *incomeService) DeleteIncome(incomeID string) error {
	income, err := s.GetIncomeByID(incomeID)
	if err != nil {
		return err
	}

	if err := s.db.Model(income).Updates(map[string]interface{}{"deleted": true, "enabled": false}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DueWithin projects which enabled income sources have an occurrence in
// the next `days` calendar days (today included), using the same
// recurrence rules as the budget window validator.
func (s *incomeService) DueWithin(days int) ([]IncomeDue, error) {
	if days < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must not be negative")
	}

	var incomes []models.Income
	if err := s.db.Where("deleted = ? AND enabled = ?", false, true).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := time.Now().UTC()
	due := []IncomeDue{}
	for _, income := range incomes {
		for offset := 0; offset <= days; offset++ {
			day := today.AddDate(0, 0, offset)
			if schedule.IsDueOn(day, income.StartFreq, income.Frequency) {
				due = append(due, IncomeDue{Income: income, DueDate: day})
				break
			}
		}
	}
	return due, nil
}
