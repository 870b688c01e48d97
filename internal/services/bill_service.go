package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
)

// billService handles bill-related business logic.
type billService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewBillService creates a new BillServicer.
func NewBillService(db *gorm.DB, accountService AccountServicer) BillServicer {
	return &billService{db: db, accountService: accountService}
}

// CreateBill creates a bill against a payment account. Transfer bills
// must name a transfer account distinct from the payment account.
func (s *billService) CreateBill(accountID string, fields BillFields) (*models.Bill, error) {
	if fields.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bill name is required")
	}
	if !fields.Frequency.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency '"+fields.Frequency.String()+"'")
	}
	if !fields.PaymentMethod.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported payment method '"+string(fields.PaymentMethod)+"'")
	}

	account, err := s.accountService.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	if err := s.validateTransferTarget(account.ID, fields.PaymentMethod, fields.TransferAccountID); err != nil {
		return nil, err
	}

	if fields.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND deleted = ?", *fields.CategoryID, false).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	bill := &models.Bill{
		AccountID:         account.ID,
		CategoryID:        fields.CategoryID,
		TransferAccountID: fields.TransferAccountID,
		Name:              fields.Name,
		Description:       fields.Description,
		BudgetedAmount:    fields.BudgetedAmount,
		Frequency:         fields.Frequency,
		PaymentMethod:     fields.PaymentMethod,
		StartFreq:         fields.StartFreq.UTC(),
		Enabled:           true,
	}
	if err := s.db.Create(bill).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return bill, nil
}

// GetBills retrieves a paginated list of non-deleted bills.
func (s *billService) GetBills(page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error) {
	page.Defaults()

	base := s.db.Model(&models.Bill{}).Where("deleted = ?", false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bills []models.Bill
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(bills, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBillByID retrieves a non-deleted bill by ID.
func (s *billService) GetBillByID(billID string) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.Where("id = ? AND deleted = ?", billID, false).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bill, nil
}

// GetBillsByAccount retrieves bills for one payment account.
func (s *billService) GetBillsByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error) {
	if _, err := s.accountService.GetAccountByID(accountID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Bill{}).Where("account_id = ? AND deleted = ?", accountID, false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var bills []models.Bill
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&bills).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(bills, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateBill applies partial updates to a bill.
func (s *billService) UpdateBill(billID string, patch BillPatch) (*models.Bill, error) {
	bill, err := s.GetBillByID(billID)
	if err != nil {
		return nil, err
	}

	method := bill.PaymentMethod
	if patch.PaymentMethod != nil {
		if !patch.PaymentMethod.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported payment method '"+string(*patch.PaymentMethod)+"'")
		}
		method = *patch.PaymentMethod
	}
	transferAccountID := bill.TransferAccountID
	if patch.TransferAccountID != nil {
		transferAccountID = patch.TransferAccountID
	}
	if err := s.validateTransferTarget(bill.AccountID, method, transferAccountID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.Name != nil && *patch.Name != "" {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.CategoryID != nil {
		updates["category_id"] = *patch.CategoryID
	}
	if patch.TransferAccountID != nil {
		updates["transfer_account_id"] = *patch.TransferAccountID
	}
	if patch.BudgetedAmount != nil {
		updates["budgeted_amount"] = *patch.BudgetedAmount
	}
	if patch.Frequency != nil {
		if !patch.Frequency.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported frequency '"+patch.Frequency.String()+"'")
		}
		updates["frequency"] = *patch.Frequency
	}
	if patch.PaymentMethod != nil {
		updates["payment_method"] = *patch.PaymentMethod
	}
	if patch.StartFreq != nil {
		updates["start_freq"] = patch.StartFreq.UTC()
	}
	if patch.Enabled != nil {
		updates["enabled"] = *patch.Enabled
	}

	if len(updates) > 0 {
		if err := s.db.Model(bill).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return bill, nil
}

// DeleteBill soft-deletes a bill. Historical budget bills keep their
// reference to it.
func (s *billService) DeleteBill(billID string) error {
	bill, err := s.GetBillByID(billID)
	if err != nil {
		return err
	}

	if err := s.db.Model(bill).Updates(map[string]interface{}{"deleted": true, "enabled": false}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// validateTransferTarget enforces that transfer bills reference an
// existing transfer account distinct from the payment account.
func (s *billService) validateTransferTarget(accountID string, method models.PaymentMethod, transferAccountID *string) error {
	if method != models.PaymentMethodTransfer {
		return nil
	}
	if transferAccountID == nil || *transferAccountID == "" || *transferAccountID == accountID {
		return apperrors.ErrTransferAccountNeeded
	}
	if _, err := s.accountService.GetAccountByID(*transferAccountID); err != nil {
		return err
	}
	return nil
}
