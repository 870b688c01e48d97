package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
)

// transactionService reads the append-only ledger. Writes happen only
// inside the account and budget services, paired with balance changes.
type transactionService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{db: db, accountService: accountService}
}

// GetTransactions retrieves a paginated list of ledger entries, newest first.
func (s *transactionService) GetTransactions(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	return s.list(page, s.db.Model(&models.Transaction{}))
}

// GetTransactionByID retrieves a ledger entry by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetTransactionsByAccount retrieves ledger entries for one account.
func (s *transactionService) GetTransactionsByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.accountService.GetAccountByID(accountID); err != nil {
		return nil, err
	}
	return s.list(page, s.db.Model(&models.Transaction{}).Where("account_id = ?", accountID))
}

// GetTransactionsByBudgetBill retrieves the ledger entries created by
// settling one budget bill.
func (s *transactionService) GetTransactionsByBudgetBill(budgetBillID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	var budgetBill models.BudgetBill
	if err := s.db.Where("id = ?", budgetBillID).First(&budgetBill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetBillNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.list(page, s.db.Model(&models.Transaction{}).Where("budget_bill_id = ?", budgetBillID))
}

func (s *transactionService) list(page pagination.PageRequest, base *gorm.DB) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).Order("occurred_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}
