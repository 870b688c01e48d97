package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fiscus/internal/errors"
	"fiscus/internal/models"
	"fiscus/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new account. A non-zero opening balance is
// recorded with a paired credit transaction so the ledger explains it.
func (s *accountService) CreateAccount(name, accountType, description string, balance decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	account := &models.Account{
		Name:        name,
		AccountType: accountType,
		Description: description,
		Balance:     balance,
		Enabled:     true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if balance.IsPositive() {
			opening := &models.Transaction{
				AccountID:       account.ID,
				Amount:          balance,
				TransactionType: models.TransactionTypeCredit,
				OccurredAt:      time.Now().UTC(),
				Note:            "Opening balance",
			}
			if err := tx.Create(opening).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccounts retrieves a paginated list of non-deleted accounts.
func (s *accountService) GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error) {
	page.Defaults()

	base := s.db.Model(&models.Account{}).Where("deleted = ?", false)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.Account
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccountByID retrieves a non-deleted account by ID.
func (s *accountService) GetAccountByID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND deleted = ?", accountID, false).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount applies partial updates to an account. The balance is
// deliberately not updatable here: it moves only via fund operations and
// settlement.
func (s *accountService) UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error) {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.AccountType != nil && *fields.AccountType != "" {
		updates["account_type"] = *fields.AccountType
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Enabled != nil {
		updates["enabled"] = *fields.Enabled
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount soft-deletes an account and disables it. Bills and
// budget bills that reference it keep their foreign keys; they simply
// can no longer settle against it.
func (s *accountService) DeleteAccount(accountID string) error {
	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"deleted": true, "enabled": false}
	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddFunds credits the account balance and appends the matching ledger
// entry in one database transaction.
func (s *accountService) AddFunds(accountID string, amount decimal.Decimal, note string) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if !account.Enabled {
		return nil, apperrors.WithMessage(apperrors.ErrAccountDisabled, "Cannot add funds to disabled account '"+account.Name+"'")
	}

	if note == "" {
		note = "Funds added to account"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return applyBalanceChange(tx, account, nil, models.TransactionTypeCredit, amount, note)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeductFunds debits the account balance and appends the matching ledger
// entry in one database transaction. Fails when the balance is
// insufficient.
func (s *accountService) DeductFunds(accountID string, amount decimal.Decimal, note string) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	account, err := s.GetAccountByID(accountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		return nil, apperrors.ErrInsufficientFunds
	}

	if note == "" {
		note = "Funds deducted from account"
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return applyBalanceChange(tx, account, nil, models.TransactionTypeDebit, amount, note)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// TransferFunds moves money between two accounts, appending a debit
// entry on the source and a credit entry on the destination as one
// atomic unit.
func (s *accountService) TransferFunds(fromAccountID, toAccountID string, amount decimal.Decimal, note string) (*TransferResult, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}

	source, err := s.GetAccountByID(fromAccountID)
	if err != nil {
		return nil, err
	}
	dest, err := s.GetAccountByID(toAccountID)
	if err != nil {
		return nil, err
	}

	if source.Balance.LessThan(amount) {
		return nil, apperrors.WithMessage(apperrors.ErrInsufficientFunds, "Insufficient funds in source account")
	}

	sourceNote := note
	destNote := note
	if note == "" {
		sourceNote = "Transfer to " + dest.Name
		destNote = "Transfer from " + source.Name
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := applyBalanceChange(tx, source, nil, models.TransactionTypeDebit, amount, sourceNote); err != nil {
			return err
		}
		return applyBalanceChange(tx, dest, nil, models.TransactionTypeCredit, amount, destNote)
	})
	if err != nil {
		return nil, err
	}

	return &TransferResult{FromAccount: source, ToAccount: dest}, nil
}

// applyBalanceChange mutates an account balance and appends the paired
// ledger transaction using the given database handle. Callers are
// responsible for running it inside a transaction when combining
// multiple changes.
func applyBalanceChange(
	tx *gorm.DB,
	account *models.Account,
	budgetBillID *string,
	txType models.TransactionType,
	amount decimal.Decimal,
	note string,
) error {
	switch txType {
	case models.TransactionTypeCredit:
		account.Balance = account.Balance.Add(amount)
	case models.TransactionTypeDebit:
		account.Balance = account.Balance.Sub(amount)
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported transaction type")
	}

	if err := tx.Model(account).Update("balance", account.Balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entry := &models.Transaction{
		AccountID:       account.ID,
		BudgetBillID:    budgetBillID,
		Amount:          amount,
		TransactionType: txType,
		OccurredAt:      time.Now().UTC(),
		Note:            note,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
