package services

import (
	"time"

	"github.com/shopspring/decimal"

	"fiscus/internal/models"
	"fiscus/internal/pagination"
	"fiscus/internal/schedule"
)

// AccountUpdateFields holds optional account fields for partial updates.
type AccountUpdateFields struct {
	Name        *string
	AccountType *string
	Description *string
	Enabled     *bool
}

// TransferResult reports both sides of a completed fund transfer.
type TransferResult struct {
	FromAccount *models.Account `json:"from_account"`
	ToAccount   *models.Account `json:"to_account"`
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(name, accountType, description string, balance decimal.Decimal) (*models.Account, error)
	GetAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(accountID string) (*models.Account, error)
	UpdateAccount(accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(accountID string) error
	AddFunds(accountID string, amount decimal.Decimal, note string) (*models.Account, error)
	DeductFunds(accountID string, amount decimal.Decimal, note string) (*models.Account, error)
	TransferFunds(fromAccountID, toAccountID string, amount decimal.Decimal, note string) (*TransferResult, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name, description string) (*models.Category, error)
	GetCategories(page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(categoryID string) (*models.Category, error)
	UpdateCategory(categoryID string, name, description *string, enabled *bool) (*models.Category, error)
	DeleteCategory(categoryID string) error
}

// BillFields holds the data for creating a bill against an account.
type BillFields struct {
	Name              string
	Description       string
	CategoryID        *string
	TransferAccountID *string
	BudgetedAmount    decimal.Decimal
	Frequency         schedule.Frequency
	PaymentMethod     models.PaymentMethod
	StartFreq         time.Time
}

// BillPatch holds optional bill fields for partial updates.
type BillPatch struct {
	Name              *string
	Description       *string
	CategoryID        *string
	TransferAccountID *string
	BudgetedAmount    *decimal.Decimal
	Frequency         *schedule.Frequency
	PaymentMethod     *models.PaymentMethod
	StartFreq         *time.Time
	Enabled           *bool
}

// BillServicer defines the contract for bill-related business logic.
type BillServicer interface {
	CreateBill(accountID string, fields BillFields) (*models.Bill, error)
	GetBills(page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error)
	GetBillByID(billID string) (*models.Bill, error)
	GetBillsByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Bill], error)
	UpdateBill(billID string, patch BillPatch) (*models.Bill, error)
	DeleteBill(billID string) error
}

// IncomeFields holds the data for creating an income source.
type IncomeFields struct {
	Name        string
	Description string
	Amount      decimal.Decimal
	Frequency   schedule.Frequency
	StartFreq   time.Time
}

// IncomePatch holds optional income fields for partial updates.
type IncomePatch struct {
	Name        *string
	Description *string
	Amount      *decimal.Decimal
	Frequency   *schedule.Frequency
	StartFreq   *time.Time
	Enabled     *bool
}

// IncomeDue is one upcoming income occurrence from the dueness projection.
type IncomeDue struct {
	Income  models.Income `json:"income"`
	DueDate time.Time     `json:"due_date"`
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(accountID string, fields IncomeFields) (*models.Income, error)
	GetIncomes(page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	GetIncomeByID(incomeID string) (*models.Income, error)
	GetIncomesByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Income], error)
	UpdateIncome(incomeID string, patch IncomePatch) (*models.Income, error)
	DeleteIncome(incomeID string) error
	DueWithin(days int) ([]IncomeDue, error)
}

// BudgetPatch holds optional budget fields for partial updates.
type BudgetPatch struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Enabled     *bool
}

// AttachBillParams holds the data for attaching a bill to a budget.
// BudgetedAmount and TransferAccountID default from the bill when nil;
// DueDate is derived from the bill's recurrence when not supplied.
type AttachBillParams struct {
	BillID            string
	AccountID         string
	TransferAccountID *string
	BudgetedAmount    *decimal.Decimal
	DueDate           *time.Time
	Note              string
}

// BudgetBillPatch holds optional budget-bill fields for partial updates.
// Supplying a positive PaidAmount marks the budget bill paid and invokes
// the settlement engine.
type BudgetBillPatch struct {
	BudgetedAmount *decimal.Decimal
	DueDate        *time.Time
	PaidAmount     *decimal.Decimal
	PaidOn         *time.Time
	Note           *string
}

// PruneResult reports the outcome of a budget pruning run.
type PruneResult struct {
	Count      int       `json:"count"`
	CutoffDate time.Time `json:"cutoff_date"`
	Months     int       `json:"months_retained"`
}

// BudgetServicer defines the contract for budget-related business logic,
// including budget-bill attachment, settlement, and retention pruning.
type BudgetServicer interface {
	CreateBudget(name, description string, startDate, endDate time.Time) (*models.Budget, error)
	GetBudgets(page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(budgetID string) (*models.Budget, error)
	UpdateBudget(budgetID string, patch BudgetPatch) (*models.Budget, error)
	DeleteBudget(budgetID string) error

	AttachBill(budgetID string, params AttachBillParams) (*models.BudgetBill, error)
	GetBudgetBills(budgetID string) ([]models.BudgetBill, error)
	UpdateBudgetBill(budgetID, budgetBillID string, patch BudgetBillPatch) (*models.BudgetBill, error)
	RemoveBill(budgetID, budgetBillID string) error

	ListPrunable(months int) ([]models.Budget, error)
	Prune(months int) (*PruneResult, error)
}

// TransactionServicer defines the contract for reading the append-only
// ledger. Transactions are created by the account and budget services as
// a side effect of balance mutations; there are no update or delete
// operations.
type TransactionServicer interface {
	GetTransactions(page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	GetTransactionsByAccount(accountID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionsByBudgetBill(budgetBillID string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
