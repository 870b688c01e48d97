package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fiscus/internal/models"
	"fiscus/internal/schedule"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestAccount creates an enabled account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, decimal.Zero)
}

// CreateTestAccountWithBalance creates an enabled account with the given balance.
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:        fmt.Sprintf("Test Account %d", nextID()),
		AccountType: "checking",
		Balance:     balance,
		Enabled:     true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCategory creates an enabled category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:    fmt.Sprintf("Test Category %d", nextID()),
		Enabled: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBill creates an enabled bill with the given frequency and anchor date.
func CreateTestBill(t *testing.T, db *gorm.DB, accountID string, frequency schedule.Frequency, startFreq time.Time) *models.Bill {
	t.Helper()

	bill := &models.Bill{
		AccountID:      accountID,
		Name:           fmt.Sprintf("Test Bill %d", nextID()),
		BudgetedAmount: decimal.NewFromInt(100),
		Frequency:      frequency,
		PaymentMethod:  models.PaymentMethodManual,
		StartFreq:      startFreq,
		Enabled:        true,
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test bill: %v", err)
	}
	return bill
}

// CreateTestTransferBill creates a bill paid by transfer into the given target account.
func CreateTestTransferBill(t *testing.T, db *gorm.DB, accountID, transferAccountID string, frequency schedule.Frequency, startFreq time.Time) *models.Bill {
	t.Helper()

	bill := &models.Bill{
		AccountID:         accountID,
		TransferAccountID: &transferAccountID,
		Name:              fmt.Sprintf("Test Transfer Bill %d", nextID()),
		BudgetedAmount:    decimal.NewFromInt(100),
		Frequency:         frequency,
		PaymentMethod:     models.PaymentMethodTransfer,
		StartFreq:         startFreq,
		Enabled:           true,
	}
	if err := db.Create(bill).Error; err != nil {
		t.Fatalf("failed to create test transfer bill: %v", err)
	}
	return bill
}

// CreateTestIncome creates an enabled income source with the given frequency and anchor.
func CreateTestIncome(t *testing.T, db *gorm.DB, accountID string, frequency schedule.Frequency, startFreq time.Time) *models.Income {
	t.Helper()

	income := &models.Income{
		AccountID: accountID,
		Name:      fmt.Sprintf("Test Income %d", nextID()),
		Amount:    decimal.NewFromInt(2500),
		Frequency: frequency,
		StartFreq: startFreq,
		Enabled:   true,
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestBudget creates an enabled budget spanning the given window.
func CreateTestBudget(t *testing.T, db *gorm.DB, startDate, endDate time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		StartDate: startDate,
		EndDate:   endDate,
		Enabled:   true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestBudgetBill attaches a bill to a budget directly, bypassing
// the window validator, for tests that exercise settlement.
func CreateTestBudgetBill(t *testing.T, db *gorm.DB, budgetID, billID, accountID string, amount decimal.Decimal, dueDate time.Time) *models.BudgetBill {
	t.Helper()

	budgetBill := &models.BudgetBill{
		BudgetID:       budgetID,
		BillID:         billID,
		AccountID:      accountID,
		BudgetedAmount: amount,
		DueDate:        &dueDate,
	}
	if err := db.Create(budgetBill).Error; err != nil {
		t.Fatalf("failed to create test budget bill: %v", err)
	}
	return budgetBill
}
