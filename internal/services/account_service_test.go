package services

import (
	"testing"

	"fiscus/internal/models"
	"fiscus/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func accountTransactions(t *testing.T, db *gorm.DB, accountID string) []models.Transaction {
	t.Helper()
	var txns []models.Transaction
	if err := db.Where("account_id = ?", accountID).Order("created_at").Find(&txns).Error; err != nil {
		t.Fatalf("failed to load transactions: %v", err)
	}
	return txns
}

func TestCreateAccount(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateAccount("Checking", "checking", "", decimal.Zero)
		testutil.AssertNoError(t, err)

		if account.ID == "" {
			t.Fatal("expected non-empty account ID")
		}
		if !account.Enabled {
			t.Error("expected account to be enabled")
		}
		if txns := accountTransactions(t, db, account.ID); len(txns) != 0 {
			t.Errorf("expected no ledger entries for a zero opening balance, got %d", len(txns))
		}
	})

	t.Run("opening_balance_records_credit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		account, err := svc.CreateAccount("Savings", "savings", "", decimal.NewFromInt(1000))
		testutil.AssertNoError(t, err)

		txns := accountTransactions(t, db, account.ID)
		if len(txns) != 1 {
			t.Fatalf("expected 1 ledger entry, got %d", len(txns))
		}
		if txns[0].TransactionType != models.TransactionTypeCredit {
			t.Errorf("expected a credit, got %s", txns[0].TransactionType)
		}
		if txns[0].Note != "Opening balance" {
			t.Errorf("unexpected note %q", txns[0].Note)
		}
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)

		_, err := svc.CreateAccount("", "checking", "", decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAddFunds(t *testing.T) {
	t.Run("credits_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(100))

		updated, err := svc.AddFunds(account.ID, decimal.NewFromInt(50), "")
		testutil.AssertNoError(t, err)

		if !updated.Balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected balance 150, got %s", updated.Balance)
		}
		txns := accountTransactions(t, db, account.ID)
		if len(txns) != 1 || txns[0].TransactionType != models.TransactionTypeCredit {
			t.Errorf("expected a single credit entry")
		}
	})

	t.Run("disabled_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccount(t, db)
		testutil.AssertNoError(t, db.Model(account).Update("enabled", false).Error)

		_, err := svc.AddFunds(account.ID, decimal.NewFromInt(50), "")
		testutil.AssertAppError(t, err, "ACCOUNT_DISABLED")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccount(t, db)

		_, err := svc.AddFunds(account.ID, decimal.Zero, "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeductFunds(t *testing.T) {
	t.Run("debits_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(100))

		updated, err := svc.DeductFunds(account.ID, decimal.NewFromInt(40), "groceries")
		testutil.AssertNoError(t, err)

		if !updated.Balance.Equal(decimal.NewFromInt(60)) {
			t.Errorf("expected balance 60, got %s", updated.Balance)
		}
		txns := accountTransactions(t, db, account.ID)
		if len(txns) != 1 || txns[0].Note != "groceries" {
			t.Errorf("expected a single debit entry carrying the note")
		}
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(30))

		_, err := svc.DeductFunds(account.ID, decimal.NewFromInt(40), "")
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		if txns := accountTransactions(t, db, account.ID); len(txns) != 0 {
			t.Errorf("expected no ledger entries after a failed debit, got %d", len(txns))
		}
	})
}

func TestTransferFunds(t *testing.T) {
	t.Run("moves_money_with_paired_entries", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		source := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(300))
		dest := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(10))

		result, err := svc.TransferFunds(source.ID, dest.ID, decimal.NewFromInt(120), "")
		testutil.AssertNoError(t, err)

		if !result.FromAccount.Balance.Equal(decimal.NewFromInt(180)) {
			t.Errorf("expected source balance 180, got %s", result.FromAccount.Balance)
		}
		if !result.ToAccount.Balance.Equal(decimal.NewFromInt(130)) {
			t.Errorf("expected destination balance 130, got %s", result.ToAccount.Balance)
		}

		sourceTxns := accountTransactions(t, db, source.ID)
		destTxns := accountTransactions(t, db, dest.ID)
		if len(sourceTxns) != 1 || sourceTxns[0].TransactionType != models.TransactionTypeDebit {
			t.Error("expected a debit on the source account")
		}
		if len(destTxns) != 1 || destTxns[0].TransactionType != models.TransactionTypeCredit {
			t.Error("expected a credit on the destination account")
		}
	})

	t.Run("same_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(300))

		_, err := svc.TransferFunds(account.ID, account.ID, decimal.NewFromInt(50), "")
		testutil.AssertAppError(t, err, "SAME_ACCOUNT_TRANSFER")
	})

	t.Run("insufficient_funds", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		source := testutil.CreateTestAccountWithBalance(t, db, decimal.NewFromInt(20))
		dest := testutil.CreateTestAccount(t, db)

		_, err := svc.TransferFunds(source.ID, dest.ID, decimal.NewFromInt(50), "")
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("soft_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewAccountService(db)
		account := testutil.CreateTestAccount(t, db)

		testutil.AssertNoError(t, svc.DeleteAccount(account.ID))

		_, err := svc.GetAccountByID(account.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}
