package services

import (
	"testing"
	"time"

	"fiscus/internal/models"
	"fiscus/internal/pagination"
	"fiscus/internal/schedule"
	"fiscus/internal/testutil"

	"github.com/shopspring/decimal"
)

func billFields(name string) BillFields {
	return BillFields{
		Name:           name,
		BudgetedAmount: decimal.NewFromInt(100),
		Frequency:      schedule.FrequencyMonthly,
		PaymentMethod:  models.PaymentMethodManual,
		StartFreq:      time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateBill(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		bill, err := svc.CreateBill(account.ID, billFields("Rent"))
		testutil.AssertNoError(t, err)

		if bill.ID == "" {
			t.Fatal("expected non-empty bill ID")
		}
		if bill.Frequency != schedule.FrequencyMonthly {
			t.Errorf("expected monthly frequency, got %s", bill.Frequency)
		}
		if !bill.Enabled {
			t.Error("expected bill to be enabled")
		}
	})

	t.Run("invalid_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		fields := billFields("Rent")
		fields.Frequency = schedule.Frequency("fortnightly")
		_, err := svc.CreateBill(account.ID, fields)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("account_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))

		_, err := svc.CreateBill("00000000-0000-0000-0000-000000000000", billFields("Rent"))
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("category_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		fields := billFields("Rent")
		missing := "00000000-0000-0000-0000-000000000000"
		fields.CategoryID = &missing
		_, err := svc.CreateBill(account.ID, fields)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("transfer_requires_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		fields := billFields("Credit Card Payment")
		fields.PaymentMethod = models.PaymentMethodTransfer
		_, err := svc.CreateBill(account.ID, fields)
		testutil.AssertAppError(t, err, "TRANSFER_ACCOUNT_REQUIRED")
	})

	t.Run("transfer_target_must_differ", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		fields := billFields("Credit Card Payment")
		fields.PaymentMethod = models.PaymentMethodTransfer
		fields.TransferAccountID = &account.ID
		_, err := svc.CreateBill(account.ID, fields)
		testutil.AssertAppError(t, err, "TRANSFER_ACCOUNT_REQUIRED")
	})

	t.Run("transfer_target_must_exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		fields := billFields("Credit Card Payment")
		fields.PaymentMethod = models.PaymentMethodTransfer
		missing := "00000000-0000-0000-0000-000000000000"
		fields.TransferAccountID = &missing
		_, err := svc.CreateBill(account.ID, fields)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("valid_transfer_bill", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)
		target := testutil.CreateTestAccount(t, db)

		fields := billFields("Credit Card Payment")
		fields.PaymentMethod = models.PaymentMethodTransfer
		fields.TransferAccountID = &target.ID
		bill, err := svc.CreateBill(account.ID, fields)
		testutil.AssertNoError(t, err)
		if bill.TransferAccountID == nil || *bill.TransferAccountID != target.ID {
			t.Error("expected transfer account to be recorded")
		}
	})
}

func TestUpdateBill(t *testing.T) {
	t.Run("switch_to_transfer_needs_target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		bill, err := svc.CreateBill(account.ID, billFields("Rent"))
		testutil.AssertNoError(t, err)

		method := models.PaymentMethodTransfer
		_, err = svc.UpdateBill(bill.ID, BillPatch{PaymentMethod: &method})
		testutil.AssertAppError(t, err, "TRANSFER_ACCOUNT_REQUIRED")
	})

	t.Run("rename_and_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		bill, err := svc.CreateBill(account.ID, billFields("Rent"))
		testutil.AssertNoError(t, err)

		name := "Rent 2026"
		amount := decimal.NewFromInt(1250)
		updated, err := svc.UpdateBill(bill.ID, BillPatch{Name: &name, BudgetedAmount: &amount})
		testutil.AssertNoError(t, err)
		if updated.Name != "Rent 2026" {
			t.Errorf("expected renamed bill, got %s", updated.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))

		name := "Ghost"
		_, err := svc.UpdateBill("00000000-0000-0000-0000-000000000000", BillPatch{Name: &name})
		testutil.AssertAppError(t, err, "BILL_NOT_FOUND")
	})
}

func TestDeleteBill(t *testing.T) {
	t.Run("soft_delete_hides_from_lists", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBillService(db, NewAccountService(db))
		account := testutil.CreateTestAccount(t, db)

		bill, err := svc.CreateBill(account.ID, billFields("Rent"))
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteBill(bill.ID))

		_, err = svc.GetBillByID(bill.ID)
		testutil.AssertAppError(t, err, "BILL_NOT_FOUND")

		page, err := svc.GetBills(pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if len(page.Data) != 0 {
			t.Errorf("expected no listed bills, got %d", len(page.Data))
		}
	})
}
