package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_AttachSettleAndLedger(t *testing.T) {
	app := setupApp(t)
	token, _ := app.login(t)

	// Step 1: Create the payment account with an opening balance
	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"Checking","account_type":"checking","balance":"500"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	accountID := account["id"].(string)

	// Step 2: Create a monthly bill anchored on Jan 10
	rec = app.request("POST", "/api/v1/bills", fmt.Sprintf(
		`{"account_id":%q,"name":"Rent","budgeted_amount":"120","frequency":"monthly","payment_method":"manual","start_freq":"2026-01-10T00:00:00Z"}`,
		accountID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	bill := parseJSON(t, rec)["bill"].(map[string]interface{})
	billID := bill["id"].(string)

	// Step 3: Create a January budget
	rec = app.request("POST", "/api/v1/budgets",
		`{"name":"January","start_date":"2026-01-01T00:00:00Z","end_date":"2026-02-01T00:00:00Z"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := budget["id"].(string)

	// Step 4: An overlapping budget is rejected
	rec = app.request("POST", "/api/v1/budgets",
		`{"name":"Mid January","start_date":"2026-01-15T00:00:00Z","end_date":"2026-02-15T00:00:00Z"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overlapping budget, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "BUDGET_OVERLAP" {
		t.Errorf("expected BUDGET_OVERLAP, got %v", errObj["code"])
	}

	// Step 5: Attach the bill; the due date resolves inside the window
	rec = app.request("POST", fmt.Sprintf("/api/v1/budgets/%s/bills", budgetID),
		fmt.Sprintf(`{"bill_id":%q,"account_id":%q}`, billID, accountID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budgetBill := parseJSON(t, rec)["budget_bill"].(map[string]interface{})
	budgetBillID := budgetBill["id"].(string)
	if due := budgetBill["due_date"].(string); due[:10] != "2026-01-10" {
		t.Errorf("expected due date 2026-01-10, got %s", due)
	}

	// Step 6: Deleting the budget is blocked while the bill is attached
	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting budget with bills, got %d", rec.Code)
	}
	errObj = parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "BUDGET_HAS_BILLS" {
		t.Errorf("expected BUDGET_HAS_BILLS, got %v", errObj["code"])
	}

	// Step 7: Settle the bill
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/budgets/%s/bills/%s", budgetID, budgetBillID),
		`{"paid_amount":"120"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	settled := parseJSON(t, rec)["budget_bill"].(map[string]interface{})
	if settled["paid_on"] == nil {
		t.Error("expected paid_on to be set")
	}

	// Step 8: The account was debited
	rec = app.request("GET", "/api/v1/accounts/"+accountID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	account = parseJSON(t, rec)["account"].(map[string]interface{})
	if balance := account["balance"].(string); balance != "380" {
		t.Errorf("expected balance 380, got %s", balance)
	}

	// Step 9: The ledger has the opening credit and the settlement debit
	rec = app.request("GET", "/api/v1/transactions?account_id="+accountID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if total := parseJSON(t, rec)["total_items"].(float64); total != 2 {
		t.Errorf("expected 2 ledger entries, got %.0f", total)
	}

	// Step 10: Re-settling is rejected
	rec = app.request("PATCH", fmt.Sprintf("/api/v1/budgets/%s/bills/%s", budgetID, budgetBillID),
		`{"paid_amount":"90"}`, token)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 re-settling, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj = parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "ALREADY_SETTLED" {
		t.Errorf("expected ALREADY_SETTLED, got %v", errObj["code"])
	}

	// Step 11: Detach the bill and delete the budget
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/budgets/%s/bills/%s", budgetID, budgetBillID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 removing bill, got %d", rec.Code)
	}
	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting budget, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetFlow_WindowRejection(t *testing.T) {
	app := setupApp(t)
	token, _ := app.login(t)

	rec := app.request("POST", "/api/v1/accounts",
		`{"name":"Checking","account_type":"checking"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	accountID := parseJSON(t, rec)["account"].(map[string]interface{})["id"].(string)

	// Monthly bill on the 15th never lands inside Feb 1 to Feb 10.
	rec = app.request("POST", "/api/v1/bills", fmt.Sprintf(
		`{"account_id":%q,"name":"Insurance","budgeted_amount":"60","frequency":"monthly","payment_method":"automatic","start_freq":"2026-01-15T00:00:00Z"}`,
		accountID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	billID := parseJSON(t, rec)["bill"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/budgets",
		`{"name":"Early February","start_date":"2026-02-01T00:00:00Z","end_date":"2026-02-10T00:00:00Z"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", fmt.Sprintf("/api/v1/budgets/%s/bills", budgetID),
		fmt.Sprintf(`{"bill_id":%q,"account_id":%q}`, billID, accountID), token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 attaching out-of-window bill, got %d: %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "BILL_OUT_OF_WINDOW" {
		t.Errorf("expected BILL_OUT_OF_WINDOW, got %v", errObj["code"])
	}
}
