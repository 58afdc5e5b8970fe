package server_test

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetFlow_OverspendNotifiesOnce(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "budget@test.com", "password123")
	categoryID := app.createCategory(t, token, "Groceries", true)

	// Step 1: Budget of 100 for March 2024
	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"100","month":3,"year":2024}`, categoryID), token)
	expectStatus(t, rec, http.StatusCreated)
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := budget["id"].(string)
	if budget["spent_amount"] != "0" || budget["remaining_amount"] != "100" {
		t.Errorf("expected spent 0 remaining 100, got %v / %v", budget["spent_amount"], budget["remaining_amount"])
	}

	// Step 2: Two expenses totalling 150
	app.createExpense(t, token, categoryID, "100.00", "2024-03-05")
	app.createExpense(t, token, categoryID, "50.00", "2024-03-20")

	// An expense in April does not count toward March
	app.createExpense(t, token, categoryID, "999.00", "2024-04-01")

	// Step 3: Status is recomputed on read
	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/status", "", token)
	expectStatus(t, rec, http.StatusOK)
	status := parseJSON(t, rec)["status"].(map[string]interface{})
	if status["spent_amount"] != "150" {
		t.Errorf("expected spent 150, got %v", status["spent_amount"])
	}
	if status["remaining_amount"] != "-50" {
		t.Errorf("expected remaining -50, got %v", status["remaining_amount"])
	}
	if status["percentage_used"].(float64) != 150 {
		t.Errorf("expected 150%%, got %v", status["percentage_used"])
	}

	// Step 4: Exactly one BUDGET_LIMIT notification
	alerts := app.notifications(t, token, "BUDGET_LIMIT")
	if len(alerts) != 1 {
		t.Fatalf("expected 1 BUDGET_LIMIT notification, got %d", len(alerts))
	}
	if alerts[0]["title"] != "Budget Limit Reached" {
		t.Errorf("unexpected title %v", alerts[0]["title"])
	}
}

func TestBudgetFlow_BudgetCreatedAfterOverspend(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "late-budget@test.com", "password123")
	categoryID := app.createCategory(t, token, "Groceries", true)

	// Step 1: Spending exists before any budget
	app.createExpense(t, token, categoryID, "150.00", "2024-03-05")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 0 {
		t.Fatalf("expected no alert without a budget, got %d", n)
	}

	// Step 2: A budget of 100 is already exceeded when it is created
	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"100","month":3,"year":2024}`, categoryID), token)
	expectStatus(t, rec, http.StatusCreated)
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	if budget["percentage_used"].(float64) != 150 {
		t.Errorf("expected 150%%, got %v", budget["percentage_used"])
	}
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 1 {
		t.Fatalf("expected 1 BUDGET_LIMIT notification after creating the budget, got %d", n)
	}

	// Step 3: More spending in the same month does not repeat the alert
	app.createExpense(t, token, categoryID, "150.00", "2024-03-06")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 1 {
		t.Errorf("expected the alert to stay single, got %d", n)
	}
}

func TestBudgetFlow_LoweredBudgetNotifies(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "lowered@test.com", "password123")
	categoryID := app.createCategory(t, token, "Travel", true)

	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"500","month":3,"year":2024}`, categoryID), token)
	expectStatus(t, rec, http.StatusCreated)
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	app.createExpense(t, token, categoryID, "150", "2024-03-05")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 0 {
		t.Fatalf("expected no alert at 30%%, got %d", n)
	}

	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, `{"amount":"50"}`, token)
	expectStatus(t, rec, http.StatusOK)
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 1 {
		t.Errorf("expected 1 BUDGET_LIMIT notification after lowering the budget, got %d", n)
	}
}

func TestBudgetFlow_Thresholds(t *testing.T) {
	app := setupAppWithThresholds(t, []float64{80, 100})
	token, _, _ := app.registerUser(t, "thresholds@test.com", "password123")
	categoryID := app.createCategory(t, token, "Dining", true)

	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"200","month":6,"year":2024}`, categoryID), token)
	expectStatus(t, rec, http.StatusCreated)

	app.createExpense(t, token, categoryID, "100", "2024-06-01")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 0 {
		t.Fatalf("expected no alert at 50%%, got %d", n)
	}

	app.createExpense(t, token, categoryID, "70", "2024-06-02")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 1 {
		t.Fatalf("expected 80%% alert, got %d", n)
	}

	app.createExpense(t, token, categoryID, "5", "2024-06-03")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 1 {
		t.Fatalf("expected no new alert below 100%%, got %d", n)
	}

	app.createExpense(t, token, categoryID, "40", "2024-06-04")
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 2 {
		t.Fatalf("expected 100%% alert, got %d", n)
	}
}

func TestBudgetFlow_DuplicateBudget(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "dupbudget@test.com", "password123")
	categoryID := app.createCategory(t, token, "Rent", true)

	body := fmt.Sprintf(`{"category_id":%q,"amount":"1200","month":3,"year":2024}`, categoryID)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	expectStatus(t, rec, http.StatusCreated)
	firstID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"900","month":3,"year":2024}`, categoryID), token)
	expectStatus(t, rec, http.StatusConflict)
	if code := errorCode(t, rec); code != "BUDGET_ALREADY_EXISTS" {
		t.Errorf("expected BUDGET_ALREADY_EXISTS, got %s", code)
	}

	// The first budget is unaffected
	rec = app.request("GET", "/api/v1/budgets/"+firstID, "", token)
	expectStatus(t, rec, http.StatusOK)
	if amount := parseJSON(t, rec)["budget"].(map[string]interface{})["amount"]; amount != "1200" {
		t.Errorf("expected amount 1200, got %v", amount)
	}

	// Deleting frees the period for a new budget
	rec = app.request("DELETE", "/api/v1/budgets/"+firstID, "", token)
	expectStatus(t, rec, http.StatusOK)
	rec = app.request("POST", "/api/v1/budgets", body, token)
	expectStatus(t, rec, http.StatusCreated)
}

func TestBudgetFlow_ZeroBudget(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "zero@test.com", "password123")
	categoryID := app.createCategory(t, token, "Hobbies", true)

	rec := app.request("POST", "/api/v1/budgets",
		fmt.Sprintf(`{"category_id":%q,"amount":"0","month":1,"year":2025}`, categoryID), token)
	expectStatus(t, rec, http.StatusCreated)
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	app.createExpense(t, token, categoryID, "25", "2025-01-10")

	rec = app.request("GET", "/api/v1/budgets/"+budgetID+"/status", "", token)
	expectStatus(t, rec, http.StatusOK)
	status := parseJSON(t, rec)["status"].(map[string]interface{})
	if status["percentage_used"].(float64) != 0 {
		t.Errorf("expected 0%% for zero budget, got %v", status["percentage_used"])
	}
	if n := len(app.notifications(t, token, "BUDGET_LIMIT")); n != 0 {
		t.Errorf("expected no alert for zero budget, got %d", n)
	}
}

func TestBudgetFlow_MonthlySummary(t *testing.T) {
	app := setupApp(t)
	token, _, _ := app.registerUser(t, "summary@test.com", "password123")
	food := app.createCategory(t, token, "Food", true)
	salary := app.createCategory(t, token, "Salary", false)

	app.createExpense(t, token, food, "40.25", "2024-05-02")
	app.createExpense(t, token, food, "9.75", "2024-05-18")
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"category_id":%q,"transaction_type":"INCOME","amount":"3000","date":"2024-05-01"}`, salary), token)
	expectStatus(t, rec, http.StatusCreated)

	rec = app.request("GET", "/api/v1/transactions/summary?month=5&year=2024", "", token)
	expectStatus(t, rec, http.StatusOK)
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["total_income"] != "3000" || summary["total_expenses"] != "50" || summary["net"] != "2950" {
		t.Errorf("unexpected summary %v", summary)
	}
	byCategory := summary["by_category"].([]interface{})
	if len(byCategory) != 1 {
		t.Fatalf("expected 1 expense category, got %d", len(byCategory))
	}
}
