package services

import (
	"testing"
	"time"

	"finwise/internal/models"
	"finwise/internal/pagination"
	"finwise/internal/testutil"
	"finwise/internal/uuid"

	"gorm.io/gorm"
)

func newTestBudgetService(db *gorm.DB) BudgetServicer {
	return NewBudgetService(db, NewNotificationService(db, nil, 0))
}

func march2024(day int) time.Time {
	return time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		budget, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "500"), 3, 2024)
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected budget ID to be set")
		}
		if !budget.Amount.Equal(testutil.Amount(t, "500")) {
			t.Errorf("expected amount 500, got %s", budget.Amount)
		}
		if budget.Month != 3 || budget.Year != 2024 {
			t.Errorf("expected 3/2024, got %d/%d", budget.Month, budget.Year)
		}
		if !budget.SpentAmount.IsZero() {
			t.Errorf("expected zero spent, got %s", budget.SpentAmount)
		}
		if budget.Category == nil || budget.Category.ID != cat.ID {
			t.Error("expected category to be preloaded")
		}
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		budget, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "0"), 3, 2024)
		testutil.AssertNoError(t, err)

		if budget.PercentageUsed != 0 {
			t.Errorf("expected 0%% for a zero budget, got %v", budget.PercentageUsed)
		}
	})

	t.Run("invalid_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		_, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "-1"), 3, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 13, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 0, 2024)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 0)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, uuid.New(), testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("duplicate_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		first, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "250"), 3, 2024)
		testutil.AssertAppError(t, err, "BUDGET_ALREADY_EXISTS")

		got, err := svc.GetBudgetByID(user.ID, first.ID)
		testutil.AssertNoError(t, err)
		if !got.Amount.Equal(testutil.Amount(t, "100")) {
			t.Errorf("expected first budget unchanged at 100, got %s", got.Amount)
		}

		var count int64
		db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected exactly 1 budget, got %d", count)
		}
	})

	t.Run("same_period_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		_, err := svc.CreateBudget(user1.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateBudget(user2.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
	})

	t.Run("recreate_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		first, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, first.ID))

		_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "120"), 3, 2024)
		testutil.AssertNoError(t, err)
	})
}

func TestComputeBudgetStatus(t *testing.T) {
	t.Run("no_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

		status, err := svc.ComputeBudgetStatus(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if !status.SpentAmount.IsZero() {
			t.Errorf("expected spent 0, got %s", status.SpentAmount)
		}
		if !status.RemainingAmount.Equal(testutil.Amount(t, "100")) {
			t.Errorf("expected remaining 100, got %s", status.RemainingAmount)
		}
		if status.PercentageUsed != 0 {
			t.Errorf("expected 0%%, got %v", status.PercentageUsed)
		}
	})

	t.Run("overspent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "60"), march2024(5))
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "90"), march2024(20))

		status, err := svc.ComputeBudgetStatus(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if !status.SpentAmount.Equal(testutil.Amount(t, "150")) {
			t.Errorf("expected spent 150, got %s", status.SpentAmount)
		}
		if !status.RemainingAmount.Equal(testutil.Amount(t, "-50")) {
			t.Errorf("expected remaining -50, got %s", status.RemainingAmount)
		}
		if status.PercentageUsed != 150 {
			t.Errorf("expected 150%%, got %v", status.PercentageUsed)
		}
	})

	t.Run("only_matching_expenses_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		otherCat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "200"), 3, 2024)

		// Counted: first and last day of the month.
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "10.25"), march2024(1))
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "20.50"), march2024(31))

		// Not counted.
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeIncome, testutil.Amount(t, "500"), march2024(10))
		testutil.CreateTestTransaction(t, db, user.ID, &otherCat.ID, models.TransactionTypeExpense, testutil.Amount(t, "40"), march2024(10))
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "40"), time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "40"), time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, other.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "40"), march2024(10))
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, testutil.Amount(t, "40"), march2024(10))

		status, err := svc.ComputeBudgetStatus(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		if !status.SpentAmount.Equal(testutil.Amount(t, "30.75")) {
			t.Errorf("expected spent 30.75, got %s", status.SpentAmount)
		}
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

		_, err := svc.ComputeBudgetStatus(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestGetUserBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, true)

	testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
	testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 4, 2024)
	testutil.CreateTestBudget(t, db, other.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
	testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "25"), march2024(3))

	result, err := svc.GetUserBudgets(user.ID, pagination.PageRequest{}, nil, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 2 {
		t.Errorf("expected 2 budgets for user, got %d", result.TotalItems)
	}

	month := 3
	result, err = svc.GetUserBudgets(user.ID, pagination.PageRequest{}, &month, nil)
	testutil.AssertNoError(t, err)
	if result.TotalItems != 1 {
		t.Fatalf("expected 1 budget for March, got %d", result.TotalItems)
	}
	if result.Data[0].PercentageUsed != 25 {
		t.Errorf("expected 25%% used, got %v", result.Data[0].PercentageUsed)
	}
}

func TestUpdateBudget(t *testing.T) {
	t.Run("amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "50"), march2024(3))

		amount := testutil.Amount(t, "200")
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)

		if !updated.Amount.Equal(amount) {
			t.Errorf("expected amount 200, got %s", updated.Amount)
		}
		if updated.PercentageUsed != 25 {
			t.Errorf("expected status recomputed to 25%%, got %v", updated.PercentageUsed)
		}
	})

	t.Run("move_onto_existing_period", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		april := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 4, 2024)

		month := 3
		_, err := svc.UpdateBudget(user.ID, april.ID, BudgetUpdate{Month: &month})
		testutil.AssertAppError(t, err, "BUDGET_ALREADY_EXISTS")
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

		month := 14
		_, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Month: &month})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

		amount := testutil.Amount(t, "1")
		_, err := svc.UpdateBudget(intruder.ID, budget.ID, BudgetUpdate{Amount: &amount})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestBudgetService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, true)
	budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)

	err := svc.DeleteBudget(intruder.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteBudget(owner.ID, budget.ID))

	_, err = svc.GetBudgetByID(owner.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestBudgetLimitNotification_OnBudgetWrite(t *testing.T) {
	t.Run("create_over_existing_spending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		transactions := newTestTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "150"), march2024(5))

		budget, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
		if budget.PercentageUsed != 150 {
			t.Errorf("expected 150%% used, got %v", budget.PercentageUsed)
		}
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 1 {
			t.Fatalf("expected 1 alert after creating an overspent budget, got %d", n)
		}

		_, err = transactions.CreateTransaction(user.ID, expense(t, &cat.ID, "150", march2024(6)))
		testutil.AssertNoError(t, err)
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 1 {
			t.Errorf("expected the alert to stay single, got %d", n)
		}
	})

	t.Run("create_under_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "40"), march2024(5))

		_, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 0 {
			t.Errorf("expected no alert below the limit, got %d", n)
		}
	})

	t.Run("lowering_amount_below_spent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "200"), 3, 2024)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "150"), march2024(5))

		amount := testutil.Amount(t, "50")
		updated, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		if updated.PercentageUsed != 300 {
			t.Errorf("expected 300%% used, got %v", updated.PercentageUsed)
		}
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 1 {
			t.Fatalf("expected 1 alert after lowering the budget, got %d", n)
		}

		amount = testutil.Amount(t, "40")
		_, err = svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 1 {
			t.Errorf("expected no repeat alert for the same period, got %d", n)
		}
	})

	t.Run("moving_onto_overspent_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 4, 2024)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "120"), march2024(5))

		month := 3
		_, err := svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Month: &month})
		testutil.AssertNoError(t, err)
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 1 {
			t.Errorf("expected 1 alert for the new period, got %d", n)
		}
	})

	t.Run("disabled_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newTestBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		db.Model(user).Update("notifications_enabled", false)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "150"), march2024(5))

		_, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
		testutil.AssertNoError(t, err)
		if n := countNotifications(t, db, user.ID, models.NotificationTypeBudgetLimit); n != 0 {
			t.Errorf("expected no alert for a user with notifications off, got %d", n)
		}
	})
}

func TestBudgetAmountPrecision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, true)

	_, err := svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "100.005"), 3, 2024)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.CreateBudget(user.ID, cat.ID, testutil.Amount(t, "10000000000"), 3, 2024)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), 3, 2024)
	amount := testutil.Amount(t, "99.999")
	_, err = svc.UpdateBudget(user.ID, budget.ID, BudgetUpdate{Amount: &amount})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}
