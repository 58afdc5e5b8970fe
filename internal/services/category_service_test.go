package services

import (
	"testing"
	"time"

	"finwise/internal/models"
	"finwise/internal/pagination"
	"finwise/internal/testutil"
	"finwise/internal/uuid"
)

func TestCreateCategory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory("Groceries", "cart", "#FF0000", true)
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID to be set")
		}
		if cat.Name != "Groceries" {
			t.Errorf("expected name Groceries, got %s", cat.Name)
		}
		if !cat.IsExpense {
			t.Error("expected expense category")
		}
	})

	t.Run("default_color", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory("Rent", "", "", true)
		testutil.AssertNoError(t, err)

		if cat.Color != "#ffffff" {
			t.Errorf("expected default color #ffffff, got %s", cat.Color)
		}
	})

	t.Run("duplicate_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("Food", "", "", true)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory("Food", "", "", true)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory("   ", "", "", true)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetCategories(t *testing.T) {
	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		for i := 0; i < 5; i++ {
			testutil.CreateTestCategory(t, db, true)
		}

		page := pagination.PageRequest{Page: 1, PageSize: 2}
		result, err := svc.GetCategories(page, nil)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", result.TotalItems)
		}
		if len(result.Data) != 2 {
			t.Errorf("expected 2 items on page 1, got %d", len(result.Data))
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", result.TotalPages)
		}
	})

	t.Run("filters_by_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestCategory(t, db, false)

		income := false
		result, err := svc.GetCategories(pagination.PageRequest{}, &income)
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 income category, got %d", result.TotalItems)
		}
		for _, cat := range result.Data {
			if cat.IsExpense {
				t.Errorf("expected only income categories, got %s", cat.Name)
			}
		}
	})
}

func TestGetCategoryByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		created := testutil.CreateTestCategory(t, db, true)

		cat, err := svc.GetCategoryByID(created.ID)
		testutil.AssertNoError(t, err)

		if cat.ID != created.ID {
			t.Errorf("expected category ID %s, got %s", created.ID, cat.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.GetCategoryByID(uuid.New())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateCategory(t *testing.T) {
	t.Run("cosmetic_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		cat := testutil.CreateTestCategory(t, db, true)

		name, icon, color := "Dining", "fork", "#00FF00"
		updated, err := svc.UpdateCategory(cat.ID, CategoryUpdate{Name: &name, Icon: &icon, Color: &color})
		testutil.AssertNoError(t, err)

		if updated.Name != "Dining" || updated.Icon != "fork" || updated.Color != "#00FF00" {
			t.Errorf("unexpected category after update: %+v", updated)
		}
	})

	t.Run("cosmetic_fields_while_in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "10"), time.Now())

		color := "#123456"
		_, err := svc.UpdateCategory(cat.ID, CategoryUpdate{Color: &color})
		testutil.AssertNoError(t, err)
	})

	t.Run("kind_change_unused", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		cat := testutil.CreateTestCategory(t, db, true)

		income := false
		updated, err := svc.UpdateCategory(cat.ID, CategoryUpdate{IsExpense: &income})
		testutil.AssertNoError(t, err)

		if updated.IsExpense {
			t.Error("expected category to become income")
		}
	})

	t.Run("kind_change_in_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)
		testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "10"), time.Now())

		income := false
		_, err := svc.UpdateCategory(cat.ID, CategoryUpdate{IsExpense: &income})
		testutil.AssertAppError(t, err, "CATEGORY_IN_USE")
	})

	t.Run("rename_to_existing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		first := testutil.CreateTestCategory(t, db, true)
		second := testutil.CreateTestCategory(t, db, true)

		_, err := svc.UpdateCategory(second.ID, CategoryUpdate{Name: &first.Name})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.UpdateCategory(uuid.New(), CategoryUpdate{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	t.Run("keeps_transactions_and_removes_budgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, true)

		now := time.Now()
		tx := testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, models.TransactionTypeExpense, testutil.Amount(t, "25"), now)
		testutil.CreateTestBudget(t, db, user.ID, cat.ID, testutil.Amount(t, "100"), int(now.Month()), now.Year())

		testutil.AssertNoError(t, svc.DeleteCategory(cat.ID))

		var reloaded models.Transaction
		if err := db.First(&reloaded, "id = ?", tx.ID).Error; err != nil {
			t.Fatalf("expected transaction to survive category deletion: %v", err)
		}
		if reloaded.CategoryID != nil {
			t.Errorf("expected category to be cleared, got %v", *reloaded.CategoryID)
		}

		var budgets int64
		db.Unscoped().Model(&models.Budget{}).Where("category_id = ?", cat.ID).Count(&budgets)
		if budgets != 0 {
			t.Errorf("expected budgets of the category to be removed, got %d", budgets)
		}

		_, err := svc.GetCategoryByID(cat.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		err := svc.DeleteCategory(uuid.New())
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}
