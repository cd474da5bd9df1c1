package services

import (
	"testing"

	"clubledger/internal/models"
	"clubledger/internal/testutil"
)

func TestAdjust(t *testing.T) {
	t.Run("charges_and_rederives_remaining", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		budget, err := rec.Adjust("Events", testutil.Money(t, "300"))
		testutil.AssertNoError(t, err)

		testutil.AssertMoneyEqual(t, testutil.Money(t, "300"), budget.Spent, "spent")
		testutil.AssertMoneyEqual(t, testutil.Money(t, "700"), budget.Remaining, "remaining")
	})

	t.Run("trims_category_before_lookup", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		budget, err := rec.Adjust("  Events  ", testutil.Money(t, "100"))
		testutil.AssertNoError(t, err)
		testutil.AssertMoneyEqual(t, testutil.Money(t, "100"), budget.Spent, "spent")
	})

	t.Run("missing_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)

		_, err := rec.Adjust("Nowhere", testutil.Money(t, "10"))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("clamps_floor_at_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		_, err := rec.Adjust("Events", testutil.Money(t, "500"))
		testutil.AssertNoError(t, err)

		// Reversing more than was ever charged floors at zero; the extra
		// 100 is absorbed, not banked.
		budget, err := rec.Adjust("Events", testutil.Money(t, "-600"))
		testutil.AssertNoError(t, err)

		testutil.AssertMoneyEqual(t, testutil.Money(t, "0"), budget.Spent, "spent")
		testutil.AssertMoneyEqual(t, testutil.Money(t, "1000"), budget.Remaining, "remaining")
	})

	t.Run("clamps_ceiling_at_allocated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		budget, err := rec.Adjust("Events", testutil.Money(t, "1500"))
		testutil.AssertNoError(t, err)

		testutil.AssertMoneyEqual(t, testutil.Money(t, "1000"), budget.Spent, "spent")
		testutil.AssertMoneyEqual(t, testutil.Money(t, "0"), budget.Remaining, "remaining")
	})

	t.Run("bumps_version_on_every_write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		created := testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		_, err := rec.Adjust("Events", testutil.Money(t, "100"))
		testutil.AssertNoError(t, err)
		_, err = rec.Adjust("Events", testutil.Money(t, "100"))
		testutil.AssertNoError(t, err)

		var stored models.Budget
		testutil.AssertNoError(t, db.First(&stored, created.ID).Error)
		if stored.Version != created.Version+2 {
			t.Errorf("expected version %d, got %d", created.Version+2, stored.Version)
		}
	})

	t.Run("retries_after_concurrent_write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		created := testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		// Simulate a writer that raced ahead of the reconciler's first read.
		testutil.AssertNoError(t, db.Model(&models.Budget{}).
			Where("id = ?", created.ID).
			Update("version", created.Version+1).Error)

		budget, err := rec.Adjust("Events", testutil.Money(t, "250"))
		testutil.AssertNoError(t, err)
		testutil.AssertMoneyEqual(t, testutil.Money(t, "250"), budget.Spent, "spent")
	})

	t.Run("invariants_hold_after_mixed_deltas", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		rec := NewBudgetReconciler(db)
		created := testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))

		for _, delta := range []string{"400", "-100", "900", "-2000", "50"} {
			_, err := rec.Adjust("Events", testutil.Money(t, delta))
			testutil.AssertNoError(t, err)

			var stored models.Budget
			testutil.AssertNoError(t, db.First(&stored, created.ID).Error)
			if stored.Spent.IsNegative() || stored.Spent.GreaterThan(stored.Allocated) {
				t.Fatalf("spent %s outside [0, %s] after delta %s", stored.Spent, stored.Allocated, delta)
			}
			testutil.AssertMoneyEqual(t, stored.Allocated.Sub(stored.Spent), stored.Remaining, "remaining after "+delta)
		}
	})
}
