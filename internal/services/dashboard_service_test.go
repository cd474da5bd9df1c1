package services

import (
	"context"
	"testing"

	"clubledger/internal/models"
	"clubledger/internal/testutil"
)

func TestGetStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)

	testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))
	testutil.CreateTestBudget(t, db, "Catering", testutil.Money(t, "500"))
	testutil.CreateTestDonation(t, db, testutil.Money(t, "300"), models.DonationStatusApproved)
	testutil.CreateTestDonation(t, db, testutil.Money(t, "999"), models.DonationStatusPending)
	testutil.CreateTestExpense(t, db, "Events", testutil.Money(t, "200"), models.ExpenseStatusApproved)
	testutil.CreateTestExpense(t, db, "Events", testutil.Money(t, "777"), models.ExpenseStatusPending)
	testutil.CreateTestAdmin(t, db, models.RoleAdmin)
	inactive := testutil.CreateTestAdmin(t, db, models.RoleAdmin)
	testutil.AssertNoError(t, db.Model(inactive).Update("status", models.AccountStatusInactive).Error)

	stats, err := svc.GetStats(context.Background())
	testutil.AssertNoError(t, err)

	testutil.AssertMoneyEqual(t, testutil.Money(t, "300"), stats.TotalDonations, "total donations")
	testutil.AssertMoneyEqual(t, testutil.Money(t, "200"), stats.TotalExpenses, "total expenses")
	testutil.AssertMoneyEqual(t, testutil.Money(t, "1500"), stats.TotalAllocated, "total allocated")
	testutil.AssertMoneyEqual(t, testutil.Money(t, "1300"), stats.Remaining, "remaining")
	if stats.ActiveAdmins != 1 {
		t.Errorf("expected 1 active admin, got %d", stats.ActiveAdmins)
	}
}

func TestGetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)

	testutil.CreateTestBudget(t, db, "Events", testutil.Money(t, "1000"))
	testutil.CreateTestDonation(t, db, testutil.Money(t, "600"), models.DonationStatusApproved)
	testutil.CreateTestExpense(t, db, "Events", testutil.Money(t, "250"), models.ExpenseStatusApproved)

	summary, err := svc.GetSummary(context.Background())
	testutil.AssertNoError(t, err)

	testutil.AssertMoneyEqual(t, testutil.Money(t, "350"), summary.Balance, "balance")
	testutil.AssertMoneyEqual(t, testutil.Money(t, "25"), summary.BudgetUtilization, "utilization")
}

func TestGetSummaryEmptyBudgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)

	summary, err := svc.GetSummary(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertMoneyEqual(t, testutil.Money(t, "0"), summary.BudgetUtilization, "utilization")
}

func TestGetRecentTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDashboardService(db)

	testutil.CreateTestDonation(t, db, testutil.Money(t, "500"), models.DonationStatusApproved)
	testutil.CreateTestExpense(t, db, "Events", testutil.Money(t, "200"), models.ExpenseStatusApproved)
	testutil.CreateTestDonation(t, db, testutil.Money(t, "100"), models.DonationStatusRejected)

	feed, err := svc.GetRecentTransactions(10)
	testutil.AssertNoError(t, err)

	if len(feed) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(feed))
	}
	// The newest row carries the overall balance: 500 - 200 = 300.
	testutil.AssertMoneyEqual(t, testutil.Money(t, "300"), feed[0].RunningBalance, "newest running balance")
}
