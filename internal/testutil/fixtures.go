package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clubledger/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Money builds a decimal from a string, failing the test on a typo.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return d
}

// CreateTestBudget creates a budget category with the given allocation and
// spent=0, remaining=allocated.
func CreateTestBudget(t *testing.T, db *gorm.DB, category string, allocated decimal.Decimal) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		Category:  category,
		Allocated: allocated,
		Spent:     decimal.Zero,
		Remaining: allocated,
		Date:      time.Now(),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense in the given status.
func CreateTestExpense(t *testing.T, db *gorm.DB, category string, amount decimal.Decimal, status models.ExpenseStatus) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		Name:     fmt.Sprintf("Test Expense %d", nextID()),
		Category: category,
		Amount:   amount,
		Date:     time.Now(),
		Status:   status,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestDonation creates a donation in the given status.
func CreateTestDonation(t *testing.T, db *gorm.DB, amount decimal.Decimal, status models.DonationStatus) *models.Donation {
	t.Helper()

	donation := &models.Donation{
		DonorName:     fmt.Sprintf("Test Donor %d", nextID()),
		Amount:        amount,
		Date:          time.Now(),
		PaymentMethod: models.PaymentMethodCash,
		Status:        status,
	}
	if err := db.Create(donation).Error; err != nil {
		t.Fatalf("failed to create test donation: %v", err)
	}
	return donation
}

// CreateTestAdmin creates an active admin with a unique ID card number.
func CreateTestAdmin(t *testing.T, db *gorm.DB, role models.Role) *models.Admin {
	t.Helper()

	n := nextID()
	admin := &models.Admin{
		IDCardNo:  fmt.Sprintf("ADM%04d", n),
		Name:      fmt.Sprintf("Test Admin %d", n),
		Mobile:    fmt.Sprintf("98%08d", n),
		Role:      role,
		AddedDate: time.Now(),
		Status:    models.AccountStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateTestMember creates an active member with a unique card number.
func CreateTestMember(t *testing.T, db *gorm.DB) *models.Member {
	t.Helper()

	n := nextID()
	member := &models.Member{
		IDCardNo: fmt.Sprintf("MEM%04d", n),
		Name:     fmt.Sprintf("Test Member %d", n),
		Mobile:   fmt.Sprintf("97%08d", n),
		Role:     models.RoleMember,
		Status:   models.AccountStatusActive,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}
