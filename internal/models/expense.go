package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus represents the lifecycle state of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

// Expense represents money spent against a budget category.
//
// Category references Budget.Category by name, not by id. An expense's
// amount is reflected in its category's spent iff the status is approved.
type Expense struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Category    string          `gorm:"not null;index:idx_expenses_category_status" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	Status      ExpenseStatus   `gorm:"not null;default:'pending';index:idx_expenses_category_status" json:"status"`
	CreatedBy   uint            `json:"created_by"`
	ApprovedBy  *uint           `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time      `json:"approved_at,omitempty"`
}
