package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a donation was received
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodCheque PaymentMethod = "cheque"
)

// DonationStatus represents the review state of a donation
type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "pending"
	DonationStatusApproved DonationStatus = "approved"
	DonationStatusRejected DonationStatus = "rejected"
)

// Donation represents money received by the organization. Donations are
// informational only and never interact with budget categories.
type Donation struct {
	Base
	DonorName     string          `gorm:"not null" json:"donor_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date          time.Time       `gorm:"not null" json:"date"`
	PaymentMethod PaymentMethod   `gorm:"not null" json:"payment_method"`
	Note          string          `json:"note"`
	Status        DonationStatus  `gorm:"not null;default:'pending'" json:"status"`
	CreatedBy     uint            `json:"created_by"`
}
