package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget represents an allocation bucket for a single expense category.
//
// Spent and Remaining are owned exclusively by the budget reconciler: no
// other code writes them after creation. Remaining is always derived as
// Allocated - Spent, and Spent stays within [0, Allocated].
type Budget struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Category    string          `gorm:"not null;uniqueIndex" json:"category"`
	Allocated   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"allocated"`
	Spent       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"spent"`
	Remaining   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"remaining"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Description string          `json:"description"`
	CreatedBy   uint            `json:"created_by"`

	// Version guards the read-modify-write cycle in the reconciler.
	Version int64 `gorm:"not null;default:0" json:"-"`
}
