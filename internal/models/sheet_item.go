package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SheetItem is a row of the shared planning spreadsheet. The dashboard
// saves the whole sheet at once, so items are replaced wholesale rather
// than edited individually.
type SheetItem struct {
	Base
	ItemName   string          `gorm:"not null" json:"item_name"`
	Category   string          `json:"category"`
	Quantity   int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"total_price"`
	Vendor     string          `json:"vendor"`
	Status     string          `gorm:"not null;default:'pending'" json:"status"`
}

// BeforeSave keeps TotalPrice derived from Quantity and UnitPrice.
func (s *SheetItem) BeforeSave(tx *gorm.DB) error {
	s.TotalPrice = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
	return nil
}
