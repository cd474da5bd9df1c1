package models

// Activity records one mutating operation for the audit trail.
// Append-only; written best-effort alongside every mutation.
type Activity struct {
	Base
	Type    string `gorm:"not null" json:"type"`
	Actor   string `gorm:"not null" json:"actor"`
	Details string `gorm:"not null" json:"details"`
}
