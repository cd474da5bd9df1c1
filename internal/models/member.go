package models

// Member represents a regular club member. Card numbers are generated
// at signup (MEM0001, MEM0002, ...).
type Member struct {
	Base
	IDCardNo string        `gorm:"not null;uniqueIndex" json:"id_card_no"`
	Name     string        `gorm:"not null" json:"name"`
	Mobile   string        `gorm:"not null;uniqueIndex" json:"mobile"`
	Role     Role          `gorm:"not null;default:'member'" json:"role"`
	Status   AccountStatus `gorm:"not null;default:'active'" json:"status"`
}
