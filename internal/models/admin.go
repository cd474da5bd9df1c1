package models

import "time"

// Role is the authorization level carried in JWT claims
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleMember     Role = "member"
)

// AccountStatus marks whether a login identity is usable
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// Admin represents a privileged committee account. Admins log in with
// their ID card number and mobile number.
type Admin struct {
	Base
	IDCardNo  string        `gorm:"not null;uniqueIndex" json:"id_card_no"`
	Name      string        `gorm:"not null" json:"name"`
	Mobile    string        `gorm:"not null" json:"mobile"`
	Role      Role          `gorm:"not null" json:"role"`
	AddedDate time.Time     `gorm:"not null" json:"added_date"`
	Status    AccountStatus `gorm:"not null;default:'active'" json:"status"`
}
