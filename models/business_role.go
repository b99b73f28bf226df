package models

import (
	"time"

	"gorm.io/gorm"
)

// StaffRole is a seat a vendor can hand out to restaurant staff.
type StaffRole string

const (
	StaffAdmin           StaffRole = "admin"
	StaffManager         StaffRole = "manager"
	StaffChef            StaffRole = "chef"
	StaffDeliveryPartner StaffRole = "deliveryPartner"
)

var StaffRoles = []StaffRole{StaffAdmin, StaffManager, StaffChef, StaffDeliveryPartner}

func ParseStaffRole(s string) (StaffRole, bool) {
	for _, r := range StaffRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RoleSlot holds the bcrypt hash of a role's secret key, never the key.
type RoleSlot struct {
	Name       string `json:"name"`
	SecretHash string `json:"-"`
	IsSet      bool   `json:"isSet"`
}

type BusinessRole struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	Admin           RoleSlot  `gorm:"embedded;embeddedPrefix:admin_" json:"admin"`
	Manager         RoleSlot  `gorm:"embedded;embeddedPrefix:manager_" json:"manager"`
	Chef            RoleSlot  `gorm:"embedded;embeddedPrefix:chef_" json:"chef"`
	DeliveryPartner RoleSlot  `gorm:"embedded;embeddedPrefix:delivery_partner_" json:"deliveryPartner"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Slot returns the slot for role, or nil for an unknown role.
func (b *BusinessRole) Slot(role StaffRole) *RoleSlot {
	switch role {
	case StaffAdmin:
		return &b.Admin
	case StaffManager:
		return &b.Manager
	case StaffChef:
		return &b.Chef
	case StaffDeliveryPartner:
		return &b.DeliveryPartner
	default:
		return nil
	}
}

func (b *BusinessRole) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}
