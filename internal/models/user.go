package models

import "gorm.io/gorm"

// Role tags a user with the single role it was provisioned with.
type Role string

const (
	RoleWorkshopOwner Role = "WORKSHOP_OWNER"
	RoleMagazineOwner Role = "MAGAZINE_OWNER"
	RoleTailor        Role = "TAILOR"
	RoleValidator     Role = "VALIDATOR"
)

// ReferralRoles are the roles that can only be provisioned through a
// referral link; a workshop owner bootstraps its own workshop instead.
var ReferralRoles = map[Role]bool{
	RoleMagazineOwner: true,
	RoleTailor:        true,
	RoleValidator:     true,
}

// User represents an account of any role. Exactly one role-specific row
// (Workshop, Magazine, Tailor or Validator) exists per user after
// provisioning.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username     string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email        string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password     string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	FullName     string `json:"full_name" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Role         Role   `json:"role" gorm:"type:varchar(32);index"`
	RefreshToken string `json:"-" gorm:"type:varchar(64);index"`
	gorm.Model   `json:"-"`
}
