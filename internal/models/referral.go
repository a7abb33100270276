package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralType is the role a referral link provisions.
type ReferralType string

const (
	ReferralMagazine  ReferralType = "MAGAZINE"
	ReferralTailor    ReferralType = "TAILOR"
	ReferralValidator ReferralType = "VALIDATOR"
)

// RoleForReferral maps a referral type to the user role it registers.
func RoleForReferral(t ReferralType) (Role, bool) {
	switch t {
	case ReferralMagazine:
		return RoleMagazineOwner, true
	case ReferralTailor:
		return RoleTailor, true
	case ReferralValidator:
		return RoleValidator, true
	}
	return "", false
}

// ReferralTypeForRole is the inverse of RoleForReferral.
func ReferralTypeForRole(r Role) (ReferralType, bool) {
	switch r {
	case RoleMagazineOwner:
		return ReferralMagazine, true
	case RoleTailor:
		return ReferralTailor, true
	case RoleValidator:
		return ReferralValidator, true
	}
	return "", false
}

// ReferralLink gates registration of a new account into a workshop.
// Links are multi-use: any number of accounts may register with an active
// token until the workshop owner deactivates it.
type ReferralLink struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	WorkshopID   string       `json:"workshop_id" gorm:"index;type:varchar(36)"`
	Workshop     *Workshop    `json:"-" gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE"`
	Token        string       `json:"token" gorm:"uniqueIndex;type:varchar(64)"`
	ReferralType ReferralType `json:"referral_type" gorm:"type:varchar(32)"`
	ExpiresAt    *time.Time   `json:"expires_at"`
	IsActive     bool         `json:"is_active"`
	gorm.Model   `json:"-"`
}

// Usable reports whether the link currently admits registrations.
func (l *ReferralLink) Usable(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && !l.ExpiresAt.After(now) {
		return false
	}
	return true
}
