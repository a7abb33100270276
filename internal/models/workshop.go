package models

import "gorm.io/gorm"

// SubscriptionPlan is a billing tier a workshop can subscribe to.
// Plans are seeded at startup; payment collection is out of scope.
type SubscriptionPlan struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string  `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	MaxMagazines int     `json:"max_magazines" validate:"gte=0"`
	MaxTailors   int     `json:"max_tailors" validate:"gte=0"`
	gorm.Model   `json:"-"`
}

// Workshop is the tenant organization owning magazines, tailors,
// validators and orders. Exactly one workshop exists per WORKSHOP_OWNER
// user, created during registration.
type Workshop struct {
	ID                 string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerUserID        string            `json:"owner_user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Owner              *User             `json:"-" gorm:"foreignKey:OwnerUserID;constraint:OnDelete:CASCADE"`
	Name               string            `json:"name" gorm:"type:varchar(255)" validate:"required,min=3,max=255"`
	CommissionRate     float64           `json:"commission_rate" validate:"gte=0,lte=1"`
	SubscriptionPlanID *string           `json:"subscription_plan_id" gorm:"type:varchar(36)"`
	SubscriptionPlan   *SubscriptionPlan `json:"subscription_plan,omitempty" gorm:"foreignKey:SubscriptionPlanID"`
	gorm.Model         `json:"-"`
}

// Magazine is a shop that places orders against its workshop.
type Magazine struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	WorkshopID string    `json:"workshop_id" gorm:"index;type:varchar(36)"`
	Workshop   *Workshop `json:"-" gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE"`
	Name       string    `json:"name" gorm:"type:varchar(255)"`
	gorm.Model `json:"-"`
}

// Tailor executes assigned order items for its workshop.
type Tailor struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	WorkshopID string    `json:"workshop_id" gorm:"index;type:varchar(36)"`
	Workshop   *Workshop `json:"-" gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE"`
	Specialty  string    `json:"specialty" gorm:"type:varchar(100)"`
	gorm.Model `json:"-"`
}

// Validator reviews orders and assigns order items to tailors.
type Validator struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	User       *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	WorkshopID string    `json:"workshop_id" gorm:"index;type:varchar(36)"`
	Workshop   *Workshop `json:"-" gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE"`
	gorm.Model `json:"-"`
}
