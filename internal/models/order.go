package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order. Normal operation moves
// forward through PENDING, VALIDATED, TAILORING, PACKAGING, COMPLETED;
// REJECTED is a terminal side branch out of PENDING.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderValidated OrderStatus = "VALIDATED"
	OrderTailoring OrderStatus = "TAILORING"
	OrderPackaging OrderStatus = "PACKAGING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderRejected  OrderStatus = "REJECTED"
)

// orderTransitions is the explicit state machine table consulted before
// every order mutation; anything not listed is an invalid transition.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderValidated, OrderRejected},
	OrderValidated: {OrderTailoring},
	OrderTailoring: {OrderPackaging},
	OrderPackaging: {OrderCompleted},
}

// CanTransitionTo reports whether next is an adjacent state of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderValidated, OrderTailoring, OrderPackaging, OrderCompleted, OrderRejected:
		return true
	}
	return false
}

// ItemStatus is the lifecycle state of a single order item.
type ItemStatus string

const (
	ItemPending    ItemStatus = "PENDING"
	ItemInProgress ItemStatus = "IN_PROGRESS"
	ItemCompleted  ItemStatus = "COMPLETED"
)

var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemPending:    {ItemInProgress},
	ItemInProgress: {ItemCompleted},
}

// CanTransitionTo reports whether next is an adjacent state of s.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, allowed := range itemTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidItemStatus reports whether s is a known item status.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemPending, ItemInProgress, ItemCompleted:
		return true
	}
	return false
}

// Order is placed by a magazine against its workshop and reviewed by a
// validator. ValidatorID is set when a validator accepts or rejects it.
type Order struct {
	ID          string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber string      `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	MagazineID  string      `json:"magazine_id" gorm:"index;type:varchar(36)"`
	Magazine    *Magazine   `json:"-" gorm:"foreignKey:MagazineID;constraint:OnDelete:CASCADE"`
	WorkshopID  string      `json:"workshop_id" gorm:"index;type:varchar(36)"`
	Workshop    *Workshop   `json:"-" gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE"`
	ValidatorID *string     `json:"validator_id" gorm:"type:varchar(36)"`
	Validator   *Validator  `json:"-" gorm:"foreignKey:ValidatorID;constraint:OnDelete:RESTRICT"`
	TotalPrice  float64     `json:"total_price" validate:"gte=0"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(32);index"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	gorm.Model  `json:"-"`
}

// OrderItem is a unit of work within an order, assigned to one tailor by
// one validator. Tailors and validators referenced by live items are
// restrict-protected from deletion.
type OrderItem struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string     `json:"order_id" gorm:"index;type:varchar(36)"`
	Order          *Order     `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TailorID       *string    `json:"tailor_id" gorm:"type:varchar(36)"`
	Tailor         *Tailor    `json:"-" gorm:"foreignKey:TailorID;constraint:OnDelete:RESTRICT"`
	ValidatorID    *string    `json:"validator_id" gorm:"type:varchar(36)"`
	Validator      *Validator `json:"-" gorm:"foreignKey:ValidatorID;constraint:OnDelete:RESTRICT"`
	Description    string     `json:"description" gorm:"type:varchar(500)" validate:"required,max=500"`
	Price          float64    `json:"price" validate:"gte=0"`
	EstimatedHours float64    `json:"estimated_hours" validate:"gte=0"`
	Status         ItemStatus `json:"status" gorm:"type:varchar(32);index"`
	CompletedAt    *time.Time `json:"completed_at"`
	gorm.Model     `json:"-"`
}

// OrderTracking is an append-only audit row recorded for every order
// status change, in the same transaction as the change itself.
type OrderTracking struct {
	ID             string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID        string      `json:"order_id" gorm:"index;type:varchar(36)"`
	Order          *Order      `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PreviousStatus OrderStatus `json:"previous_status" gorm:"type:varchar(32)"`
	NewStatus      OrderStatus `json:"new_status" gorm:"type:varchar(32)"`
	ValidatorID    *string     `json:"validator_id" gorm:"type:varchar(36)"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ValidatorAssignmentLog is an append-only audit row recorded for every
// item assignment.
type ValidatorAssignmentLog struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderItemID string     `json:"order_item_id" gorm:"index;type:varchar(36)"`
	OrderItem   *OrderItem `json:"-" gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE"`
	ValidatorID string     `json:"validator_id" gorm:"type:varchar(36)"`
	TailorID    string     `json:"tailor_id" gorm:"type:varchar(36)"`
	Reason      string     `json:"reason" gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
}
