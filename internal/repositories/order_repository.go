package repositories

import "atelier/internal/models"

// OrderRepository defines data access for orders, items and their audit
// trails. Workflow methods (Transition, AssignItem, UpdateItemStatus) run
// inside a database transaction so the state check, the mutation and the
// audit append commit or roll back as one.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetItem(itemID string) (*models.OrderItem, error)
	ListByWorkshop(workshopID string) ([]models.Order, error)
	ListByMagazine(magazineID string) ([]models.Order, error)
	ListByTailor(tailorID string) ([]models.Order, error)
	ListTracking(orderID string) ([]models.OrderTracking, error)

	Transition(orderID string, next models.OrderStatus, validatorID string) (*models.Order, error)
	AssignItem(itemID, tailorID, validatorID, reason string) (*models.OrderItem, error)
	UpdateItemStatus(itemID, tailorID string, next models.ItemStatus) (*models.OrderItem, error)
}
