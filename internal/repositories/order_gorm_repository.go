package repositories

import (
	"errors"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create inserts an order together with its items in one transaction.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("order number %s already exists", order.OrderNumber)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order with ID %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order item with ID %s not found", itemID)
		}
		return nil, apperrors.Internal(err)
	}
	return &item, nil
}

func (r *GORMOrderRepository) ListByWorkshop(workshopID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("workshop_id = ?", workshopID).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListByMagazine(magazineID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("magazine_id = ?", magazineID).Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

// ListByTailor returns the orders containing at least one item assigned
// to the tailor.
func (r *GORMOrderRepository) ListByTailor(tailorID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("order_items.tailor_id = ?", tailorID).
		Distinct().
		Order("orders.created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListTracking(orderID string) ([]models.OrderTracking, error) {
	var rows []models.OrderTracking
	if err := r.db.Where("order_id = ?", orderID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return rows, nil
}

// Transition moves an order to the next status after consulting the
// state machine table, appending an OrderTracking row in the same
// transaction. Advancing to PACKAGING additionally requires every item
// of the order to be COMPLETED.
func (r *GORMOrderRepository) Transition(orderID string, next models.OrderStatus, validatorID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order with ID %s not found", orderID)
			}
			return apperrors.Internal(err)
		}

		if !order.Status.CanTransitionTo(next) {
			return apperrors.InvalidTransition("order %s cannot move from %s to %s", order.OrderNumber, order.Status, next)
		}
		if next == models.OrderPackaging {
			for _, item := range order.Items {
				if item.Status != models.ItemCompleted {
					return apperrors.InvalidTransition("order %s still has unfinished items", order.OrderNumber)
				}
			}
		}

		previous := order.Status
		order.Status = next
		if order.ValidatorID == nil {
			order.ValidatorID = &validatorID
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"status": next, "validator_id": order.ValidatorID}).Error; err != nil {
			return apperrors.Internal(err)
		}

		tracking := models.OrderTracking{
			ID:             uuid.New().String(),
			OrderID:        order.ID,
			PreviousStatus: previous,
			NewStatus:      next,
			ValidatorID:    &validatorID,
			CreatedAt:      time.Now(),
		}
		if err := tx.Create(&tracking).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// AssignItem binds an order item to a tailor, recording the assignment
// in the ValidatorAssignmentLog. The first assignment on a VALIDATED
// order moves it to TAILORING, with its tracking row, in the same
// transaction.
func (r *GORMOrderRepository) AssignItem(itemID, tailorID, validatorID, reason string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order item with ID %s not found", itemID)
			}
			return apperrors.Internal(err)
		}
		if item.Status == models.ItemCompleted {
			return apperrors.InvalidTransition("item %s is already completed", itemID)
		}

		var order models.Order
		if err := tx.First(&order, "id = ?", item.OrderID).Error; err != nil {
			return apperrors.Internal(err)
		}
		if order.Status != models.OrderValidated && order.Status != models.OrderTailoring {
			return apperrors.InvalidTransition("order %s is not accepting assignments in status %s", order.OrderNumber, order.Status)
		}

		item.TailorID = &tailorID
		item.ValidatorID = &validatorID
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{"tailor_id": tailorID, "validator_id": validatorID}).Error; err != nil {
			return apperrors.Internal(err)
		}

		logRow := models.ValidatorAssignmentLog{
			ID:          uuid.New().String(),
			OrderItemID: item.ID,
			ValidatorID: validatorID,
			TailorID:    tailorID,
			Reason:      reason,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return apperrors.Internal(err)
		}

		if order.Status == models.OrderValidated {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("status", models.OrderTailoring).Error; err != nil {
				return apperrors.Internal(err)
			}
			tracking := models.OrderTracking{
				ID:             uuid.New().String(),
				OrderID:        order.ID,
				PreviousStatus: models.OrderValidated,
				NewStatus:      models.OrderTailoring,
				ValidatorID:    &validatorID,
				CreatedAt:      time.Now(),
			}
			if err := tx.Create(&tracking).Error; err != nil {
				return apperrors.Internal(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemStatus advances an item along PENDING -> IN_PROGRESS ->
// COMPLETED. Only the assigned tailor may move it; completion stamps the
// completion date.
func (r *GORMOrderRepository) UpdateItemStatus(itemID, tailorID string, next models.ItemStatus) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("order item with ID %s not found", itemID)
			}
			return apperrors.Internal(err)
		}
		if item.TailorID == nil || *item.TailorID != tailorID {
			return apperrors.Forbidden("item %s is not assigned to this tailor", itemID)
		}
		if !item.Status.CanTransitionTo(next) {
			return apperrors.InvalidTransition("item %s cannot move from %s to %s", itemID, item.Status, next)
		}

		updates := map[string]interface{}{"status": next}
		if next == models.ItemCompleted {
			now := time.Now()
			item.CompletedAt = &now
			updates["completed_at"] = &now
		}
		item.Status = next
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
