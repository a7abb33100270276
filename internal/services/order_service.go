package services

import (
	"fmt"
	"log"
	"strings"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/repositories"

	"github.com/google/uuid"
)

// OrderEventPublisher publishes order lifecycle events to the message
// broker. *rabbitmq.Client satisfies it; tests pass a mock or nil.
type OrderEventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// OrderService drives the order lifecycle: creation by magazines,
// acceptance and item assignment by validators, item progression by
// tailors.
type OrderService struct {
	orderRepo    repositories.OrderRepository
	workshopRepo repositories.WorkshopRepository
	mqClient     OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, workshopRepo repositories.WorkshopRepository, mqClient OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		workshopRepo: workshopRepo,
		mqClient:     mqClient,
	}
}

// OrderItemRequest is one unit of work in a creation request.
type OrderItemRequest struct {
	Description    string  `json:"description" validate:"required,max=500"`
	Price          float64 `json:"price" validate:"gte=0"`
	EstimatedHours float64 `json:"estimated_hours" validate:"gte=0"`
}

// CreateOrderRequest is the payload for order creation.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// Create places a new PENDING order for the magazine owned by
// magazineUserID against its workshop. The total price is the sum of the
// item prices.
func (s *OrderService) Create(magazineUserID string, req CreateOrderRequest) (*models.Order, error) {
	magazine, err := s.workshopRepo.GetMagazineByUser(magazineUserID)
	if err != nil {
		return nil, err
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			Description:    it.Description,
			Price:          it.Price,
			EstimatedHours: it.EstimatedHours,
			Status:         models.ItemPending,
		})
		total += it.Price
	}

	order := &models.Order{
		OrderNumber: newOrderNumber(),
		MagazineID:  magazine.ID,
		WorkshopID:  magazine.WorkshopID,
		TotalPrice:  total,
		Status:      models.OrderPending,
		Items:       items,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.publish("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"workshop_id":  order.WorkshopID,
		"magazine_id":  order.MagazineID,
		"total_price":  order.TotalPrice,
	})
	return order, nil
}

// Validate accepts a PENDING order, binding the acting validator to it.
func (s *OrderService) Validate(validatorUserID, orderID string) (*models.Order, error) {
	return s.transition(validatorUserID, orderID, models.OrderValidated)
}

// Reject moves a PENDING order to the terminal REJECTED state.
func (s *OrderService) Reject(validatorUserID, orderID string) (*models.Order, error) {
	return s.transition(validatorUserID, orderID, models.OrderRejected)
}

// Advance moves an order forward to PACKAGING or COMPLETED. There is no
// automatic advance when items finish: a validator calls this
// explicitly.
func (s *OrderService) Advance(validatorUserID, orderID string, next models.OrderStatus) (*models.Order, error) {
	if next != models.OrderPackaging && next != models.OrderCompleted {
		return nil, apperrors.Validation("cannot advance to status %q", next)
	}
	return s.transition(validatorUserID, orderID, next)
}

func (s *OrderService) transition(validatorUserID, orderID string, next models.OrderStatus) (*models.Order, error) {
	validator, err := s.workshopRepo.GetValidatorByUser(validatorUserID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.WorkshopID != validator.WorkshopID {
		return nil, apperrors.Forbidden("order belongs to another workshop")
	}

	updated, err := s.orderRepo.Transition(orderID, next, validator.ID)
	if err != nil {
		return nil, err
	}

	s.publish("order.status_changed", map[string]interface{}{
		"order_id":     updated.ID,
		"order_number": updated.OrderNumber,
		"status":       string(next),
		"validator_id": validator.ID,
	})
	return updated, nil
}

// AssignItem binds an order item to a tailor of the same workshop. The
// first assignment on a VALIDATED order moves it into TAILORING.
func (s *OrderService) AssignItem(validatorUserID, itemID, tailorID, reason string) (*models.OrderItem, error) {
	validator, err := s.workshopRepo.GetValidatorByUser(validatorUserID)
	if err != nil {
		return nil, err
	}
	tailor, err := s.workshopRepo.GetTailorByID(tailorID)
	if err != nil {
		return nil, err
	}
	if tailor.WorkshopID != validator.WorkshopID {
		return nil, apperrors.Forbidden("tailor belongs to another workshop")
	}
	item, err := s.orderRepo.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(item.OrderID)
	if err != nil {
		return nil, err
	}
	if order.WorkshopID != validator.WorkshopID {
		return nil, apperrors.Forbidden("order belongs to another workshop")
	}

	assigned, err := s.orderRepo.AssignItem(itemID, tailor.ID, validator.ID, reason)
	if err != nil {
		return nil, err
	}

	s.publish("order.item_assigned", map[string]interface{}{
		"order_id":      order.ID,
		"order_item_id": assigned.ID,
		"tailor_id":     tailor.ID,
		"validator_id":  validator.ID,
	})
	return assigned, nil
}

// UpdateItemStatus advances an item for the tailor owned by
// tailorUserID. Only the assigned tailor may progress an item.
func (s *OrderService) UpdateItemStatus(tailorUserID, itemID string, next models.ItemStatus) (*models.OrderItem, error) {
	if !models.ValidItemStatus(next) {
		return nil, apperrors.Validation("unknown item status %q", next)
	}
	tailor, err := s.workshopRepo.GetTailorByUser(tailorUserID)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.UpdateItemStatus(itemID, tailor.ID, next)
}

// Get returns an order if the actor is allowed to see it.
func (s *OrderService) Get(userID string, role models.Role, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(userID, role, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListForActor returns the orders visible to the actor: all workshop
// orders for owners and validators, own orders for magazines, orders
// containing assigned items for tailors.
func (s *OrderService) ListForActor(userID string, role models.Role) ([]models.Order, error) {
	switch role {
	case models.RoleWorkshopOwner:
		workshop, err := s.workshopRepo.GetWorkshopByOwner(userID)
		if err != nil {
			return nil, err
		}
		return s.orderRepo.ListByWorkshop(workshop.ID)
	case models.RoleValidator:
		validator, err := s.workshopRepo.GetValidatorByUser(userID)
		if err != nil {
			return nil, err
		}
		return s.orderRepo.ListByWorkshop(validator.WorkshopID)
	case models.RoleMagazineOwner:
		magazine, err := s.workshopRepo.GetMagazineByUser(userID)
		if err != nil {
			return nil, err
		}
		return s.orderRepo.ListByMagazine(magazine.ID)
	case models.RoleTailor:
		tailor, err := s.workshopRepo.GetTailorByUser(userID)
		if err != nil {
			return nil, err
		}
		return s.orderRepo.ListByTailor(tailor.ID)
	}
	return nil, apperrors.Forbidden("role %s cannot list orders", role)
}

// Tracking returns the ordered audit trail of an order the actor may
// see.
func (s *OrderService) Tracking(userID string, role models.Role, orderID string) ([]models.OrderTracking, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(userID, role, order); err != nil {
		return nil, err
	}
	return s.orderRepo.ListTracking(order.ID)
}

func (s *OrderService) authorize(userID string, role models.Role, order *models.Order) error {
	switch role {
	case models.RoleWorkshopOwner:
		workshop, err := s.workshopRepo.GetWorkshopByOwner(userID)
		if err != nil {
			return err
		}
		if workshop.ID == order.WorkshopID {
			return nil
		}
	case models.RoleValidator:
		validator, err := s.workshopRepo.GetValidatorByUser(userID)
		if err != nil {
			return err
		}
		if validator.WorkshopID == order.WorkshopID {
			return nil
		}
	case models.RoleMagazineOwner:
		magazine, err := s.workshopRepo.GetMagazineByUser(userID)
		if err != nil {
			return err
		}
		if magazine.ID == order.MagazineID {
			return nil
		}
	case models.RoleTailor:
		tailor, err := s.workshopRepo.GetTailorByUser(userID)
		if err != nil {
			return err
		}
		for _, item := range order.Items {
			if item.TailorID != nil && *item.TailorID == tailor.ID {
				return nil
			}
		}
	}
	return apperrors.Forbidden("not allowed to access order %s", order.ID)
}

func (s *OrderService) publish(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

// newOrderNumber produces a human-readable unique order number.
func newOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:12]
	return fmt.Sprintf("ORD-%s", fragment)
}
