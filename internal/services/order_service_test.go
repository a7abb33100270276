package services_test

import (
	"strings"
	"testing"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderService_Create(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	publisher := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, workshopRepo, publisher)

	magazine := &models.Magazine{ID: "mag-1", UserID: "maguser-1", WorkshopID: "ws-1"}
	workshopRepo.On("GetMagazineByUser", "maguser-1").Return(magazine, nil).Once()
	orderRepo.On("Create", mock.AnythingOfType("*models.Order")).Return(nil).Once()
	publisher.On("PublishOrderEvent", "order.created", mock.Anything).Return(nil).Once()

	order, err := service.Create("maguser-1", services.CreateOrderRequest{
		Items: []services.OrderItemRequest{
			{Description: "silk dress", Price: 80, EstimatedHours: 6},
			{Description: "wool jacket", Price: 40, EstimatedHours: 4},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "mag-1", order.MagazineID)
	assert.Equal(t, "ws-1", order.WorkshopID)
	assert.Equal(t, 120.0, order.TotalPrice)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, models.ItemPending, order.Items[0].Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	orderRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_ValidateChecksWorkshop(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewOrderService(orderRepo, workshopRepo, nil)

	validator := &models.Validator{ID: "val-1", UserID: "valuser-1", WorkshopID: "ws-1"}
	foreignOrder := &models.Order{ID: "ord-1", WorkshopID: "ws-other", Status: models.OrderPending}

	workshopRepo.On("GetValidatorByUser", "valuser-1").Return(validator, nil).Once()
	orderRepo.On("GetByID", "ord-1").Return(foreignOrder, nil).Once()

	_, err := service.Validate("valuser-1", "ord-1")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	orderRepo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ValidatePublishesStatusChange(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	publisher := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, workshopRepo, publisher)

	validator := &models.Validator{ID: "val-1", UserID: "valuser-1", WorkshopID: "ws-1"}
	order := &models.Order{ID: "ord-1", OrderNumber: "ORD-1", WorkshopID: "ws-1", Status: models.OrderPending}
	validated := &models.Order{ID: "ord-1", OrderNumber: "ORD-1", WorkshopID: "ws-1", Status: models.OrderValidated}

	workshopRepo.On("GetValidatorByUser", "valuser-1").Return(validator, nil).Once()
	orderRepo.On("GetByID", "ord-1").Return(order, nil).Once()
	orderRepo.On("Transition", "ord-1", models.OrderValidated, "val-1").Return(validated, nil).Once()
	publisher.On("PublishOrderEvent", "order.status_changed", mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["status"] == "VALIDATED" && payload["order_id"] == "ord-1"
	})).Return(nil).Once()

	got, err := service.Validate("valuser-1", "ord-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderValidated, got.Status)
	publisher.AssertExpectations(t)
}

func TestOrderService_TransitionErrorsPropagate(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	publisher := new(MockEventPublisher)
	service := services.NewOrderService(orderRepo, workshopRepo, publisher)

	validator := &models.Validator{ID: "val-1", UserID: "valuser-1", WorkshopID: "ws-1"}
	rejected := &models.Order{ID: "ord-1", WorkshopID: "ws-1", Status: models.OrderRejected}

	workshopRepo.On("GetValidatorByUser", "valuser-1").Return(validator, nil).Once()
	orderRepo.On("GetByID", "ord-1").Return(rejected, nil).Once()
	orderRepo.On("Transition", "ord-1", models.OrderValidated, "val-1").
		Return(nil, apperrors.InvalidTransition("order cannot move from REJECTED to VALIDATED")).Once()

	_, err := service.Validate("valuser-1", "ord-1")
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidTransition))
	// A failed transition publishes nothing.
	publisher.AssertNotCalled(t, "PublishOrderEvent", mock.Anything, mock.Anything)
}

func TestOrderService_AdvanceRejectsNonForwardStatuses(t *testing.T) {
	service := services.NewOrderService(new(MockOrderRepository), new(MockWorkshopRepository), nil)

	_, err := service.Advance("valuser-1", "ord-1", models.OrderPending)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))

	_, err = service.Advance("valuser-1", "ord-1", models.OrderRejected)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestOrderService_AssignItemChecksTailorWorkshop(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewOrderService(orderRepo, workshopRepo, nil)

	validator := &models.Validator{ID: "val-1", UserID: "valuser-1", WorkshopID: "ws-1"}
	foreignTailor := &models.Tailor{ID: "tail-1", WorkshopID: "ws-other"}

	workshopRepo.On("GetValidatorByUser", "valuser-1").Return(validator, nil).Once()
	workshopRepo.On("GetTailorByID", "tail-1").Return(foreignTailor, nil).Once()

	_, err := service.AssignItem("valuser-1", "item-1", "tail-1", "fastest hands")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	orderRepo.AssertNotCalled(t, "AssignItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateItemStatusResolvesTailor(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewOrderService(orderRepo, workshopRepo, nil)

	tailor := &models.Tailor{ID: "tail-1", UserID: "tailuser-1", WorkshopID: "ws-1"}
	item := &models.OrderItem{ID: "item-1", Status: models.ItemInProgress}

	workshopRepo.On("GetTailorByUser", "tailuser-1").Return(tailor, nil).Once()
	orderRepo.On("UpdateItemStatus", "item-1", "tail-1", models.ItemInProgress).Return(item, nil).Once()

	got, err := service.UpdateItemStatus("tailuser-1", "item-1", models.ItemInProgress)
	assert.NoError(t, err)
	assert.Equal(t, models.ItemInProgress, got.Status)
	orderRepo.AssertExpectations(t)

	// Unknown statuses never reach the repository.
	_, err = service.UpdateItemStatus("tailuser-1", "item-1", "SHIPPED")
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}
