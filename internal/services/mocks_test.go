package services_test

import (
	"atelier/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByRefreshToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// MockWorkshopRepository is a mock implementation of repositories.WorkshopRepository.
type MockWorkshopRepository struct {
	mock.Mock
}

func (m *MockWorkshopRepository) CreateWorkshop(workshop *models.Workshop) error {
	args := m.Called(workshop)
	return args.Error(0)
}

func (m *MockWorkshopRepository) GetWorkshopByID(id string) (*models.Workshop, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workshop), args.Error(1)
}

func (m *MockWorkshopRepository) GetWorkshopByOwner(ownerUserID string) (*models.Workshop, error) {
	args := m.Called(ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Workshop), args.Error(1)
}

func (m *MockWorkshopRepository) SetWorkshopPlan(workshopID, planID string) error {
	args := m.Called(workshopID, planID)
	return args.Error(0)
}

func (m *MockWorkshopRepository) ListPlans() ([]models.SubscriptionPlan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscriptionPlan), args.Error(1)
}

func (m *MockWorkshopRepository) GetPlanByID(id string) (*models.SubscriptionPlan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockWorkshopRepository) CreateMagazine(magazine *models.Magazine) error {
	args := m.Called(magazine)
	return args.Error(0)
}

func (m *MockWorkshopRepository) CreateTailor(tailor *models.Tailor) error {
	args := m.Called(tailor)
	return args.Error(0)
}

func (m *MockWorkshopRepository) CreateValidator(validator *models.Validator) error {
	args := m.Called(validator)
	return args.Error(0)
}

func (m *MockWorkshopRepository) GetMagazineByUser(userID string) (*models.Magazine, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Magazine), args.Error(1)
}

func (m *MockWorkshopRepository) GetTailorByUser(userID string) (*models.Tailor, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tailor), args.Error(1)
}

func (m *MockWorkshopRepository) GetValidatorByUser(userID string) (*models.Validator, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Validator), args.Error(1)
}

func (m *MockWorkshopRepository) GetTailorByID(id string) (*models.Tailor, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tailor), args.Error(1)
}

// MockReferralRepository is a mock implementation of repositories.ReferralRepository.
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(link *models.ReferralLink) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockReferralRepository) GetByToken(token string) (*models.ReferralLink, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralLink), args.Error(1)
}

func (m *MockReferralRepository) GetByID(id string) (*models.ReferralLink, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReferralLink), args.Error(1)
}

func (m *MockReferralRepository) ListByWorkshop(workshopID string) ([]models.ReferralLink, error) {
	args := m.Called(workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReferralLink), args.Error(1)
}

func (m *MockReferralRepository) Update(link *models.ReferralLink) error {
	args := m.Called(link)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of repositories.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *models.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	args := m.Called(itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) ListByWorkshop(workshopID string) ([]models.Order, error) {
	args := m.Called(workshopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByMagazine(magazineID string) ([]models.Order, error) {
	args := m.Called(magazineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByTailor(tailorID string) ([]models.Order, error) {
	args := m.Called(tailorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListTracking(orderID string) ([]models.OrderTracking, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OrderTracking), args.Error(1)
}

func (m *MockOrderRepository) Transition(orderID string, next models.OrderStatus, validatorID string) (*models.Order, error) {
	args := m.Called(orderID, next, validatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) AssignItem(itemID, tailorID, validatorID, reason string) (*models.OrderItem, error) {
	args := m.Called(itemID, tailorID, validatorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderRepository) UpdateItemStatus(itemID, tailorID string, next models.ItemStatus) (*models.OrderItem, error) {
	args := m.Called(itemID, tailorID, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.OrderEventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}
