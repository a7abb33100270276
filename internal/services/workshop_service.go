package services

import (
	"atelier/internal/models"
	"atelier/internal/repositories"
)

// WorkshopService exposes workshop and subscription plan management for
// workshop owners.
type WorkshopService struct {
	workshopRepo repositories.WorkshopRepository
}

// NewWorkshopService creates a new WorkshopService.
func NewWorkshopService(workshopRepo repositories.WorkshopRepository) *WorkshopService {
	return &WorkshopService{workshopRepo: workshopRepo}
}

// Plans lists all subscription plans, cheapest first.
func (s *WorkshopService) Plans() ([]models.SubscriptionPlan, error) {
	return s.workshopRepo.ListPlans()
}

// GetForOwner returns the caller's workshop.
func (s *WorkshopService) GetForOwner(ownerUserID string) (*models.Workshop, error) {
	return s.workshopRepo.GetWorkshopByOwner(ownerUserID)
}

// SetPlan subscribes the caller's workshop to a plan.
func (s *WorkshopService) SetPlan(ownerUserID, planID string) (*models.Workshop, error) {
	workshop, err := s.workshopRepo.GetWorkshopByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.workshopRepo.GetPlanByID(planID); err != nil {
		return nil, err
	}
	if err := s.workshopRepo.SetWorkshopPlan(workshop.ID, planID); err != nil {
		return nil, err
	}
	return s.workshopRepo.GetWorkshopByID(workshop.ID)
}
