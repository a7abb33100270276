package repositories

import "atelier/internal/models"

// WorkshopRepository defines data access for workshops, subscription
// plans and the role-specific profile rows bound to a workshop.
type WorkshopRepository interface {
	CreateWorkshop(workshop *models.Workshop) error
	GetWorkshopByID(id string) (*models.Workshop, error)
	GetWorkshopByOwner(ownerUserID string) (*models.Workshop, error)
	SetWorkshopPlan(workshopID, planID string) error

	ListPlans() ([]models.SubscriptionPlan, error)
	GetPlanByID(id string) (*models.SubscriptionPlan, error)

	CreateMagazine(magazine *models.Magazine) error
	CreateTailor(tailor *models.Tailor) error
	CreateValidator(validator *models.Validator) error
	GetMagazineByUser(userID string) (*models.Magazine, error)
	GetTailorByUser(userID string) (*models.Tailor, error)
	GetValidatorByUser(userID string) (*models.Validator, error)
	GetTailorByID(id string) (*models.Tailor, error)
}
