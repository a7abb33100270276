package repositories

import (
	"errors"

	"atelier/internal/apperrors"
	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMWorkshopRepository is a GORM implementation of WorkshopRepository.
type GORMWorkshopRepository struct {
	db *gorm.DB
}

// NewGORMWorkshopRepository creates a new instance of GORMWorkshopRepository.
func NewGORMWorkshopRepository(db *gorm.DB) *GORMWorkshopRepository {
	return &GORMWorkshopRepository{db: db}
}

func (r *GORMWorkshopRepository) CreateWorkshop(workshop *models.Workshop) error {
	if workshop.ID == "" {
		workshop.ID = uuid.New().String()
	}
	if err := r.db.Create(workshop).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("user already owns a workshop")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMWorkshopRepository) GetWorkshopByID(id string) (*models.Workshop, error) {
	var workshop models.Workshop
	if err := r.db.Preload("SubscriptionPlan").First(&workshop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("workshop with ID %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &workshop, nil
}

func (r *GORMWorkshopRepository) GetWorkshopByOwner(ownerUserID string) (*models.Workshop, error) {
	var workshop models.Workshop
	if err := r.db.Preload("SubscriptionPlan").First(&workshop, "owner_user_id = ?", ownerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no workshop owned by user %s", ownerUserID)
		}
		return nil, apperrors.Internal(err)
	}
	return &workshop, nil
}

func (r *GORMWorkshopRepository) SetWorkshopPlan(workshopID, planID string) error {
	res := r.db.Model(&models.Workshop{}).Where("id = ?", workshopID).Update("subscription_plan_id", planID)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("workshop with ID %s not found", workshopID)
	}
	return nil
}

func (r *GORMWorkshopRepository) ListPlans() ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := r.db.Order("price asc").Find(&plans).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return plans, nil
}

func (r *GORMWorkshopRepository) GetPlanByID(id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("subscription plan with ID %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &plan, nil
}

func (r *GORMWorkshopRepository) CreateMagazine(magazine *models.Magazine) error {
	if magazine.ID == "" {
		magazine.ID = uuid.New().String()
	}
	if err := r.db.Create(magazine).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("user already has a magazine profile")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMWorkshopRepository) CreateTailor(tailor *models.Tailor) error {
	if tailor.ID == "" {
		tailor.ID = uuid.New().String()
	}
	if err := r.db.Create(tailor).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("user already has a tailor profile")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMWorkshopRepository) CreateValidator(validator *models.Validator) error {
	if validator.ID == "" {
		validator.ID = uuid.New().String()
	}
	if err := r.db.Create(validator).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("user already has a validator profile")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMWorkshopRepository) GetMagazineByUser(userID string) (*models.Magazine, error) {
	var magazine models.Magazine
	if err := r.db.First(&magazine, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no magazine profile for user %s", userID)
		}
		return nil, apperrors.Internal(err)
	}
	return &magazine, nil
}

func (r *GORMWorkshopRepository) GetTailorByUser(userID string) (*models.Tailor, error) {
	var tailor models.Tailor
	if err := r.db.First(&tailor, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no tailor profile for user %s", userID)
		}
		return nil, apperrors.Internal(err)
	}
	return &tailor, nil
}

func (r *GORMWorkshopRepository) GetValidatorByUser(userID string) (*models.Validator, error) {
	var validator models.Validator
	if err := r.db.First(&validator, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no validator profile for user %s", userID)
		}
		return nil, apperrors.Internal(err)
	}
	return &validator, nil
}

func (r *GORMWorkshopRepository) GetTailorByID(id string) (*models.Tailor, error) {
	var tailor models.Tailor
	if err := r.db.First(&tailor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("tailor with ID %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &tailor, nil
}
