package repositories

import (
	"errors"

	"atelier/internal/apperrors"
	"atelier/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReferralRepository is a GORM implementation of ReferralRepository.
type GORMReferralRepository struct {
	db *gorm.DB
}

// NewGORMReferralRepository creates a new instance of GORMReferralRepository.
func NewGORMReferralRepository(db *gorm.DB) *GORMReferralRepository {
	return &GORMReferralRepository{db: db}
}

func (r *GORMReferralRepository) Create(link *models.ReferralLink) error {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if err := r.db.Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("referral token collision, retry")
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (r *GORMReferralRepository) GetByToken(token string) (*models.ReferralLink, error) {
	var link models.ReferralLink
	if err := r.db.First(&link, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.InvalidReferral("referral token not recognized")
		}
		return nil, apperrors.Internal(err)
	}
	return &link, nil
}

func (r *GORMReferralRepository) GetByID(id string) (*models.ReferralLink, error) {
	var link models.ReferralLink
	if err := r.db.First(&link, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("referral link with ID %s not found", id)
		}
		return nil, apperrors.Internal(err)
	}
	return &link, nil
}

func (r *GORMReferralRepository) ListByWorkshop(workshopID string) ([]models.ReferralLink, error) {
	var links []models.ReferralLink
	if err := r.db.Where("workshop_id = ?", workshopID).Order("created_at desc").Find(&links).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return links, nil
}

func (r *GORMReferralRepository) Update(link *models.ReferralLink) error {
	res := r.db.Save(link)
	if res.Error != nil {
		return apperrors.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("referral link with ID %s not found for update", link.ID)
	}
	return nil
}
