package repositories

import "atelier/internal/models"

// ReferralRepository defines data access for referral links.
type ReferralRepository interface {
	Create(link *models.ReferralLink) error
	GetByToken(token string) (*models.ReferralLink, error)
	GetByID(id string) (*models.ReferralLink, error)
	ListByWorkshop(workshopID string) ([]models.ReferralLink, error)
	Update(link *models.ReferralLink) error
}
