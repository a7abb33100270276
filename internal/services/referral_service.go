package services

import (
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/repositories"
)

// ReferralService manages the workshop-scoped, role-scoped tokens that
// gate new-account registration.
type ReferralService struct {
	referralRepo repositories.ReferralRepository
	workshopRepo repositories.WorkshopRepository
}

// NewReferralService creates a new ReferralService.
func NewReferralService(referralRepo repositories.ReferralRepository, workshopRepo repositories.WorkshopRepository) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		workshopRepo: workshopRepo,
	}
}

// NewReferralLink builds an unsaved link for the workshop with a fresh
// high-entropy token. Used by CreateLink and by workshop-owner
// registration, which saves the default link inside its own transaction.
func NewReferralLink(workshopID string, t models.ReferralType, expiresInDays *int) *models.ReferralLink {
	var expiresAt *time.Time
	if expiresInDays != nil {
		exp := time.Now().AddDate(0, 0, *expiresInDays)
		expiresAt = &exp
	}
	return &models.ReferralLink{
		WorkshopID:   workshopID,
		Token:        newOpaqueToken(),
		ReferralType: t,
		ExpiresAt:    expiresAt,
		IsActive:     true,
	}
}

// CreateLink creates a referral link for the workshop owned by
// ownerUserID.
func (s *ReferralService) CreateLink(ownerUserID string, t models.ReferralType, expiresInDays *int) (*models.ReferralLink, error) {
	if _, ok := models.RoleForReferral(t); !ok {
		return nil, apperrors.Validation("unknown referral type %q", t)
	}
	workshop, err := s.workshopRepo.GetWorkshopByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	link := NewReferralLink(workshop.ID, t, expiresInDays)
	if err := s.referralRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

// CreateBulk creates count independent links sharing type and expiry.
// Inserts are sequential and deliberately not wrapped in one
// transaction: a failure partway returns the links created so far along
// with the error.
func (s *ReferralService) CreateBulk(ownerUserID string, t models.ReferralType, expiresInDays *int, count int) ([]models.ReferralLink, error) {
	if count < 1 || count > 100 {
		return nil, apperrors.Validation("count must be between 1 and 100")
	}
	if _, ok := models.RoleForReferral(t); !ok {
		return nil, apperrors.Validation("unknown referral type %q", t)
	}
	workshop, err := s.workshopRepo.GetWorkshopByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}

	created := make([]models.ReferralLink, 0, count)
	for i := 0; i < count; i++ {
		link := NewReferralLink(workshop.ID, t, expiresInDays)
		if err := s.referralRepo.Create(link); err != nil {
			return created, err
		}
		created = append(created, *link)
	}
	return created, nil
}

// ValidateLink resolves a token and checks that the link is active, not
// expired and, when expectedRole is set, matches the role being
// registered.
func (s *ReferralService) ValidateLink(token string, expectedRole models.Role) (*models.ReferralLink, error) {
	link, err := s.referralRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if !link.Usable(time.Now()) {
		return nil, apperrors.InvalidReferral("referral link is inactive or expired")
	}
	if expectedRole != "" {
		wantType, ok := models.ReferralTypeForRole(expectedRole)
		if !ok || link.ReferralType != wantType {
			return nil, apperrors.InvalidReferral("referral link does not grant role %s", expectedRole)
		}
	}
	return link, nil
}

// Deactivate flips a link inactive. Idempotent; only the owner of the
// link's workshop may manage it.
func (s *ReferralService) Deactivate(linkID, ownerUserID string) (*models.ReferralLink, error) {
	link, err := s.ownedLink(linkID, ownerUserID)
	if err != nil {
		return nil, err
	}
	if link.IsActive {
		link.IsActive = false
		if err := s.referralRepo.Update(link); err != nil {
			return nil, err
		}
	}
	return link, nil
}

// Reactivate flips a link active again, optionally resetting its expiry.
func (s *ReferralService) Reactivate(linkID, ownerUserID string, expiresInDays *int) (*models.ReferralLink, error) {
	link, err := s.ownedLink(linkID, ownerUserID)
	if err != nil {
		return nil, err
	}
	link.IsActive = true
	if expiresInDays != nil {
		exp := time.Now().AddDate(0, 0, *expiresInDays)
		link.ExpiresAt = &exp
	}
	if err := s.referralRepo.Update(link); err != nil {
		return nil, err
	}
	return link, nil
}

// ListForOwner returns every link of the caller's workshop.
func (s *ReferralService) ListForOwner(ownerUserID string) ([]models.ReferralLink, error) {
	workshop, err := s.workshopRepo.GetWorkshopByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	return s.referralRepo.ListByWorkshop(workshop.ID)
}

func (s *ReferralService) ownedLink(linkID, ownerUserID string) (*models.ReferralLink, error) {
	link, err := s.referralRepo.GetByID(linkID)
	if err != nil {
		return nil, err
	}
	workshop, err := s.workshopRepo.GetWorkshopByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}
	if link.WorkshopID != workshop.ID {
		return nil, apperrors.Forbidden("referral link belongs to another workshop")
	}
	return link, nil
}
