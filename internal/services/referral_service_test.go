package services_test

import (
	"errors"
	"testing"
	"time"

	"atelier/internal/apperrors"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferralService_CreateLink(t *testing.T) {
	referralRepo := new(MockReferralRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewReferralService(referralRepo, workshopRepo)

	workshop := &models.Workshop{ID: "ws-1", OwnerUserID: "owner-1"}
	workshopRepo.On("GetWorkshopByOwner", "owner-1").Return(workshop, nil).Once()
	referralRepo.On("Create", mock.AnythingOfType("*models.ReferralLink")).Return(nil).Once()

	days := 7
	link, err := service.CreateLink("owner-1", models.ReferralTailor, &days)
	assert.NoError(t, err)
	assert.Equal(t, "ws-1", link.WorkshopID)
	assert.Equal(t, models.ReferralTailor, link.ReferralType)
	assert.True(t, link.IsActive)
	assert.Len(t, link.Token, 64, "token is a 32-byte hex string")
	assert.NotNil(t, link.ExpiresAt)
	assert.True(t, link.ExpiresAt.After(time.Now().AddDate(0, 0, 6)))
	referralRepo.AssertExpectations(t)

	// Unknown referral type is rejected before any lookup.
	_, err = service.CreateLink("owner-1", "JANITOR", nil)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestReferralService_CreateBulkIsNotAtomic(t *testing.T) {
	referralRepo := new(MockReferralRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewReferralService(referralRepo, workshopRepo)

	workshop := &models.Workshop{ID: "ws-1", OwnerUserID: "owner-1"}
	workshopRepo.On("GetWorkshopByOwner", "owner-1").Return(workshop, nil).Once()

	// Two inserts succeed, the third fails; the first two survive.
	referralRepo.On("Create", mock.AnythingOfType("*models.ReferralLink")).Return(nil).Twice()
	referralRepo.On("Create", mock.AnythingOfType("*models.ReferralLink")).Return(errors.New("insert failed")).Once()

	links, err := service.CreateBulk("owner-1", models.ReferralMagazine, nil, 3)
	assert.Error(t, err)
	assert.Len(t, links, 2)
	referralRepo.AssertExpectations(t)

	_, err = service.CreateBulk("owner-1", models.ReferralMagazine, nil, 0)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestReferralService_ValidateLink(t *testing.T) {
	referralRepo := new(MockReferralRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewReferralService(referralRepo, workshopRepo)

	active := &models.ReferralLink{ID: "link-1", WorkshopID: "ws-1", Token: "tok-active", ReferralType: models.ReferralTailor, IsActive: true}
	referralRepo.On("GetByToken", "tok-active").Return(active, nil)

	link, err := service.ValidateLink("tok-active", models.RoleTailor)
	assert.NoError(t, err)
	assert.Equal(t, "link-1", link.ID)

	// Role mismatch fails even though the link is live.
	_, err = service.ValidateLink("tok-active", models.RoleValidator)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidReferral))

	// Inactive link.
	inactive := &models.ReferralLink{ID: "link-2", Token: "tok-inactive", ReferralType: models.ReferralTailor, IsActive: false}
	referralRepo.On("GetByToken", "tok-inactive").Return(inactive, nil)
	_, err = service.ValidateLink("tok-inactive", models.RoleTailor)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidReferral))

	// Expired link.
	past := time.Now().Add(-time.Hour)
	expired := &models.ReferralLink{ID: "link-3", Token: "tok-expired", ReferralType: models.ReferralTailor, IsActive: true, ExpiresAt: &past}
	referralRepo.On("GetByToken", "tok-expired").Return(expired, nil)
	_, err = service.ValidateLink("tok-expired", models.RoleTailor)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidReferral))

	// Unknown token.
	referralRepo.On("GetByToken", "tok-missing").Return(nil, apperrors.InvalidReferral("referral token not recognized"))
	_, err = service.ValidateLink("tok-missing", models.RoleTailor)
	assert.True(t, apperrors.Is(err, apperrors.KindInvalidReferral))
}

func TestReferralService_DeactivateReactivate(t *testing.T) {
	referralRepo := new(MockReferralRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewReferralService(referralRepo, workshopRepo)

	workshop := &models.Workshop{ID: "ws-1", OwnerUserID: "owner-1"}
	link := &models.ReferralLink{ID: "link-1", WorkshopID: "ws-1", IsActive: true}

	referralRepo.On("GetByID", "link-1").Return(link, nil)
	workshopRepo.On("GetWorkshopByOwner", "owner-1").Return(workshop, nil)
	referralRepo.On("Update", mock.AnythingOfType("*models.ReferralLink")).Return(nil)

	deactivated, err := service.Deactivate("link-1", "owner-1")
	assert.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	// Deactivating again is a no-op, not an error.
	again, err := service.Deactivate("link-1", "owner-1")
	assert.NoError(t, err)
	assert.False(t, again.IsActive)

	// Reactivating with a fresh expiry makes it usable again.
	days := 14
	reactivated, err := service.Reactivate("link-1", "owner-1", &days)
	assert.NoError(t, err)
	assert.True(t, reactivated.IsActive)
	assert.NotNil(t, reactivated.ExpiresAt)
	assert.True(t, reactivated.Usable(time.Now()))
}

func TestReferralService_OwnershipEnforced(t *testing.T) {
	referralRepo := new(MockReferralRepository)
	workshopRepo := new(MockWorkshopRepository)
	service := services.NewReferralService(referralRepo, workshopRepo)

	link := &models.ReferralLink{ID: "link-1", WorkshopID: "ws-1", IsActive: true}
	otherWorkshop := &models.Workshop{ID: "ws-2", OwnerUserID: "intruder"}

	referralRepo.On("GetByID", "link-1").Return(link, nil)
	workshopRepo.On("GetWorkshopByOwner", "intruder").Return(otherWorkshop, nil)

	_, err := service.Deactivate("link-1", "intruder")
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))
	referralRepo.AssertNotCalled(t, "Update", mock.Anything)
}
