package models_test

import (
	"testing"
	"time"

	"atelier/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	// Forward path is strictly adjacent.
	assert.True(t, models.OrderPending.CanTransitionTo(models.OrderValidated))
	assert.True(t, models.OrderPending.CanTransitionTo(models.OrderRejected))
	assert.True(t, models.OrderValidated.CanTransitionTo(models.OrderTailoring))
	assert.True(t, models.OrderTailoring.CanTransitionTo(models.OrderPackaging))
	assert.True(t, models.OrderPackaging.CanTransitionTo(models.OrderCompleted))

	// Skipping states is not allowed.
	assert.False(t, models.OrderPending.CanTransitionTo(models.OrderCompleted))
	assert.False(t, models.OrderPending.CanTransitionTo(models.OrderTailoring))
	assert.False(t, models.OrderValidated.CanTransitionTo(models.OrderPackaging))

	// No going backwards.
	assert.False(t, models.OrderValidated.CanTransitionTo(models.OrderPending))
	assert.False(t, models.OrderTailoring.CanTransitionTo(models.OrderValidated))

	// Terminal states admit nothing.
	assert.True(t, models.OrderRejected.Terminal())
	assert.True(t, models.OrderCompleted.Terminal())
	assert.False(t, models.OrderRejected.CanTransitionTo(models.OrderValidated))
	assert.False(t, models.OrderCompleted.CanTransitionTo(models.OrderPackaging))
}

func TestItemStatusTransitions(t *testing.T) {
	assert.True(t, models.ItemPending.CanTransitionTo(models.ItemInProgress))
	assert.True(t, models.ItemInProgress.CanTransitionTo(models.ItemCompleted))

	assert.False(t, models.ItemPending.CanTransitionTo(models.ItemCompleted))
	assert.False(t, models.ItemCompleted.CanTransitionTo(models.ItemInProgress))
	assert.False(t, models.ItemInProgress.CanTransitionTo(models.ItemPending))
}

func TestReferralLinkUsable(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	active := models.ReferralLink{IsActive: true}
	assert.True(t, active.Usable(now), "active link without expiry is usable")

	inactive := models.ReferralLink{IsActive: false}
	assert.False(t, inactive.Usable(now))

	unexpired := models.ReferralLink{IsActive: true, ExpiresAt: &future}
	assert.True(t, unexpired.Usable(now))

	expired := models.ReferralLink{IsActive: true, ExpiresAt: &past}
	assert.False(t, expired.Usable(now))
}

func TestRoleReferralMapping(t *testing.T) {
	role, ok := models.RoleForReferral(models.ReferralTailor)
	assert.True(t, ok)
	assert.Equal(t, models.RoleTailor, role)

	typ, ok := models.ReferralTypeForRole(models.RoleMagazineOwner)
	assert.True(t, ok)
	assert.Equal(t, models.ReferralMagazine, typ)

	// Workshop owners are never provisioned via referral.
	_, ok = models.ReferralTypeForRole(models.RoleWorkshopOwner)
	assert.False(t, ok)
}
