package services

import (
	"context"
	"testing"

	. "freshnest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTierService() *TierService {
	settings, _ := newTestSettingsService()
	return NewTierService(settings)
}

func TestGetDiscountPercent(t *testing.T) {
	ctx := context.Background()
	service := newTestTierService()

	tests := []struct {
		tier MemberTier
		want float64
	}{
		{TierFree, 0},
		{TierSilver, 5},
		{TierGold, 15},
		{TierDiamond, 25},
	}

	for _, tt := range tests {
		got, err := service.GetDiscountPercent(ctx, tt.tier)
		require.NoError(t, err, tt.tier)
		assert.Equal(t, tt.want, got, tt.tier)
	}

	_, err := service.GetDiscountPercent(ctx, MemberTier("platinum"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetTierInfo(t *testing.T) {
	ctx := context.Background()
	service := newTestTierService()

	tests := []struct {
		tier        MemberTier
		wantPercent float64
		wantMonthly int64
	}{
		{TierFree, 0, 0},
		{TierSilver, 5, 1900},
		{TierGold, 15, 4900},
		{TierDiamond, 25, 9900},
	}

	for _, tt := range tests {
		info, err := service.GetTierInfo(ctx, tt.tier)
		require.NoError(t, err, tt.tier)
		assert.Equal(t, tt.tier, info.Tier)
		assert.Equal(t, tt.wantPercent, info.DiscountPercent)
		assert.Equal(t, tt.wantMonthly, info.MonthlyCents)
	}

	_, err := service.GetTierInfo(ctx, MemberTier("platinum"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCanAccessFeature_Hierarchy(t *testing.T) {
	service := newTestTierService()

	// Every tier can book.
	for _, tier := range []MemberTier{TierFree, TierSilver, TierGold, TierDiamond} {
		assert.True(t, service.CanAccessFeature(tier, FeatureBooking), tier)
	}

	// Preferred cleaner opens at silver.
	assert.False(t, service.CanAccessFeature(TierFree, FeaturePreferredCleaner))
	assert.True(t, service.CanAccessFeature(TierSilver, FeaturePreferredCleaner))

	// Gold features are inherited by diamond.
	assert.False(t, service.CanAccessFeature(TierSilver, FeaturePrioritySupport))
	assert.True(t, service.CanAccessFeature(TierGold, FeatureEcoProducts))
	assert.True(t, service.CanAccessFeature(TierDiamond, FeaturePrioritySupport))

	assert.False(t, service.CanAccessFeature(TierDiamond, TierFeature("unknown")))
}
