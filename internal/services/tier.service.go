package services

import (
	"context"

	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// TierFeature names a capability gated by membership tier.
type TierFeature string

const (
	FeatureBooking          TierFeature = "booking"
	FeaturePreferredCleaner TierFeature = "preferred_cleaner"
	FeaturePrioritySupport  TierFeature = "priority_support"
	FeatureEcoProducts      TierFeature = "eco_products"
)

var tierRank = map[MemberTier]int{
	TierFree:    0,
	TierSilver:  1,
	TierGold:    2,
	TierDiamond: 3,
}

var featureMinTier = map[TierFeature]MemberTier{
	FeatureBooking:          TierFree,
	FeaturePreferredCleaner: TierSilver,
	FeaturePrioritySupport:  TierGold,
	FeatureEcoProducts:      TierGold,
}

type TierInfo struct {
	Tier            MemberTier `json:"tier"`
	DiscountPercent float64    `json:"discountPercent"`
	MonthlyCents    int64      `json:"monthlyCents"`
}

// TierService exposes membership tier pricing and feature gating, all
// driven by the settings store.
type TierService struct {
	settings *SettingsService
	log      logger.Logger
}

func NewTierService(settings *SettingsService) *TierService {
	return &TierService{
		settings: settings,
		log:      logger.New("tierService"),
	}
}

// GetDiscountPercent returns the tier's booking discount. Free is
// always zero.
func (s *TierService) GetDiscountPercent(ctx context.Context, tier MemberTier) (float64, error) {
	log := s.log.Function("GetDiscountPercent")

	switch tier {
	case TierFree:
		return 0, nil
	case TierSilver:
		return s.settings.GetFloat(ctx, SettingTierSilverDiscount)
	case TierGold:
		return s.settings.GetFloat(ctx, SettingTierGoldDiscount)
	case TierDiamond:
		return s.settings.GetFloat(ctx, SettingTierDiamondDiscount)
	default:
		return 0, log.ErrorWithType(ErrValidation, "unknown member tier", "tier", tier)
	}
}

// GetTierInfo returns discount and monthly price for one tier.
func (s *TierService) GetTierInfo(ctx context.Context, tier MemberTier) (*TierInfo, error) {
	log := s.log.Function("GetTierInfo")

	discount, err := s.GetDiscountPercent(ctx, tier)
	if err != nil {
		return nil, err
	}

	var monthly int64
	switch tier {
	case TierFree:
		monthly = 0
	case TierSilver:
		monthly, err = s.settings.GetInt(ctx, SettingTierSilverMonthlyCents)
	case TierGold:
		monthly, err = s.settings.GetInt(ctx, SettingTierGoldMonthlyCents)
	case TierDiamond:
		monthly, err = s.settings.GetInt(ctx, SettingTierDiamondMonthlyCents)
	default:
		return nil, log.ErrorWithType(ErrValidation, "unknown member tier", "tier", tier)
	}
	if err != nil {
		return nil, err
	}

	return &TierInfo{Tier: tier, DiscountPercent: discount, MonthlyCents: monthly}, nil
}

// CanAccessFeature checks the tier hierarchy: a tier has every feature
// of the tiers below it.
func (s *TierService) CanAccessFeature(tier MemberTier, feature TierFeature) bool {
	minTier, ok := featureMinTier[feature]
	if !ok {
		return false
	}
	return tierRank[tier] >= tierRank[minTier]
}
