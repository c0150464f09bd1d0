package services

import (
	"context"
	"fmt"
	"math"

	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

type PricingInput struct {
	EffortMinutes int        `json:"effortMinutes"`
	IsWeekend     bool       `json:"isWeekend"`
	IsRush        bool       `json:"isRush"`
	IsEcoFriendly bool       `json:"isEcoFriendly"`
	IsPetFriendly bool       `json:"isPetFriendly"`
	MemberTier    MemberTier `json:"memberTier"`
}

type ModifierLine struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	AmountCents int64   `json:"amountCents"`
}

// PricingBreakdown is the full priced quote in integer cents. The
// EstimatedStripeFeeCents line is display-only; it never shifts the
// total or the cleaner payout.
type PricingBreakdown struct {
	EffortMinutes           int            `json:"effortMinutes"`
	BaseFeeCents            int64          `json:"baseFeeCents"`
	TimeCents               int64          `json:"timeCents"`
	SubtotalCents           int64          `json:"subtotalCents"`
	Modifiers               []ModifierLine `json:"modifiers"`
	ModifiersTotalCents     int64          `json:"modifiersTotalCents"`
	TierDiscountPercent     float64        `json:"tierDiscountPercent"`
	TierDiscountCents       int64          `json:"tierDiscountCents"`
	PlatformFeeCents        int64          `json:"platformFeeCents"`
	TotalCents              int64          `json:"totalCents"`
	CleanerPayoutCents      int64          `json:"cleanerPayoutCents"`
	EstimatedStripeFeeCents int64          `json:"estimatedStripeFeeCents"`
}

// PricingService computes the booking price from effort minutes and
// flags. All arithmetic is integer cents with half-away-from-zero
// rounding applied at each step, in a fixed order, so the same input
// always prices identically.
type PricingService struct {
	settings *SettingsService
	log      logger.Logger
}

func NewPricingService(settings *SettingsService) *PricingService {
	return &PricingService{
		settings: settings,
		log:      logger.New("pricingService"),
	}
}

// CalculatePrice applies the fixed pricing order:
// subtotal, modifiers (each percent against the pre-modifier subtotal),
// tier discount, platform fee, then total and cleaner payout.
func (s *PricingService) CalculatePrice(ctx context.Context, input PricingInput) (*PricingBreakdown, error) {
	log := s.log.Function("CalculatePrice")

	if input.EffortMinutes < 0 {
		return nil, log.ErrorWithType(ErrValidation, "effort minutes cannot be negative", "effortMinutes", input.EffortMinutes)
	}

	config, err := s.settings.GetPricingConfig(ctx)
	if err != nil {
		return nil, err
	}

	return s.priceWithConfig(input, config)
}

func (s *PricingService) priceWithConfig(input PricingInput, config *PricingConfig) (*PricingBreakdown, error) {
	log := s.log.Function("priceWithConfig")

	breakdown := &PricingBreakdown{
		EffortMinutes: input.EffortMinutes,
		BaseFeeCents:  config.BaseFeeCents,
		TimeCents:     int64(input.EffortMinutes) * config.PerMinuteCents,
		Modifiers:     []ModifierLine{},
	}
	breakdown.SubtotalCents = breakdown.BaseFeeCents + breakdown.TimeCents

	// Each modifier percent applies to the pre-modifier subtotal, so
	// modifier order never changes the result.
	type flaggedModifier struct {
		name    string
		active  bool
		percent float64
	}
	for _, modifier := range []flaggedModifier{
		{"weekend", input.IsWeekend, config.ModifierWeekendPercent},
		{"rush", input.IsRush, config.ModifierRushPercent},
		{"eco_friendly", input.IsEcoFriendly, config.ModifierEcoPercent},
		{"pet_friendly", input.IsPetFriendly, config.ModifierPetPercent},
	} {
		if !modifier.active {
			continue
		}
		amount := roundCents(float64(breakdown.SubtotalCents) * (modifier.percent / 100))
		breakdown.Modifiers = append(breakdown.Modifiers, ModifierLine{
			Name:        modifier.name,
			Percent:     modifier.percent,
			AmountCents: amount,
		})
		breakdown.ModifiersTotalCents += amount
	}

	withModifiers := breakdown.SubtotalCents + breakdown.ModifiersTotalCents

	tier := input.MemberTier
	if tier == "" {
		tier = TierFree
	}
	discountPercent, ok := config.TierDiscountPercents[tier]
	if !ok {
		return nil, log.ErrorWithType(ErrValidation, "unknown member tier", "tier", tier)
	}
	breakdown.TierDiscountPercent = discountPercent
	breakdown.TierDiscountCents = roundCents(float64(withModifiers) * (discountPercent / 100))

	afterDiscount := withModifiers - breakdown.TierDiscountCents

	breakdown.PlatformFeeCents = roundCents(float64(afterDiscount) * (config.PlatformFeePercent / 100))
	breakdown.TotalCents = afterDiscount + breakdown.PlatformFeeCents
	breakdown.CleanerPayoutCents = afterDiscount - breakdown.PlatformFeeCents

	breakdown.EstimatedStripeFeeCents = roundCents(
		float64(breakdown.TotalCents)*(config.StripeFeePercent/100),
	) + config.StripeFeeFixedCents

	return breakdown, nil
}

// EstimateByJobType prices the standard duration presets.
func (s *PricingService) EstimateByJobType(
	ctx context.Context,
	jobType JobType,
	input PricingInput,
) (*PricingBreakdown, error) {
	log := s.log.Function("EstimateByJobType")

	switch jobType {
	case JobTypeStandard:
		input.EffortMinutes = 120
	case JobTypeDeep:
		input.EffortMinutes = 240
	case JobTypeMoveOut:
		input.EffortMinutes = 360
	default:
		return nil, log.ErrorWithType(ErrValidation, "unknown job type", "jobType", jobType)
	}

	return s.CalculatePrice(ctx, input)
}

// MinimumJobPrice returns the configured floor for a job's total.
func (s *PricingService) MinimumJobPrice(ctx context.Context) (int64, error) {
	return s.settings.GetInt(ctx, SettingMinJobValueCents)
}

// FormatPrice renders cents as "$x.yy".
func FormatPrice(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// roundCents rounds half away from zero to a whole cent.
func roundCents(value float64) int64 {
	return int64(math.Round(value))
}
