package models

type SettingValueType string

const (
	SettingTypeString  SettingValueType = "string"
	SettingTypeNumber  SettingValueType = "number"
	SettingTypeBoolean SettingValueType = "boolean"
	SettingTypeJSON    SettingValueType = "json"
)

// Setting is a typed key/value row driving all pricing and effort
// constants. Values are stored as strings and parsed according to
// ValueType at read time.
type Setting struct {
	BaseUUIDModel
	Key         string           `gorm:"type:text;uniqueIndex;not null" json:"key"`
	Value       string           `gorm:"type:text;not null"             json:"value"`
	ValueType   SettingValueType `gorm:"type:text;default:'string'"     json:"valueType"`
	Category    string           `gorm:"type:text;index"                json:"category"`
	Description string           `gorm:"type:text"                      json:"description"`
}

// Setting keys referenced by the pricing and payout engines. Seeded by
// cmd/migration; a missing key is a configuration fault, never defaulted.
const (
	SettingBaseFeeCents            = "base_fee_cents"
	SettingPerMinuteCents          = "per_minute_cents"
	SettingPlatformFeePercent      = "platform_fee_percent"
	SettingStripeFeePercent        = "stripe_fee_percent"
	SettingStripeFeeFixedCents     = "stripe_fee_fixed_cents"
	SettingModifierWeekendPercent  = "modifier_weekend_percent"
	SettingModifierRushPercent     = "modifier_rush_percent"
	SettingModifierEcoPercent      = "modifier_eco_percent"
	SettingModifierPetPercent      = "modifier_pet_friendly_percent"
	SettingMinJobValueCents        = "min_job_value_cents"
	SettingTierSilverDiscount      = "tier_silver_discount_percent"
	SettingTierGoldDiscount        = "tier_gold_discount_percent"
	SettingTierDiamondDiscount     = "tier_diamond_discount_percent"
	SettingTierSilverMonthlyCents  = "tier_silver_monthly_cents"
	SettingTierGoldMonthlyCents    = "tier_gold_monthly_cents"
	SettingTierDiamondMonthlyCents = "tier_diamond_monthly_cents"
)
