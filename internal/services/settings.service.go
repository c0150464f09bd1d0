package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	. "freshnest/internal/models"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

// SettingsService is the typed read surface over the settings store.
// A missing key or a value that fails to parse as its declared type is a
// configuration fault: callers get ErrConfiguration, never a default.
type SettingsService struct {
	settingRepo repositories.SettingRepository
	log         logger.Logger
}

func NewSettingsService(settingRepo repositories.SettingRepository) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		log:         logger.New("settingsService"),
	}
}

// PricingConfig is every setting the pricing engine needs, fetched and
// validated as a unit so a partially-seeded store fails fast.
type PricingConfig struct {
	BaseFeeCents           int64
	PerMinuteCents         int64
	PlatformFeePercent     float64
	StripeFeePercent       float64
	StripeFeeFixedCents    int64
	ModifierWeekendPercent float64
	ModifierRushPercent    float64
	ModifierEcoPercent     float64
	ModifierPetPercent     float64
	TierDiscountPercents   map[MemberTier]float64
}

func (s *SettingsService) getSetting(ctx context.Context, key string) (*Setting, error) {
	log := s.log.Function("getSetting")

	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, log.ErrorWithType(ErrConfiguration, "setting not found", "key", key)
	}

	return setting, nil
}

func (s *SettingsService) GetString(ctx context.Context, key string) (string, error) {
	setting, err := s.getSetting(ctx, key)
	if err != nil {
		return "", err
	}

	return setting.Value, nil
}

func (s *SettingsService) GetInt(ctx context.Context, key string) (int64, error) {
	log := s.log.Function("GetInt")

	setting, err := s.getSetting(ctx, key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseInt(setting.Value, 10, 64)
	if err != nil {
		return 0, log.ErrorWithType(ErrConfiguration, "setting is not an integer", "key", key, "value", setting.Value)
	}

	return value, nil
}

func (s *SettingsService) GetFloat(ctx context.Context, key string) (float64, error) {
	log := s.log.Function("GetFloat")

	setting, err := s.getSetting(ctx, key)
	if err != nil {
		return 0, err
	}

	value, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		return 0, log.ErrorWithType(ErrConfiguration, "setting is not a number", "key", key, "value", setting.Value)
	}

	return value, nil
}

func (s *SettingsService) GetBool(ctx context.Context, key string) (bool, error) {
	log := s.log.Function("GetBool")

	setting, err := s.getSetting(ctx, key)
	if err != nil {
		return false, err
	}

	value, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return false, log.ErrorWithType(ErrConfiguration, "setting is not a boolean", "key", key, "value", setting.Value)
	}

	return value, nil
}

func (s *SettingsService) GetJSON(ctx context.Context, key string, target any) error {
	log := s.log.Function("GetJSON")

	setting, err := s.getSetting(ctx, key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(setting.Value), target); err != nil {
		return log.ErrorWithType(ErrConfiguration, "setting is not valid json", "key", key, "error", err)
	}

	return nil
}

// GetPricingConfig loads every pricing key in one round trip. Any
// missing or malformed key fails the whole load.
func (s *SettingsService) GetPricingConfig(ctx context.Context) (*PricingConfig, error) {
	log := s.log.Function("GetPricingConfig")

	keys := []string{
		SettingBaseFeeCents,
		SettingPerMinuteCents,
		SettingPlatformFeePercent,
		SettingStripeFeePercent,
		SettingStripeFeeFixedCents,
		SettingModifierWeekendPercent,
		SettingModifierRushPercent,
		SettingModifierEcoPercent,
		SettingModifierPetPercent,
		SettingTierSilverDiscount,
		SettingTierGoldDiscount,
		SettingTierDiamondDiscount,
	}

	settings, err := s.settingRepo.GetByKeys(ctx, keys)
	if err != nil {
		return nil, err
	}

	parseInt := func(key string) (int64, error) {
		setting, ok := settings[key]
		if !ok {
			return 0, log.ErrorWithType(ErrConfiguration, "pricing setting not found", "key", key)
		}
		value, err := strconv.ParseInt(setting.Value, 10, 64)
		if err != nil {
			return 0, log.ErrorWithType(ErrConfiguration, "pricing setting is not an integer", "key", key, "value", setting.Value)
		}
		return value, nil
	}
	parseFloat := func(key string) (float64, error) {
		setting, ok := settings[key]
		if !ok {
			return 0, log.ErrorWithType(ErrConfiguration, "pricing setting not found", "key", key)
		}
		value, err := strconv.ParseFloat(setting.Value, 64)
		if err != nil {
			return 0, log.ErrorWithType(ErrConfiguration, "pricing setting is not a number", "key", key, "value", setting.Value)
		}
		return value, nil
	}

	config := PricingConfig{TierDiscountPercents: make(map[MemberTier]float64)}

	if config.BaseFeeCents, err = parseInt(SettingBaseFeeCents); err != nil {
		return nil, err
	}
	if config.PerMinuteCents, err = parseInt(SettingPerMinuteCents); err != nil {
		return nil, err
	}
	if config.PlatformFeePercent, err = parseFloat(SettingPlatformFeePercent); err != nil {
		return nil, err
	}
	if config.StripeFeePercent, err = parseFloat(SettingStripeFeePercent); err != nil {
		return nil, err
	}
	if config.StripeFeeFixedCents, err = parseInt(SettingStripeFeeFixedCents); err != nil {
		return nil, err
	}
	if config.ModifierWeekendPercent, err = parseFloat(SettingModifierWeekendPercent); err != nil {
		return nil, err
	}
	if config.ModifierRushPercent, err = parseFloat(SettingModifierRushPercent); err != nil {
		return nil, err
	}
	if config.ModifierEcoPercent, err = parseFloat(SettingModifierEcoPercent); err != nil {
		return nil, err
	}
	if config.ModifierPetPercent, err = parseFloat(SettingModifierPetPercent); err != nil {
		return nil, err
	}

	silver, err := parseFloat(SettingTierSilverDiscount)
	if err != nil {
		return nil, err
	}
	gold, err := parseFloat(SettingTierGoldDiscount)
	if err != nil {
		return nil, err
	}
	diamond, err := parseFloat(SettingTierDiamondDiscount)
	if err != nil {
		return nil, err
	}

	config.TierDiscountPercents[TierFree] = 0
	config.TierDiscountPercents[TierSilver] = silver
	config.TierDiscountPercents[TierGold] = gold
	config.TierDiscountPercents[TierDiamond] = diamond

	return &config, nil
}

// UpdateSetting validates the new value against the setting's declared
// type before writing. The repository invalidates the cache entry.
func (s *SettingsService) UpdateSetting(ctx context.Context, key, value string) (*Setting, error) {
	log := s.log.Function("UpdateSetting")

	setting, err := s.settingRepo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, log.ErrorWithType(ErrNotFound, "setting not found", "key", key)
	}

	if err := validateSettingValue(setting.ValueType, value); err != nil {
		return nil, log.ErrorWithType(ErrValidation, "value does not match setting type",
			"key", key, "valueType", setting.ValueType, "error", err)
	}

	if err := s.settingRepo.UpdateValue(ctx, key, value); err != nil {
		return nil, err
	}

	setting.Value = value
	return setting, nil
}

func (s *SettingsService) GetAllSettings(ctx context.Context) ([]*Setting, error) {
	return s.settingRepo.GetAll(ctx)
}

func (s *SettingsService) GetSettingsByCategory(ctx context.Context, category string) ([]*Setting, error) {
	return s.settingRepo.GetByCategory(ctx, category)
}

func validateSettingValue(valueType SettingValueType, value string) error {
	switch valueType {
	case SettingTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("not a number: %q", value)
		}
	case SettingTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("not a boolean: %q", value)
		}
	case SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("not valid json")
		}
	}
	return nil
}
