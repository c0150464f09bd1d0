package repositories

import (
	"context"
	"time"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const (
	SETTING_CACHE_PREFIX = "setting"
	SETTING_CACHE_EXPIRY = 10 * time.Minute
)

type SettingRepository interface {
	GetByKey(ctx context.Context, key string) (*Setting, error)
	GetByKeys(ctx context.Context, keys []string) (map[string]*Setting, error)
	GetByCategory(ctx context.Context, category string) ([]*Setting, error)
	GetAll(ctx context.Context) ([]*Setting, error)
	Create(ctx context.Context, setting *Setting) error
	UpdateValue(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewSettingRepository(db database.DB) SettingRepository {
	return &settingRepository{
		db:  db,
		log: logger.New("settingRepository"),
	}
}

func (r *settingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*Setting, error) {
	log := r.log.Function("GetByKey")

	var cached Setting
	found, err := database.NewCacheBuilder(r.db.Cache.Settings, key).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get setting from cache", "key", key, "error", err)
	}
	if found {
		return &cached, nil
	}

	var setting Setting
	if err := r.getDB(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get setting", err, "key", key)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Settings, key).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		WithStruct(&setting).
		WithTTL(SETTING_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache setting", "key", key, "error", err)
	}

	return &setting, nil
}

func (r *settingRepository) GetByKeys(ctx context.Context, keys []string) (map[string]*Setting, error) {
	log := r.log.Function("GetByKeys")

	var settings []*Setting
	if err := r.getDB(ctx).Where("key IN ?", keys).Find(&settings).Error; err != nil {
		return nil, log.Err("failed to get settings by keys", err, "keys", keys)
	}

	result := make(map[string]*Setting, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting
	}

	return result, nil
}

func (r *settingRepository) GetByCategory(ctx context.Context, category string) ([]*Setting, error) {
	log := r.log.Function("GetByCategory")

	var settings []*Setting
	if err := r.getDB(ctx).Where("category = ?", category).Order("key asc").Find(&settings).Error; err != nil {
		return nil, log.Err("failed to get settings by category", err, "category", category)
	}

	return settings, nil
}

func (r *settingRepository) GetAll(ctx context.Context) ([]*Setting, error) {
	log := r.log.Function("GetAll")

	var settings []*Setting
	if err := r.getDB(ctx).Order("category asc, key asc").Find(&settings).Error; err != nil {
		return nil, log.Err("failed to get all settings", err)
	}

	return settings, nil
}

func (r *settingRepository) Create(ctx context.Context, setting *Setting) error {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(setting).Error; err != nil {
		return log.Err("failed to create setting", err, "key", setting.Key)
	}

	return nil
}

func (r *settingRepository) UpdateValue(ctx context.Context, key, value string) error {
	log := r.log.Function("UpdateValue")

	result := r.getDB(ctx).Model(&Setting{}).Where("key = ?", key).Update("value", value)
	if result.Error != nil {
		return log.Err("failed to update setting", result.Error, "key", key)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := database.NewCacheBuilder(r.db.Cache.Settings, key).
		WithContext(ctx).
		WithHash(SETTING_CACHE_PREFIX).
		Delete(); err != nil {
		log.Warn("failed to invalidate setting cache", "key", key, "error", err)
	}

	return nil
}
