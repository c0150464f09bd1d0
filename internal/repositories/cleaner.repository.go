package repositories

import (
	"context"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CleanerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Cleaner, error)
	GetByIDWithAvailability(ctx context.Context, id uuid.UUID) (*Cleaner, error)
	GetActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]*Cleaner, error)
	Create(ctx context.Context, cleaner *Cleaner) (*Cleaner, error)
	Update(ctx context.Context, cleaner *Cleaner) error
	IncrementJobsCompleted(ctx context.Context, id uuid.UUID) error
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error
	ServicesZone(ctx context.Context, cleanerID, zoneID uuid.UUID) (bool, error)
	AddZone(ctx context.Context, cleanerID, zoneID uuid.UUID) error
	AddSchedule(ctx context.Context, schedule *CleanerSchedule) error
	AddBlockedDate(ctx context.Context, blocked *CleanerBlockedDate) error
}

type cleanerRepository struct {
	db  database.DB
	log logger.Logger
}

func NewCleanerRepository(db database.DB) CleanerRepository {
	return &cleanerRepository{
		db:  db,
		log: logger.New("cleanerRepository"),
	}
}

func (r *cleanerRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *cleanerRepository) GetByID(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	log := r.log.Function("GetByID")

	var cleaner Cleaner
	if err := r.getDB(ctx).First(&cleaner, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get cleaner by ID", err, "id", id)
	}

	return &cleaner, nil
}

func (r *cleanerRepository) GetByIDWithAvailability(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	log := r.log.Function("GetByIDWithAvailability")

	var cleaner Cleaner
	if err := r.getDB(ctx).
		Preload("Schedules").
		Preload("BlockedDates").
		Preload("Zones").
		First(&cleaner, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get cleaner with availability", err, "id", id)
	}

	return &cleaner, nil
}

func (r *cleanerRepository) GetActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]*Cleaner, error) {
	log := r.log.Function("GetActiveByZone")

	var cleaners []*Cleaner
	if err := r.getDB(ctx).
		Joins("JOIN cleaner_zones ON cleaner_zones.cleaner_id = cleaners.id").
		Where("cleaner_zones.zone_id = ? AND cleaners.status = ?", zoneID, CleanerActive).
		Preload("Schedules").
		Preload("BlockedDates").
		Find(&cleaners).Error; err != nil {
		return nil, log.Err("failed to get active cleaners by zone", err, "zoneID", zoneID)
	}

	return cleaners, nil
}

func (r *cleanerRepository) Create(ctx context.Context, cleaner *Cleaner) (*Cleaner, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(cleaner).Error; err != nil {
		return nil, log.Err("failed to create cleaner", err, "email", cleaner.Email)
	}

	return cleaner, nil
}

func (r *cleanerRepository) Update(ctx context.Context, cleaner *Cleaner) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(cleaner).Error; err != nil {
		return log.Err("failed to update cleaner", err, "id", cleaner.ID)
	}

	return nil
}

func (r *cleanerRepository) IncrementJobsCompleted(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("IncrementJobsCompleted")

	result := r.getDB(ctx).Model(&Cleaner{}).
		Where("id = ?", id).
		Update("jobs_completed", gorm.Expr("jobs_completed + 1"))
	if result.Error != nil {
		return log.Err("failed to increment jobs completed", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cleanerRepository) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	log := r.log.Function("UpdateRating")

	result := r.getDB(ctx).Model(&Cleaner{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_average": average,
			"rating_count":   count,
		})
	if result.Error != nil {
		return log.Err("failed to update cleaner rating", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *cleanerRepository) ServicesZone(ctx context.Context, cleanerID, zoneID uuid.UUID) (bool, error) {
	log := r.log.Function("ServicesZone")

	var count int64
	if err := r.getDB(ctx).Model(&CleanerZone{}).
		Where("cleaner_id = ? AND zone_id = ?", cleanerID, zoneID).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check cleaner zone", err, "cleanerID", cleanerID, "zoneID", zoneID)
	}

	return count > 0, nil
}

func (r *cleanerRepository) AddZone(ctx context.Context, cleanerID, zoneID uuid.UUID) error {
	log := r.log.Function("AddZone")

	cleanerZone := CleanerZone{CleanerID: cleanerID, ZoneID: zoneID}
	if err := r.getDB(ctx).Create(&cleanerZone).Error; err != nil {
		return log.Err("failed to add cleaner zone", err, "cleanerID", cleanerID, "zoneID", zoneID)
	}

	return nil
}

func (r *cleanerRepository) AddSchedule(ctx context.Context, schedule *CleanerSchedule) error {
	log := r.log.Function("AddSchedule")

	if err := r.getDB(ctx).Create(schedule).Error; err != nil {
		return log.Err("failed to add cleaner schedule", err, "cleanerID", schedule.CleanerID)
	}

	return nil
}

func (r *cleanerRepository) AddBlockedDate(ctx context.Context, blocked *CleanerBlockedDate) error {
	log := r.log.Function("AddBlockedDate")

	if err := r.getDB(ctx).Create(blocked).Error; err != nil {
		return log.Err("failed to add blocked date", err, "cleanerID", blocked.CleanerID)
	}

	return nil
}
