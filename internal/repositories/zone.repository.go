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

type ZoneRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Zone, error)
	GetByZipCode(ctx context.Context, zipCode string) (*Zone, error)
	GetAll(ctx context.Context) ([]*Zone, error)
	Create(ctx context.Context, zone *Zone) (*Zone, error)
	Update(ctx context.Context, zone *Zone) error
}

type zoneRepository struct {
	db  database.DB
	log logger.Logger
}

func NewZoneRepository(db database.DB) ZoneRepository {
	return &zoneRepository{
		db:  db,
		log: logger.New("zoneRepository"),
	}
}

func (r *zoneRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *zoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*Zone, error) {
	log := r.log.Function("GetByID")

	var zone Zone
	if err := r.getDB(ctx).First(&zone, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get zone by ID", err, "id", id)
	}

	return &zone, nil
}

func (r *zoneRepository) GetByZipCode(ctx context.Context, zipCode string) (*Zone, error) {
	log := r.log.Function("GetByZipCode")

	var zone Zone
	if err := r.getDB(ctx).
		Where("zip_codes @> ?", `["`+zipCode+`"]`).
		First(&zone).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get zone by zip code", err, "zipCode", zipCode)
	}

	return &zone, nil
}

func (r *zoneRepository) GetAll(ctx context.Context) ([]*Zone, error) {
	log := r.log.Function("GetAll")

	var zones []*Zone
	if err := r.getDB(ctx).Order("name asc").Find(&zones).Error; err != nil {
		return nil, log.Err("failed to get all zones", err)
	}

	return zones, nil
}

func (r *zoneRepository) Create(ctx context.Context, zone *Zone) (*Zone, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(zone).Error; err != nil {
		return nil, log.Err("failed to create zone", err, "name", zone.Name)
	}

	return zone, nil
}

func (r *zoneRepository) Update(ctx context.Context, zone *Zone) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(zone).Error; err != nil {
		return log.Err("failed to update zone", err, "id", zone.ID)
	}

	return nil
}
