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

type ChecklistRepository interface {
	Create(ctx context.Context, checklist *Checklist) (*Checklist, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*Checklist, error)
	DeleteByJobID(ctx context.Context, jobID uuid.UUID) error
}

type checklistRepository struct {
	db  database.DB
	log logger.Logger
}

func NewChecklistRepository(db database.DB) ChecklistRepository {
	return &checklistRepository{
		db:  db,
		log: logger.New("checklistRepository"),
	}
}

func (r *checklistRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *checklistRepository) Create(ctx context.Context, checklist *Checklist) (*Checklist, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(checklist).Error; err != nil {
		return nil, log.Err("failed to create checklist", err, "jobID", checklist.JobID)
	}

	return checklist, nil
}

func (r *checklistRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*Checklist, error) {
	log := r.log.Function("GetByJobID")

	var checklist Checklist
	if err := r.getDB(ctx).First(&checklist, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get checklist by job ID", err, "jobID", jobID)
	}

	return &checklist, nil
}

func (r *checklistRepository) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	log := r.log.Function("DeleteByJobID")

	if err := r.getDB(ctx).Delete(&Checklist{}, "job_id = ?", jobID).Error; err != nil {
		return log.Err("failed to delete checklist by job ID", err, "jobID", jobID)
	}

	return nil
}
