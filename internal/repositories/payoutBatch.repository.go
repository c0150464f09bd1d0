package repositories

import (
	"context"
	"time"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PayoutBatchRepository interface {
	Create(ctx context.Context, batch *PayoutBatch) (*PayoutBatch, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PayoutBatch, error)
	GetByPeriod(ctx context.Context, periodStart time.Time) (*PayoutBatch, error)
	GetAll(ctx context.Context, limit int) ([]*PayoutBatch, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
}

type payoutBatchRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPayoutBatchRepository(db database.DB) PayoutBatchRepository {
	return &payoutBatchRepository{
		db:  db,
		log: logger.New("payoutBatchRepository"),
	}
}

func (r *payoutBatchRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *payoutBatchRepository) Create(ctx context.Context, batch *PayoutBatch) (*PayoutBatch, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(batch).Error; err != nil {
		return nil, log.Err("failed to create payout batch", err, "periodStart", batch.PeriodStart)
	}

	return batch, nil
}

func (r *payoutBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*PayoutBatch, error) {
	log := r.log.Function("GetByID")

	var batch PayoutBatch
	if err := r.getDB(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get payout batch by ID", err, "id", id)
	}

	return &batch, nil
}

func (r *payoutBatchRepository) GetByPeriod(ctx context.Context, periodStart time.Time) (*PayoutBatch, error) {
	log := r.log.Function("GetByPeriod")

	var batch PayoutBatch
	if err := r.getDB(ctx).
		First(&batch, "period_start = ?", periodStart.Format("2006-01-02")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get payout batch by period", err, "periodStart", periodStart)
	}

	return &batch, nil
}

func (r *payoutBatchRepository) GetAll(ctx context.Context, limit int) ([]*PayoutBatch, error) {
	log := r.log.Function("GetAll")

	query := r.getDB(ctx).Order("period_start desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var batches []*PayoutBatch
	if err := query.Find(&batches).Error; err != nil {
		return nil, log.Err("failed to get payout batches", err)
	}

	return batches, nil
}

func (r *payoutBatchRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("MarkProcessed")

	now := time.Now()
	result := r.getDB(ctx).Model(&PayoutBatch{}).
		Where("id = ? AND status = ?", id, PayoutBatchPending).
		Updates(map[string]any{
			"status":       PayoutBatchProcessed,
			"processed_at": &now,
		})
	if result.Error != nil {
		return log.Err("failed to mark payout batch processed", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
