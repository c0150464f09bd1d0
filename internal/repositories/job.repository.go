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

type JobRepository interface {
	Create(ctx context.Context, job *Job) (*Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*Job, error)
	Update(ctx context.Context, job *Job) error
	GetActiveByCleanerAndDate(ctx context.Context, cleanerID uuid.UUID, date time.Time, excludeJobID *uuid.UUID) ([]*Job, error)
	CountUpcomingByCleaner(ctx context.Context, cleanerID uuid.UUID) (int, error)
	GetUpcomingByMember(ctx context.Context, memberID uuid.UUID) ([]*Job, error)
	GetPastByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error)
	GetUnpaidCompleted(ctx context.Context, periodStart, periodEnd time.Time) ([]*Job, error)
	StampPayoutBatch(ctx context.Context, jobIDs []uuid.UUID, batchID uuid.UUID) (int64, error)
	GetByPayoutBatch(ctx context.Context, batchID uuid.UUID) ([]*Job, error)
	CountCompletedByMember(ctx context.Context, memberID uuid.UUID) (int, error)
}

type jobRepository struct {
	db  database.DB
	log logger.Logger
}

func NewJobRepository(db database.DB) JobRepository {
	return &jobRepository{
		db:  db,
		log: logger.New("jobRepository"),
	}
}

func (r *jobRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *jobRepository) Create(ctx context.Context, job *Job) (*Job, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(job).Error; err != nil {
		return nil, log.Err("failed to create job", err, "memberID", job.MemberID)
	}

	return job, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	log := r.log.Function("GetByID")

	var job Job
	if err := r.getDB(ctx).First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get job by ID", err, "id", id)
	}

	return &job, nil
}

func (r *jobRepository) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*Job, error) {
	log := r.log.Function("GetByIDWithDetails")

	var job Job
	if err := r.getDB(ctx).
		Preload("Rating").
		First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get job with details", err, "id", id)
	}

	return &job, nil
}

func (r *jobRepository) Update(ctx context.Context, job *Job) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(job).Error; err != nil {
		return log.Err("failed to update job", err, "id", job.ID)
	}

	return nil
}

// GetActiveByCleanerAndDate returns SCHEDULED and IN_PROGRESS jobs assigned to
// the cleaner on the given date. excludeJobID carves out the job being
// rescheduled so it never conflicts with itself.
func (r *jobRepository) GetActiveByCleanerAndDate(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
	excludeJobID *uuid.UUID,
) ([]*Job, error) {
	log := r.log.Function("GetActiveByCleanerAndDate")

	query := r.getDB(ctx).
		Where("cleaner_id = ? AND scheduled_date = ? AND status IN ?",
			cleanerID, date.Format("2006-01-02"), []JobStatus{JobScheduled, JobInProgress})
	if excludeJobID != nil {
		query = query.Where("id != ?", *excludeJobID)
	}

	var jobs []*Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get active jobs for cleaner", err, "cleanerID", cleanerID)
	}

	return jobs, nil
}

func (r *jobRepository) CountUpcomingByCleaner(ctx context.Context, cleanerID uuid.UUID) (int, error) {
	log := r.log.Function("CountUpcomingByCleaner")

	var count int64
	if err := r.getDB(ctx).Model(&Job{}).
		Where("cleaner_id = ? AND status = ?", cleanerID, JobScheduled).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count upcoming jobs", err, "cleanerID", cleanerID)
	}

	return int(count), nil
}

func (r *jobRepository) GetUpcomingByMember(ctx context.Context, memberID uuid.UUID) ([]*Job, error) {
	log := r.log.Function("GetUpcomingByMember")

	var jobs []*Job
	if err := r.getDB(ctx).
		Where("member_id = ? AND status IN ?",
			memberID, []JobStatus{JobScheduled, JobInProgress}).
		Order("scheduled_date asc, scheduled_time asc").
		Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get upcoming jobs", err, "memberID", memberID)
	}

	return jobs, nil
}

func (r *jobRepository) GetPastByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error) {
	log := r.log.Function("GetPastByMember")

	query := r.getDB(ctx).
		Preload("Rating").
		Where("member_id = ? AND status IN ?",
			memberID, []JobStatus{JobCompleted, JobCancelled}).
		Order("scheduled_date desc, scheduled_time desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var jobs []*Job
	if err := query.Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get past jobs", err, "memberID", memberID)
	}

	return jobs, nil
}

// GetUnpaidCompleted returns completed jobs finished inside the period that
// have not been claimed by any payout batch.
func (r *jobRepository) GetUnpaidCompleted(ctx context.Context, periodStart, periodEnd time.Time) ([]*Job, error) {
	log := r.log.Function("GetUnpaidCompleted")

	var jobs []*Job
	if err := r.getDB(ctx).
		Where("status = ? AND payout_batch_id IS NULL AND completed_at >= ? AND completed_at < ?",
			JobCompleted, periodStart, periodEnd).
		Order("completed_at asc").
		Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get unpaid completed jobs", err)
	}

	return jobs, nil
}

// StampPayoutBatch claims jobs for a batch. The payout_batch_id IS NULL guard
// makes the claim atomic: a job already claimed by a concurrent run is not
// re-stamped, and the caller compares rows affected against len(jobIDs).
func (r *jobRepository) StampPayoutBatch(ctx context.Context, jobIDs []uuid.UUID, batchID uuid.UUID) (int64, error) {
	log := r.log.Function("StampPayoutBatch")

	if len(jobIDs) == 0 {
		return 0, nil
	}

	result := r.getDB(ctx).Model(&Job{}).
		Where("id IN ? AND payout_batch_id IS NULL", jobIDs).
		Update("payout_batch_id", batchID)
	if result.Error != nil {
		return 0, log.Err("failed to stamp payout batch", result.Error, "batchID", batchID)
	}

	return result.RowsAffected, nil
}

func (r *jobRepository) GetByPayoutBatch(ctx context.Context, batchID uuid.UUID) ([]*Job, error) {
	log := r.log.Function("GetByPayoutBatch")

	var jobs []*Job
	if err := r.getDB(ctx).
		Where("payout_batch_id = ?", batchID).
		Order("cleaner_id asc, completed_at asc").
		Find(&jobs).Error; err != nil {
		return nil, log.Err("failed to get jobs by payout batch", err, "batchID", batchID)
	}

	return jobs, nil
}

func (r *jobRepository) CountCompletedByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	log := r.log.Function("CountCompletedByMember")

	var count int64
	if err := r.getDB(ctx).Model(&Job{}).
		Where("member_id = ? AND status = ?", memberID, JobCompleted).
		Count(&count).Error; err != nil {
		return 0, log.Err("failed to count completed jobs", err, "memberID", memberID)
	}

	return int(count), nil
}
