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

type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) (*Rating, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*Rating, error)
	GetByCleanerID(ctx context.Context, cleanerID uuid.UUID, limit int) ([]*Rating, error)
	AggregateByCleaner(ctx context.Context, cleanerID uuid.UUID) (float64, int, error)
}

type ratingRepository struct {
	db  database.DB
	log logger.Logger
}

func NewRatingRepository(db database.DB) RatingRepository {
	return &ratingRepository{
		db:  db,
		log: logger.New("ratingRepository"),
	}
}

func (r *ratingRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *ratingRepository) Create(ctx context.Context, rating *Rating) (*Rating, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(rating).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, err
		}
		return nil, log.Err("failed to create rating", err, "jobID", rating.JobID)
	}

	return rating, nil
}

func (r *ratingRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*Rating, error) {
	log := r.log.Function("GetByJobID")

	var rating Rating
	if err := r.getDB(ctx).First(&rating, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get rating by job ID", err, "jobID", jobID)
	}

	return &rating, nil
}

func (r *ratingRepository) GetByCleanerID(ctx context.Context, cleanerID uuid.UUID, limit int) ([]*Rating, error) {
	log := r.log.Function("GetByCleanerID")

	query := r.getDB(ctx).
		Where("cleaner_id = ?", cleanerID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var ratings []*Rating
	if err := query.Find(&ratings).Error; err != nil {
		return nil, log.Err("failed to get ratings by cleaner ID", err, "cleanerID", cleanerID)
	}

	return ratings, nil
}

func (r *ratingRepository) AggregateByCleaner(ctx context.Context, cleanerID uuid.UUID) (float64, int, error) {
	log := r.log.Function("AggregateByCleaner")

	var result struct {
		Average float64
		Count   int
	}
	if err := r.getDB(ctx).Model(&Rating{}).
		Select("COALESCE(AVG(stars), 0) as average, COUNT(*) as count").
		Where("cleaner_id = ?", cleanerID).
		Scan(&result).Error; err != nil {
		return 0, 0, log.Err("failed to aggregate ratings", err, "cleanerID", cleanerID)
	}

	return result.Average, result.Count, nil
}
