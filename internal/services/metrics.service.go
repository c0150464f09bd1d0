package services

import (
	"context"
	"time"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type RevenueMetrics struct {
	TotalRevenueCents   int64 `json:"totalRevenueCents"`
	PlatformFeesCents   int64 `json:"platformFeesCents"`
	CleanerPayoutsCents int64 `json:"cleanerPayoutsCents"`
	AverageJobCents     int64 `json:"averageJobCents"`
}

type BookingMetrics struct {
	TotalBookings    int     `json:"totalBookings"`
	Completed        int     `json:"completed"`
	Cancelled        int     `json:"cancelled"`
	InProgress       int     `json:"inProgress"`
	Scheduled        int     `json:"scheduled"`
	CompletionRate   float64 `json:"completionRate"`
	CancellationRate float64 `json:"cancellationRate"`
}

type DashboardMetrics struct {
	PeriodStart time.Time      `json:"periodStart"`
	PeriodEnd   time.Time      `json:"periodEnd"`
	Revenue     RevenueMetrics `json:"revenue"`
	Bookings    BookingMetrics `json:"bookings"`
}

// MetricsService aggregates revenue and booking counts for the admin
// dashboard. Revenue only counts completed jobs; rates are over all
// bookings created in the period.
type MetricsService struct {
	db  database.DB
	log logger.Logger
}

func NewMetricsService(db database.DB) *MetricsService {
	return &MetricsService{
		db:  db,
		log: logger.New("metricsService"),
	}
}

func (s *MetricsService) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return s.db.SQLWithContext(ctx)
}

func (s *MetricsService) GetDashboardMetrics(
	ctx context.Context,
	periodStart, periodEnd time.Time,
) (*DashboardMetrics, error) {
	log := s.log.Function("GetDashboardMetrics")

	if !periodEnd.After(periodStart) {
		return nil, log.ErrorWithType(ErrValidation, "period end must be after period start",
			"periodStart", periodStart, "periodEnd", periodEnd)
	}

	metrics := &DashboardMetrics{PeriodStart: periodStart, PeriodEnd: periodEnd}

	var revenue struct {
		Total    int64
		Fees     int64
		Payouts  int64
		JobCount int64
	}
	if err := s.getDB(ctx).Model(&Job{}).
		Select("COALESCE(SUM(total_cents),0) as total, COALESCE(SUM(platform_fee_cents),0) as fees, "+
			"COALESCE(SUM(cleaner_payout_cents),0) as payouts, COUNT(*) as job_count").
		Where("status = ? AND completed_at >= ? AND completed_at < ?",
			JobCompleted, periodStart, periodEnd).
		Scan(&revenue).Error; err != nil {
		return nil, log.Err("failed to aggregate revenue metrics", err)
	}

	metrics.Revenue = RevenueMetrics{
		TotalRevenueCents:   revenue.Total,
		PlatformFeesCents:   revenue.Fees,
		CleanerPayoutsCents: revenue.Payouts,
	}
	if revenue.JobCount > 0 {
		metrics.Revenue.AverageJobCents = revenue.Total / revenue.JobCount
	}

	type statusCount struct {
		Status JobStatus
		Count  int
	}
	var counts []statusCount
	if err := s.getDB(ctx).Model(&Job{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", periodStart, periodEnd).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, log.Err("failed to aggregate booking metrics", err)
	}

	for _, row := range counts {
		metrics.Bookings.TotalBookings += row.Count
		switch row.Status {
		case JobCompleted:
			metrics.Bookings.Completed = row.Count
		case JobCancelled:
			metrics.Bookings.Cancelled = row.Count
		case JobInProgress:
			metrics.Bookings.InProgress = row.Count
		case JobScheduled:
			metrics.Bookings.Scheduled = row.Count
		}
	}

	if metrics.Bookings.TotalBookings > 0 {
		total := float64(metrics.Bookings.TotalBookings)
		metrics.Bookings.CompletionRate = float64(metrics.Bookings.Completed) / total * 100
		metrics.Bookings.CancellationRate = float64(metrics.Bookings.Cancelled) / total * 100
	}

	return metrics, nil
}
