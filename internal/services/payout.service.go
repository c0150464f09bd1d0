package services

import (
	"context"
	"sort"
	"time"

	. "freshnest/internal/models"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CleanerPayout struct {
	CleanerID  uuid.UUID   `json:"cleanerId"`
	JobIDs     []uuid.UUID `json:"jobIds"`
	JobCount   int         `json:"jobCount"`
	GrossCents int64       `json:"grossCents"`
	FeesCents  int64       `json:"feesCents"`
	NetCents   int64       `json:"netCents"`
}

type PayoutCalculation struct {
	PeriodStart     time.Time       `json:"periodStart"`
	PeriodEnd       time.Time       `json:"periodEnd"`
	Payouts         []CleanerPayout `json:"payouts"`
	TotalJobs       int             `json:"totalJobs"`
	TotalGrossCents int64           `json:"totalGrossCents"`
	TotalFeesCents  int64           `json:"totalFeesCents"`
	TotalNetCents   int64           `json:"totalNetCents"`
}

type PayoutBatchDetail struct {
	Batch   *PayoutBatch    `json:"batch"`
	Payouts []CleanerPayout `json:"payouts"`
}

// PayoutService groups completed, unpaid jobs into per-cleaner payouts
// and settles them into batches. The processor fee is charged once per
// cleaner per batch regardless of job count.
type PayoutService struct {
	jobRepo     repositories.JobRepository
	batchRepo   repositories.PayoutBatchRepository
	settings    *SettingsService
	transaction *TransactionService
	log         logger.Logger
}

func NewPayoutService(
	jobRepo repositories.JobRepository,
	batchRepo repositories.PayoutBatchRepository,
	settings *SettingsService,
	transaction *TransactionService,
) *PayoutService {
	return &PayoutService{
		jobRepo:     jobRepo,
		batchRepo:   batchRepo,
		settings:    settings,
		transaction: transaction,
		log:         logger.New("payoutService"),
	}
}

// CalculatePayouts builds the per-cleaner grouping for the period
// without writing anything. Jobs without an assigned cleaner are
// skipped. Results are sorted by descending gross.
func (s *PayoutService) CalculatePayouts(
	ctx context.Context,
	periodStart, periodEnd time.Time,
) (*PayoutCalculation, error) {
	log := s.log.Function("CalculatePayouts")

	if !periodEnd.After(periodStart) {
		return nil, log.ErrorWithType(ErrValidation, "period end must be after period start",
			"periodStart", periodStart, "periodEnd", periodEnd)
	}

	config, err := s.settings.GetPricingConfig(ctx)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.GetUnpaidCompleted(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	calculation := &PayoutCalculation{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Payouts:     groupJobsByCleaner(jobs, config, log),
	}
	for _, payout := range calculation.Payouts {
		calculation.TotalJobs += payout.JobCount
		calculation.TotalGrossCents += payout.GrossCents
		calculation.TotalFeesCents += payout.FeesCents
		calculation.TotalNetCents += payout.NetCents
	}

	return calculation, nil
}

// CreatePayoutBatch settles one period: creates the batch row and
// stamps the exact job set in a single transaction. If any job was
// claimed concurrently the stamped row count won't match and the whole
// batch rolls back.
func (s *PayoutService) CreatePayoutBatch(
	ctx context.Context,
	periodStart, periodEnd time.Time,
	notes string,
) (*PayoutBatch, error) {
	log := s.log.Function("CreatePayoutBatch")

	calculation, err := s.CalculatePayouts(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if calculation.TotalJobs == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no eligible jobs in period",
			"periodStart", periodStart, "periodEnd", periodEnd)
	}

	jobIDs := make([]uuid.UUID, 0, calculation.TotalJobs)
	for _, payout := range calculation.Payouts {
		jobIDs = append(jobIDs, payout.JobIDs...)
	}

	batch := &PayoutBatch{
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		Status:          PayoutBatchPending,
		TotalCleaners:   len(calculation.Payouts),
		TotalJobs:       calculation.TotalJobs,
		TotalGrossCents: calculation.TotalGrossCents,
		TotalFeesCents:  calculation.TotalFeesCents,
		TotalNetCents:   calculation.TotalNetCents,
		Notes:           notes,
	}

	err = s.transaction.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if _, err := s.batchRepo.Create(txCtx, batch); err != nil {
			return err
		}

		stamped, err := s.jobRepo.StampPayoutBatch(txCtx, jobIDs, batch.ID)
		if err != nil {
			return err
		}
		if stamped != int64(len(jobIDs)) {
			return log.ErrorWithType(ErrConflict, "jobs claimed by concurrent payout batch",
				"expected", len(jobIDs), "stamped", stamped)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("payout batch created", "batchID", batch.ID,
		"jobs", batch.TotalJobs, "cleaners", batch.TotalCleaners, "netCents", batch.TotalNetCents)
	return batch, nil
}

// MarkBatchProcessed transitions a pending batch to processed.
func (s *PayoutService) MarkBatchProcessed(ctx context.Context, batchID uuid.UUID) (*PayoutBatch, error) {
	log := s.log.Function("MarkBatchProcessed")

	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, log.ErrorWithType(ErrNotFound, "payout batch not found", "batchID", batchID)
	}
	if batch.Status != PayoutBatchPending {
		return nil, log.ErrorWithType(ErrConflict, "payout batch is not pending",
			"batchID", batchID, "status", batch.Status)
	}

	if err := s.batchRepo.MarkProcessed(ctx, batchID); err != nil {
		return nil, err
	}

	return s.batchRepo.GetByID(ctx, batchID)
}

// GetPayoutBatch returns a batch with its jobs re-grouped per cleaner.
func (s *PayoutService) GetPayoutBatch(ctx context.Context, batchID uuid.UUID) (*PayoutBatchDetail, error) {
	log := s.log.Function("GetPayoutBatch")

	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, log.ErrorWithType(ErrNotFound, "payout batch not found", "batchID", batchID)
	}

	config, err := s.settings.GetPricingConfig(ctx)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.GetByPayoutBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	return &PayoutBatchDetail{
		Batch:   batch,
		Payouts: groupJobsByCleaner(jobs, config, log),
	}, nil
}

func (s *PayoutService) GetAllBatches(ctx context.Context, limit int) ([]*PayoutBatch, error) {
	return s.batchRepo.GetAll(ctx, limit)
}

// GetCleanerPendingPayout sums the cleaner's completed, not yet batched
// earnings over the most recent complete period.
func (s *PayoutService) GetCleanerPendingPayout(
	ctx context.Context,
	cleanerID uuid.UUID,
) (*CleanerPayout, error) {
	periodStart, periodEnd := NextPayoutPeriod(time.Now().UTC())

	calculation, err := s.CalculatePayouts(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	for i := range calculation.Payouts {
		if calculation.Payouts[i].CleanerID == cleanerID {
			return &calculation.Payouts[i], nil
		}
	}

	return &CleanerPayout{CleanerID: cleanerID}, nil
}

func groupJobsByCleaner(jobs []*Job, config *PricingConfig, log logger.Logger) []CleanerPayout {
	grouped := make(map[uuid.UUID]*CleanerPayout)
	order := make([]uuid.UUID, 0)
	for _, job := range jobs {
		if job.CleanerID == nil {
			log.Warn("completed job without cleaner skipped from payout", "jobID", job.ID)
			continue
		}

		payout, exists := grouped[*job.CleanerID]
		if !exists {
			payout = &CleanerPayout{CleanerID: *job.CleanerID}
			grouped[*job.CleanerID] = payout
			order = append(order, *job.CleanerID)
		}
		payout.JobIDs = append(payout.JobIDs, job.ID)
		payout.JobCount++
		payout.GrossCents += job.CleanerPayoutCents
	}

	payouts := make([]CleanerPayout, 0, len(order))
	for _, cleanerID := range order {
		payout := grouped[cleanerID]
		payout.FeesCents = processorFee(payout.GrossCents, config)
		payout.NetCents = payout.GrossCents - payout.FeesCents
		payouts = append(payouts, *payout)
	}

	sort.SliceStable(payouts, func(i, j int) bool {
		return payouts[i].GrossCents > payouts[j].GrossCents
	})

	return payouts
}

// processorFee is the flat per-cleaner transfer fee:
// round(gross x percent) + fixed.
func processorFee(grossCents int64, config *PricingConfig) int64 {
	return roundCents(float64(grossCents)*(config.StripeFeePercent/100)) + config.StripeFeeFixedCents
}

// NextPayoutPeriod returns the most recent complete Friday-to-Thursday
// window: [Friday 00:00, next Friday 00:00) ending on or before today.
// Pure calendar math in UTC.
func NextPayoutPeriod(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	daysSinceFriday := (int(today.Weekday()) - int(time.Friday) + 7) % 7
	var periodStart time.Time
	if daysSinceFriday == 0 {
		periodStart = today.AddDate(0, 0, -7)
	} else {
		periodStart = today.AddDate(0, 0, -daysSinceFriday-7)
	}

	return periodStart, periodStart.AddDate(0, 0, 7)
}

// NextPayoutDate returns the upcoming Friday (today when today is
// Friday).
func NextPayoutDate(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	daysUntilFriday := (int(time.Friday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, daysUntilFriday)
}
