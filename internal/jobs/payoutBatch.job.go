package jobs

import (
	"context"
	"errors"
	"time"

	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// PayoutBatchJob closes out the most recent complete payout week every
// Friday morning. A week with no eligible jobs is normal and is logged,
// not failed.
type PayoutBatchJob struct {
	payoutService *services.PayoutService
	log           logger.Logger
	schedule      services.Schedule
}

func NewPayoutBatchJob(
	payoutService *services.PayoutService,
	schedule services.Schedule,
) *PayoutBatchJob {
	log := logger.New("payoutBatchJob")
	log.Info("Creating new payout batch job", "schedule", schedule)

	return &PayoutBatchJob{
		payoutService: payoutService,
		log:           log,
		schedule:      schedule,
	}
}

func (j *PayoutBatchJob) Name() string {
	return "WeeklyPayoutBatch"
}

func (j *PayoutBatchJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	periodStart, periodEnd := services.NextPayoutPeriod(time.Now().UTC())
	log.Info("Starting scheduled payout batch",
		"periodStart", periodStart.Format("2006-01-02"),
		"periodEnd", periodEnd.Format("2006-01-02"),
	)

	batch, err := j.payoutService.CreatePayoutBatch(ctx, periodStart, periodEnd, "weekly scheduled batch")
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			log.Info("No eligible jobs for payout period, skipping",
				"periodStart", periodStart.Format("2006-01-02"))
			return nil
		}
		return log.Err("scheduled payout batch failed", err)
	}

	log.Info("Scheduled payout batch created",
		"batchID", batch.ID,
		"totalNetCents", batch.TotalNetCents,
		"totalJobs", batch.TotalJobs,
	)
	return nil
}

func (j *PayoutBatchJob) Schedule() services.Schedule {
	return j.schedule
}
