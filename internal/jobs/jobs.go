package jobs

import (
	"freshnest/config"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// Import schedule constants
const (
	WeeklyFriday = services.WeeklyFriday
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	if !config.PayoutJobEnabled {
		log.Info("Payout batch job disabled by config, skipping")
		return nil
	}

	payoutBatchJob := NewPayoutBatchJob(
		services.Payout,
		WeeklyFriday,
	)
	if err := schedulerService.AddJob(payoutBatchJob); err != nil {
		return log.Err("failed to register payout batch job", err)
	}
	log.Info("Registered payout batch job", "schedule", "weekly friday")

	return nil
}
