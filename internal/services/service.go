package services

import (
	"freshnest/config"
	"freshnest/internal/database"
	"freshnest/internal/events"
	"freshnest/internal/repositories"
)

type Service struct {
	Transaction      *TransactionService
	Scheduler        *SchedulerService
	Settings         *SettingsService
	EffortCalculator *EffortCalculatorService
	Pricing          *PricingService
	Availability     *AvailabilityService
	Matching         *MatchingService
	Checklist        *ChecklistService
	Payout           *PayoutService
	Tier             *TierService
	Metrics          *MetricsService
	Statement        *StatementService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	repos := repositories.New(db)

	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	settingsService := NewSettingsService(repos.Setting)
	effortCalculatorService := NewEffortCalculatorService(repos.Task)
	pricingService := NewPricingService(settingsService)
	availabilityService := NewAvailabilityService(repos.Cleaner, repos.Job)
	matchingService := NewMatchingService(repos.Cleaner, repos.Job, availabilityService)
	checklistService := NewChecklistService(repos.Checklist, repos.Task)
	payoutService := NewPayoutService(repos.Job, repos.PayoutBatch, settingsService, transactionService)
	tierService := NewTierService(settingsService)
	metricsService := NewMetricsService(db)
	statementService := NewStatementService(payoutService, repos.Cleaner)

	return Service{
		Transaction:      transactionService,
		Scheduler:        schedulerService,
		Settings:         settingsService,
		EffortCalculator: effortCalculatorService,
		Pricing:          pricingService,
		Availability:     availabilityService,
		Matching:         matchingService,
		Checklist:        checklistService,
		Payout:           payoutService,
		Tier:             tierService,
		Metrics:          metricsService,
		Statement:        statementService,
	}, nil
}
