package payoutController

import (
	"context"
	"fmt"
	"time"

	"freshnest/config"
	"freshnest/internal/database"
	"freshnest/internal/events"
	. "freshnest/internal/models"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type PayoutController struct {
	payoutService    *services.PayoutService
	statementService *services.StatementService
	noteRepo         repositories.NoteRepository
	eventBus         *events.EventBus
	db               database.DB
	Config           config.Config
	log              logger.Logger
}

type CreateBatchRequest struct {
	PeriodStart string `json:"periodStart,omitempty"`
	PeriodEnd   string `json:"periodEnd,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type PayoutControllerInterface interface {
	PreviewPayouts(ctx context.Context, request *CreateBatchRequest) (*services.PayoutCalculation, error)
	CreateBatch(ctx context.Context, request *CreateBatchRequest, actor string) (*PayoutBatch, error)
	ProcessBatch(ctx context.Context, batchID uuid.UUID, actor string) (*PayoutBatch, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) (*services.PayoutBatchDetail, error)
	GetAllBatches(ctx context.Context, limit int) ([]*PayoutBatch, error)
	GetBatchStatement(ctx context.Context, batchID uuid.UUID) ([]byte, error)
	GetCleanerPendingPayout(ctx context.Context, cleanerID uuid.UUID) (*services.CleanerPayout, error)
}

func New(
	repos repositories.Repository,
	svc services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) PayoutControllerInterface {
	return &PayoutController{
		payoutService:    svc.Payout,
		statementService: svc.Statement,
		noteRepo:         repos.Note,
		eventBus:         eventBus,
		db:               db,
		Config:           config,
		log:              logger.New("payoutController"),
	}
}

// resolvePeriod falls back to the most recent complete Friday-Thursday
// window when the request leaves the period empty.
func (c *PayoutController) resolvePeriod(request *CreateBatchRequest) (time.Time, time.Time, error) {
	if request.PeriodStart == "" && request.PeriodEnd == "" {
		start, end := services.NextPayoutPeriod(time.Now().UTC())
		return start, end, nil
	}

	start, err := time.Parse("2006-01-02", request.PeriodStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid periodStart %q: %w", request.PeriodStart, err)
	}
	end, err := time.Parse("2006-01-02", request.PeriodEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid periodEnd %q: %w", request.PeriodEnd, err)
	}

	return start, end, nil
}

func (c *PayoutController) PreviewPayouts(
	ctx context.Context,
	request *CreateBatchRequest,
) (*services.PayoutCalculation, error) {
	log := c.log.Function("PreviewPayouts")

	start, end, err := c.resolvePeriod(request)
	if err != nil {
		return nil, log.ErrorWithType(services.ErrValidation, "invalid payout period", "error", err)
	}

	return c.payoutService.CalculatePayouts(ctx, start, end)
}

func (c *PayoutController) CreateBatch(
	ctx context.Context,
	request *CreateBatchRequest,
	actor string,
) (*PayoutBatch, error) {
	log := c.log.Function("CreateBatch")

	start, end, err := c.resolvePeriod(request)
	if err != nil {
		return nil, log.ErrorWithType(services.ErrValidation, "invalid payout period", "error", err)
	}

	batch, err := c.payoutService.CreatePayoutBatch(ctx, start, end, request.Notes)
	if err != nil {
		return nil, err
	}

	c.writeNote(ctx, batch.ID, fmt.Sprintf("Payout batch created: %d jobs, %d cleaners, %s net",
		batch.TotalJobs, batch.TotalCleaners, services.FormatPrice(batch.TotalNetCents)), actor)

	return batch, nil
}

func (c *PayoutController) ProcessBatch(
	ctx context.Context,
	batchID uuid.UUID,
	actor string,
) (*PayoutBatch, error) {
	log := c.log.Function("ProcessBatch")

	batch, err := c.payoutService.MarkBatchProcessed(ctx, batchID)
	if err != nil {
		return nil, err
	}

	c.writeNote(ctx, batch.ID, "Payout batch processed", actor)

	if err := c.eventBus.Publish(events.PAYOUT_PROCESSED_CHANNEL, events.Event{
		Type: events.PAYOUT_PROCESSED,
		Data: map[string]any{
			"batchId":       batch.ID.String(),
			"totalNetCents": batch.TotalNetCents,
		},
	}); err != nil {
		log.Warn("failed to publish payout-processed event", "batchID", batch.ID, "error", err)
	}

	return batch, nil
}

func (c *PayoutController) GetBatch(ctx context.Context, batchID uuid.UUID) (*services.PayoutBatchDetail, error) {
	return c.payoutService.GetPayoutBatch(ctx, batchID)
}

func (c *PayoutController) GetAllBatches(ctx context.Context, limit int) ([]*PayoutBatch, error) {
	return c.payoutService.GetAllBatches(ctx, limit)
}

func (c *PayoutController) GetBatchStatement(ctx context.Context, batchID uuid.UUID) ([]byte, error) {
	return c.statementService.GenerateBatchStatement(ctx, batchID)
}

func (c *PayoutController) GetCleanerPendingPayout(
	ctx context.Context,
	cleanerID uuid.UUID,
) (*services.CleanerPayout, error) {
	return c.payoutService.GetCleanerPendingPayout(ctx, cleanerID)
}

func (c *PayoutController) writeNote(ctx context.Context, batchID uuid.UUID, content, actor string) {
	log := c.log.Function("writeNote")

	if actor == "" {
		actor = "system"
	}
	if _, err := c.noteRepo.Create(ctx, &Note{
		EntityType: "payout_batch",
		EntityID:   batchID,
		Content:    content,
		CreatedBy:  actor,
	}); err != nil {
		log.Warn("failed to write audit note", "batchID", batchID, "error", err)
	}
}
