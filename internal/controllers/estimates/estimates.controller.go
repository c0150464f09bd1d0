package estimateController

import (
	"context"

	"freshnest/config"
	. "freshnest/internal/models"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type EstimateController struct {
	taskRepo         repositories.TaskRepository
	effortCalculator *services.EffortCalculatorService
	pricingService   *services.PricingService
	tierService      *services.TierService
	Config           config.Config
	log              logger.Logger
}

type EstimateRequest struct {
	TaskIDs         []uuid.UUID               `json:"taskIds"`
	EffortModifiers []services.EffortModifier `json:"effortModifiers,omitempty"`
	IsWeekend       bool                      `json:"isWeekend"`
	IsRush          bool                      `json:"isRush"`
	IsEcoFriendly   bool                      `json:"isEcoFriendly"`
	IsPetFriendly   bool                      `json:"isPetFriendly"`
	MemberTier      MemberTier                `json:"memberTier,omitempty"`
}

type EstimateResponse struct {
	Effort  *services.EffortResult     `json:"effort"`
	Pricing *services.PricingBreakdown `json:"pricing"`
}

type TaskCatalogGroup struct {
	RoomType string  `json:"roomType"`
	Tasks    []*Task `json:"tasks"`
}

type EstimateControllerInterface interface {
	Estimate(ctx context.Context, request *EstimateRequest) (*EstimateResponse, error)
	EstimateByJobType(ctx context.Context, jobType services.JobType, request *EstimateRequest) (*EstimateResponse, error)
	GetTaskCatalog(ctx context.Context) ([]TaskCatalogGroup, error)
	GetTierCatalog(ctx context.Context) ([]*services.TierInfo, error)
}

func New(
	repos repositories.Repository,
	svc services.Service,
	config config.Config,
) EstimateControllerInterface {
	return &EstimateController{
		taskRepo:         repos.Task,
		effortCalculator: svc.EffortCalculator,
		pricingService:   svc.Pricing,
		tierService:      svc.Tier,
		Config:           config,
		log:              logger.New("estimateController"),
	}
}

// Estimate prices a task selection without touching member or cleaner
// state; it powers the public quote widget.
func (c *EstimateController) Estimate(ctx context.Context, request *EstimateRequest) (*EstimateResponse, error) {
	log := c.log.Function("Estimate")

	if len(request.TaskIDs) == 0 {
		return nil, log.ErrorWithType(services.ErrValidation, "at least one task is required")
	}

	effort, err := c.effortCalculator.CalculateEffortFromTasks(ctx, request.TaskIDs, request.EffortModifiers)
	if err != nil {
		return nil, err
	}

	pricing, err := c.pricingService.CalculatePrice(ctx, services.PricingInput{
		EffortMinutes: effort.ModifiedEffortMinutes,
		IsWeekend:     request.IsWeekend,
		IsRush:        request.IsRush,
		IsEcoFriendly: request.IsEcoFriendly,
		IsPetFriendly: request.IsPetFriendly,
		MemberTier:    request.MemberTier,
	})
	if err != nil {
		return nil, err
	}

	return &EstimateResponse{Effort: effort, Pricing: pricing}, nil
}

func (c *EstimateController) EstimateByJobType(
	ctx context.Context,
	jobType services.JobType,
	request *EstimateRequest,
) (*EstimateResponse, error) {
	effort, err := c.effortCalculator.EstimateByJobType(ctx, jobType)
	if err != nil {
		return nil, err
	}

	pricing, err := c.pricingService.EstimateByJobType(ctx, jobType, services.PricingInput{
		IsWeekend:     request.IsWeekend,
		IsRush:        request.IsRush,
		IsEcoFriendly: request.IsEcoFriendly,
		IsPetFriendly: request.IsPetFriendly,
		MemberTier:    request.MemberTier,
	})
	if err != nil {
		return nil, err
	}

	return &EstimateResponse{Effort: effort, Pricing: pricing}, nil
}

// GetTaskCatalog returns active tasks grouped by room type in catalog
// order.
func (c *EstimateController) GetTaskCatalog(ctx context.Context) ([]TaskCatalogGroup, error) {
	tasks, err := c.taskRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]*TaskCatalogGroup)
	order := make([]string, 0)
	for _, task := range tasks {
		group, exists := grouped[task.RoomType]
		if !exists {
			group = &TaskCatalogGroup{RoomType: task.RoomType}
			grouped[task.RoomType] = group
			order = append(order, task.RoomType)
		}
		group.Tasks = append(group.Tasks, task)
	}

	catalog := make([]TaskCatalogGroup, 0, len(order))
	for _, roomType := range order {
		catalog = append(catalog, *grouped[roomType])
	}

	return catalog, nil
}

// GetTierCatalog lists every membership tier with its discount and
// monthly price, driven by the settings store.
func (c *EstimateController) GetTierCatalog(ctx context.Context) ([]*services.TierInfo, error) {
	tiers := []MemberTier{TierFree, TierSilver, TierGold, TierDiamond}

	catalog := make([]*services.TierInfo, 0, len(tiers))
	for _, tier := range tiers {
		info, err := c.tierService.GetTierInfo(ctx, tier)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, info)
	}

	return catalog, nil
}
