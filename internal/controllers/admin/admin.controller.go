package adminController

import (
	"context"
	"time"

	"freshnest/config"
	. "freshnest/internal/models"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type AdminController struct {
	settingsService *services.SettingsService
	metricsService  *services.MetricsService
	noteRepo        repositories.NoteRepository
	Config          config.Config
	log             logger.Logger
}

type UpdateSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type AdminControllerInterface interface {
	GetSettings(ctx context.Context, category string) ([]*Setting, error)
	UpdateSetting(ctx context.Context, request *UpdateSettingRequest, actor string) (*Setting, error)
	GetMetrics(ctx context.Context, periodStart, periodEnd time.Time) (*services.DashboardMetrics, error)
}

func New(
	repos repositories.Repository,
	svc services.Service,
	config config.Config,
) AdminControllerInterface {
	return &AdminController{
		settingsService: svc.Settings,
		metricsService:  svc.Metrics,
		noteRepo:        repos.Note,
		Config:          config,
		log:             logger.New("adminController"),
	}
}

func (c *AdminController) GetSettings(ctx context.Context, category string) ([]*Setting, error) {
	if category != "" {
		return c.settingsService.GetSettingsByCategory(ctx, category)
	}
	return c.settingsService.GetAllSettings(ctx)
}

func (c *AdminController) UpdateSetting(
	ctx context.Context,
	request *UpdateSettingRequest,
	actor string,
) (*Setting, error) {
	log := c.log.Function("UpdateSetting")

	if request.Key == "" {
		return nil, log.ErrorWithType(services.ErrValidation, "key is required")
	}

	setting, err := c.settingsService.UpdateSetting(ctx, request.Key, request.Value)
	if err != nil {
		return nil, err
	}

	if actor == "" {
		actor = "system"
	}
	if _, err := c.noteRepo.Create(ctx, &Note{
		EntityType: "setting",
		EntityID:   setting.ID,
		Content:    "Setting updated to " + request.Value,
		CreatedBy:  actor,
	}); err != nil {
		log.Warn("failed to write audit note", "key", request.Key, "error", err)
	}

	return setting, nil
}

func (c *AdminController) GetMetrics(
	ctx context.Context,
	periodStart, periodEnd time.Time,
) (*services.DashboardMetrics, error) {
	return c.metricsService.GetDashboardMetrics(ctx, periodStart, periodEnd)
}
