package handlers

import (
	"time"

	"freshnest/internal/app"
	adminController "freshnest/internal/controllers/admin"
	"freshnest/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	admin.Get("/settings", h.getSettings)
	admin.Put("/settings", h.updateSetting)
	admin.Get("/metrics", h.getMetrics)
}

func (h *AdminHandler) getSettings(c *fiber.Ctx) error {
	settings, err := h.adminController.GetSettings(c.UserContext(), c.Query("category"))
	if err != nil {
		return errorResponse(c, err, "Failed to load settings")
	}

	return c.JSON(fiber.Map{
		"settings": settings,
	})
}

func (h *AdminHandler) updateSetting(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	var req adminController.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	setting, err := h.adminController.UpdateSetting(c.UserContext(), &req, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to update setting")
	}

	return c.JSON(fiber.Map{
		"setting": setting,
	})
}

func (h *AdminHandler) getMetrics(c *fiber.Ctx) error {
	end := time.Now().UTC()
	start := end.AddDate(0, -1, 0)

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid from date, expected YYYY-MM-DD",
			})
		}
		start = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid to date, expected YYYY-MM-DD",
			})
		}
		// Treat the to date as inclusive
		end = parsed.AddDate(0, 0, 1)
	}

	metrics, err := h.adminController.GetMetrics(c.UserContext(), start, end)
	if err != nil {
		return errorResponse(c, err, "Failed to load metrics")
	}

	return c.JSON(fiber.Map{
		"metrics": metrics,
	})
}
