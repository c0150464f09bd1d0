package handlers

import (
	"freshnest/internal/app"
	estimateController "freshnest/internal/controllers/estimates"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type EstimateHandler struct {
	Handler
	estimateController estimateController.EstimateControllerInterface
}

func NewEstimateHandler(app app.App, router fiber.Router) *EstimateHandler {
	log := logger.New("handlers").File("estimate_handler")
	return &EstimateHandler{
		estimateController: app.Controllers.Estimate,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *EstimateHandler) Register() {
	public := h.router.Group("/public")
	public.Post("/estimate", h.estimate)
	public.Post("/estimate/:jobType", h.estimateByJobType)
	public.Get("/tasks", h.getTaskCatalog)
	public.Get("/tiers", h.getTierCatalog)
}

func (h *EstimateHandler) estimate(c *fiber.Ctx) error {
	var req estimateController.EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	estimate, err := h.estimateController.Estimate(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err, "Failed to calculate estimate")
	}

	return c.JSON(fiber.Map{
		"estimate": estimate,
	})
}

func (h *EstimateHandler) estimateByJobType(c *fiber.Ctx) error {
	jobType := services.JobType(c.Params("jobType"))

	var req estimateController.EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	estimate, err := h.estimateController.EstimateByJobType(c.UserContext(), jobType, &req)
	if err != nil {
		return errorResponse(c, err, "Failed to calculate estimate")
	}

	return c.JSON(fiber.Map{
		"estimate": estimate,
	})
}

func (h *EstimateHandler) getTaskCatalog(c *fiber.Ctx) error {
	catalog, err := h.estimateController.GetTaskCatalog(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Failed to load task catalog")
	}

	return c.JSON(fiber.Map{
		"catalog": catalog,
	})
}

func (h *EstimateHandler) getTierCatalog(c *fiber.Ctx) error {
	tiers, err := h.estimateController.GetTierCatalog(c.UserContext())
	if err != nil {
		return errorResponse(c, err, "Failed to load tier catalog")
	}

	return c.JSON(fiber.Map{
		"tiers": tiers,
	})
}
