package handlers

import (
	"fmt"

	"freshnest/internal/app"
	payoutController "freshnest/internal/controllers/payouts"
	"freshnest/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PayoutHandler struct {
	Handler
	payoutController payoutController.PayoutControllerInterface
}

func NewPayoutHandler(app app.App, router fiber.Router) *PayoutHandler {
	log := logger.New("handlers").File("payout_handler")
	return &PayoutHandler{
		payoutController: app.Controllers.Payout,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PayoutHandler) Register() {
	payouts := h.router.Group("/payouts", h.middleware.RequireAuth(), h.middleware.RequireAdmin())
	payouts.Post("/preview", h.previewPayouts)
	payouts.Post("/batches", h.createBatch)
	payouts.Get("/batches", h.getAllBatches)
	payouts.Get("/batches/:id", h.getBatch)
	payouts.Post("/batches/:id/process", h.processBatch)
	payouts.Get("/batches/:id/statement", h.getBatchStatement)

	cleaners := h.router.Group("/cleaners", h.middleware.RequireAuth())
	cleaners.Get("/:id/pending-payout", h.getCleanerPendingPayout)
}

func (h *PayoutHandler) previewPayouts(c *fiber.Ctx) error {
	var req payoutController.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	preview, err := h.payoutController.PreviewPayouts(c.UserContext(), &req)
	if err != nil {
		return errorResponse(c, err, "Failed to preview payouts")
	}

	return c.JSON(fiber.Map{
		"preview": preview,
	})
}

func (h *PayoutHandler) createBatch(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	var req payoutController.CreateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	batch, err := h.payoutController.CreateBatch(c.UserContext(), &req, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to create payout batch")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"batch": batch,
	})
}

func (h *PayoutHandler) getAllBatches(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)

	batches, err := h.payoutController.GetAllBatches(c.UserContext(), limit)
	if err != nil {
		return errorResponse(c, err, "Failed to load payout batches")
	}

	return c.JSON(fiber.Map{
		"batches": batches,
	})
}

func (h *PayoutHandler) getBatch(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	batch, err := h.payoutController.GetBatch(c.UserContext(), batchID)
	if err != nil {
		return errorResponse(c, err, "Failed to load payout batch")
	}

	return c.JSON(fiber.Map{
		"batch": batch,
	})
}

func (h *PayoutHandler) processBatch(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	batch, err := h.payoutController.ProcessBatch(c.UserContext(), batchID, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to process payout batch")
	}

	return c.JSON(fiber.Map{
		"batch": batch,
	})
}

func (h *PayoutHandler) getBatchStatement(c *fiber.Ctx) error {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid batch ID",
		})
	}

	statement, err := h.payoutController.GetBatchStatement(c.UserContext(), batchID)
	if err != nil {
		return errorResponse(c, err, "Failed to generate statement")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=payout-statement-%s.pdf", batchID))
	return c.Send(statement)
}

func (h *PayoutHandler) getCleanerPendingPayout(c *fiber.Ctx) error {
	cleanerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	pending, err := h.payoutController.GetCleanerPendingPayout(c.UserContext(), cleanerID)
	if err != nil {
		return errorResponse(c, err, "Failed to load pending payout")
	}

	return c.JSON(fiber.Map{
		"pending": pending,
	})
}
