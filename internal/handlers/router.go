package handlers

import (
	"errors"

	"freshnest/internal/app"
	"freshnest/internal/handlers/middleware"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewEstimateHandler(*app, api).Register()
	NewBookingHandler(*app, api).Register()
	NewPayoutHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

// errorResponse maps controller errors onto HTTP statuses by error
// class. Messages for validation, not-found, and conflict failures are
// safe to surface; anything else gets the fallback.
func errorResponse(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fallback,
		})
	}
}
