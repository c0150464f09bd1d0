package handlers

import (
	"context"

	"freshnest/internal/app"
	bookingController "freshnest/internal/controllers/bookings"
	"freshnest/internal/handlers/middleware"
	"freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type BookingHandler struct {
	Handler
	bookingController bookingController.BookingControllerInterface
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func NewBookingHandler(app app.App, router fiber.Router) *BookingHandler {
	log := logger.New("handlers").File("booking_handler")
	return &BookingHandler{
		bookingController: app.Controllers.Booking,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *BookingHandler) Register() {
	bookings := h.router.Group("/bookings", h.middleware.RequireAuth())
	bookings.Post("", h.createBooking)
	bookings.Get("", h.getMemberBookings)
	bookings.Get("/:id", h.getBooking)
	bookings.Post("/:id/start", h.startJob)
	bookings.Post("/:id/complete", h.completeJob)
	bookings.Post("/:id/cancel", h.cancelBooking)
	bookings.Post("/:id/reschedule", h.rescheduleBooking)
	bookings.Post("/:id/rate", h.rateJob)

	cleaners := h.router.Group("/cleaners")
	cleaners.Get("/:id/slots", h.getCleanerSlots)
	cleaners.Get("/:id/availability", h.getCleanerAvailability)
}

func (h *BookingHandler) createBooking(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req bookingController.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	booking, err := h.bookingController.CreateBooking(c.UserContext(), &req, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to create booking")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *BookingHandler) getMemberBookings(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	memberIDParam := c.Query("memberId", actor.ID)
	memberID, err := uuid.Parse(memberIDParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid member ID",
		})
	}

	if c.Query("scope", "upcoming") == "past" {
		limit := c.QueryInt("limit", 20)
		jobs, err := h.bookingController.GetPastJobs(c.UserContext(), memberID, limit)
		if err != nil {
			return errorResponse(c, err, "Failed to load bookings")
		}
		return c.JSON(fiber.Map{"jobs": jobs})
	}

	jobs, err := h.bookingController.GetUpcomingJobs(c.UserContext(), memberID)
	if err != nil {
		return errorResponse(c, err, "Failed to load bookings")
	}
	return c.JSON(fiber.Map{"jobs": jobs})
}

func (h *BookingHandler) getBooking(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	booking, err := h.bookingController.GetJob(c.UserContext(), jobID)
	if err != nil {
		return errorResponse(c, err, "Failed to load booking")
	}

	return c.JSON(fiber.Map{
		"booking": booking,
	})
}

func (h *BookingHandler) startJob(c *fiber.Ctx) error {
	return h.transition(c, h.bookingController.StartJob, "Failed to start job")
}

func (h *BookingHandler) completeJob(c *fiber.Ctx) error {
	return h.transition(c, h.bookingController.CompleteJob, "Failed to complete job")
}

func (h *BookingHandler) cancelBooking(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req cancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	job, err := h.bookingController.CancelBooking(c.UserContext(), jobID, req.Reason, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to cancel booking")
	}

	return c.JSON(fiber.Map{
		"job": job,
	})
}

func (h *BookingHandler) rescheduleBooking(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req bookingController.RescheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	job, err := h.bookingController.RescheduleBooking(c.UserContext(), jobID, &req, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to reschedule booking")
	}

	return c.JSON(fiber.Map{
		"job": job,
	})
}

func (h *BookingHandler) rateJob(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	var req bookingController.RateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	rating, err := h.bookingController.RateJob(c.UserContext(), jobID, &req, actor.ID)
	if err != nil {
		return errorResponse(c, err, "Failed to rate job")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"rating": rating,
	})
}

func (h *BookingHandler) getCleanerSlots(c *fiber.Ctx) error {
	cleanerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	date := c.Query("date")
	duration := c.QueryInt("duration", 120)

	slots, err := h.bookingController.GetCleanerSlots(c.UserContext(), cleanerID, date, duration)
	if err != nil {
		return errorResponse(c, err, "Failed to load slots")
	}

	return c.JSON(fiber.Map{
		"slots": slots,
	})
}

func (h *BookingHandler) getCleanerAvailability(c *fiber.Ctx) error {
	cleanerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid cleaner ID",
		})
	}

	days := c.QueryInt("days", 7)
	duration := c.QueryInt("duration", 120)

	summary, err := h.bookingController.GetCleanerAvailabilitySummary(c.UserContext(), cleanerID, days, duration)
	if err != nil {
		return errorResponse(c, err, "Failed to load availability")
	}

	return c.JSON(fiber.Map{
		"availability": summary,
	})
}

// transition handles the shared shape of start/complete: id param,
// actor, single job result.
func (h *BookingHandler) transition(
	c *fiber.Ctx,
	op func(ctx context.Context, jobID uuid.UUID, actor string) (*models.Job, error),
	fallback string,
) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid booking ID",
		})
	}

	job, err := op(c.UserContext(), jobID, actor.ID)
	if err != nil {
		return errorResponse(c, err, fallback)
	}

	return c.JSON(fiber.Map{
		"job": job,
	})
}
