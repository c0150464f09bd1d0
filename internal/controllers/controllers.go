package controllers

import (
	"freshnest/config"
	"freshnest/internal/database"
	"freshnest/internal/events"
	"freshnest/internal/repositories"
	"freshnest/internal/services"

	adminController "freshnest/internal/controllers/admin"
	bookingController "freshnest/internal/controllers/bookings"
	estimateController "freshnest/internal/controllers/estimates"
	payoutController "freshnest/internal/controllers/payouts"
)

type Controllers struct {
	Booking  bookingController.BookingControllerInterface
	Payout   payoutController.PayoutControllerInterface
	Estimate estimateController.EstimateControllerInterface
	Admin    adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Booking:  bookingController.New(repos, services, eventBus, config, db),
		Payout:   payoutController.New(repos, services, eventBus, config, db),
		Estimate: estimateController.New(repos, services, config),
		Admin:    adminController.New(repos, services, config),
	}
}
