package bookingController

import (
	"context"
	"errors"
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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const MaxReviewLength = 2000

type BookingController struct {
	jobRepo            repositories.JobRepository
	memberRepo         repositories.MemberRepository
	cleanerRepo        repositories.CleanerRepository
	zoneRepo           repositories.ZoneRepository
	ratingRepo         repositories.RatingRepository
	noteRepo           repositories.NoteRepository
	checklistService   *services.ChecklistService
	effortCalculator   *services.EffortCalculatorService
	pricingService     *services.PricingService
	matchingService    *services.MatchingService
	availability       *services.AvailabilityService
	tierService        *services.TierService
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

type CreateBookingRequest struct {
	MemberID           uuid.UUID                 `json:"memberId"`
	ZipCode            string                    `json:"zipCode"`
	AddressFull        string                    `json:"addressFull"`
	ScheduledDate      string                    `json:"scheduledDate"`
	ScheduledTime      string                    `json:"scheduledTime"`
	TaskIDs            []uuid.UUID               `json:"taskIds"`
	EffortModifiers    []services.EffortModifier `json:"effortModifiers,omitempty"`
	IsRush             bool                      `json:"isRush"`
	IsEcoFriendly      bool                      `json:"isEcoFriendly"`
	IsPetFriendly      bool                      `json:"isPetFriendly"`
	PreferredCleanerID *uuid.UUID                `json:"preferredCleanerId,omitempty"`
}

type BookingResponse struct {
	Job       *Job                       `json:"job"`
	Checklist *Checklist                 `json:"checklist,omitempty"`
	Pricing   *services.PricingBreakdown `json:"pricing,omitempty"`
	Match     *services.CleanerMatch     `json:"match,omitempty"`
}

type RescheduleRequest struct {
	ScheduledDate string `json:"scheduledDate"`
	ScheduledTime string `json:"scheduledTime"`
}

type RateJobRequest struct {
	Stars  int    `json:"stars"`
	Review string `json:"review,omitempty"`
}

type BookingControllerInterface interface {
	CreateBooking(ctx context.Context, request *CreateBookingRequest, actor string) (*BookingResponse, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*BookingResponse, error)
	GetUpcomingJobs(ctx context.Context, memberID uuid.UUID) ([]*Job, error)
	GetPastJobs(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error)
	StartJob(ctx context.Context, jobID uuid.UUID, actor string) (*Job, error)
	CompleteJob(ctx context.Context, jobID uuid.UUID, actor string) (*Job, error)
	CancelBooking(ctx context.Context, jobID uuid.UUID, reason, actor string) (*Job, error)
	RescheduleBooking(ctx context.Context, jobID uuid.UUID, request *RescheduleRequest, actor string) (*Job, error)
	RateJob(ctx context.Context, jobID uuid.UUID, request *RateJobRequest, actor string) (*Rating, error)
	GetCleanerSlots(ctx context.Context, cleanerID uuid.UUID, date string, durationMinutes int) ([]services.TimeSlot, error)
	GetCleanerAvailabilitySummary(ctx context.Context, cleanerID uuid.UUID, days, durationMinutes int) ([]services.DayAvailability, error)
}

func New(
	repos repositories.Repository,
	svc services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) BookingControllerInterface {
	return &BookingController{
		jobRepo:            repos.Job,
		memberRepo:         repos.Member,
		cleanerRepo:        repos.Cleaner,
		zoneRepo:           repos.Zone,
		ratingRepo:         repos.Rating,
		noteRepo:           repos.Note,
		checklistService:   svc.Checklist,
		effortCalculator:   svc.EffortCalculator,
		pricingService:     svc.Pricing,
		matchingService:    svc.Matching,
		availability:       svc.Availability,
		tierService:        svc.Tier,
		transactionService: svc.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("bookingController"),
	}
}

// CreateBooking runs the full booking pipeline: validate, estimate
// effort, price, match a cleaner, then persist job and checklist in one
// transaction. The database overlap constraint is the final arbiter for
// concurrent bookings against the same slot.
func (c *BookingController) CreateBooking(
	ctx context.Context,
	request *CreateBookingRequest,
	actor string,
) (*BookingResponse, error) {
	log := c.log.Function("CreateBooking")

	member, err := c.memberRepo.GetByID(ctx, request.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, log.ErrorWithType(services.ErrNotFound, "member not found", "memberID", request.MemberID)
	}
	if !member.IsActive {
		return nil, log.ErrorWithType(services.ErrValidation, "member account is not active", "memberID", member.ID)
	}

	zone, err := c.zoneRepo.GetByZipCode(ctx, request.ZipCode)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, log.ErrorWithType(services.ErrValidation, "zip code is not serviced", "zipCode", request.ZipCode)
	}
	if !zone.AcceptsBookings() {
		return nil, log.ErrorWithType(services.ErrValidation, "zone is not accepting bookings",
			"zone", zone.Name, "status", zone.Status)
	}

	scheduledDate, err := parseDate(request.ScheduledDate)
	if err != nil {
		return nil, log.ErrorWithType(services.ErrValidation, "invalid scheduledDate", "error", err)
	}
	if scheduledDate.Before(todayUTC()) {
		return nil, log.ErrorWithType(services.ErrValidation, "scheduledDate cannot be in the past",
			"scheduledDate", request.ScheduledDate)
	}
	if len(request.TaskIDs) == 0 {
		return nil, log.ErrorWithType(services.ErrValidation, "at least one task is required")
	}

	effort, err := c.effortCalculator.CalculateEffortFromTasks(ctx, request.TaskIDs, request.EffortModifiers)
	if err != nil {
		return nil, err
	}
	if effort.ModifiedEffortMinutes <= 0 {
		return nil, log.ErrorWithType(services.ErrValidation, "selected tasks produce no cleaning time")
	}

	pricing, err := c.pricingService.CalculatePrice(ctx, services.PricingInput{
		EffortMinutes: effort.ModifiedEffortMinutes,
		IsWeekend:     isWeekend(scheduledDate),
		IsRush:        request.IsRush,
		IsEcoFriendly: request.IsEcoFriendly,
		IsPetFriendly: request.IsPetFriendly,
		MemberTier:    member.Tier,
	})
	if err != nil {
		return nil, err
	}

	preferredCleanerID := request.PreferredCleanerID
	if preferredCleanerID != nil &&
		!c.tierService.CanAccessFeature(member.Tier, services.FeaturePreferredCleaner) {
		return nil, log.ErrorWithType(services.ErrValidation, "membership tier does not allow choosing a cleaner",
			"memberID", member.ID, "tier", member.Tier)
	}
	if preferredCleanerID == nil {
		preferredCleanerID, err = c.matchingService.GetPreferredCleaner(ctx, member.ID, zone.ID)
		if err != nil {
			return nil, err
		}
	}

	match, err := c.matchingService.GetBestMatch(ctx, services.MatchingCriteria{
		ZoneID:             zone.ID,
		Date:               scheduledDate,
		StartTime:          request.ScheduledTime,
		DurationMinutes:    effort.ModifiedEffortMinutes,
		PreferredCleanerID: preferredCleanerID,
	})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, log.ErrorWithType(services.ErrConflict, "no cleaners available for the selected time",
			"zone", zone.Name, "date", request.ScheduledDate, "time", request.ScheduledTime)
	}

	job := &Job{
		MemberID:                 member.ID,
		CleanerID:                &match.Cleaner.ID,
		ZoneID:                   zone.ID,
		Status:                   JobScheduled,
		AddressFull:              request.AddressFull,
		AddressZip:               request.ZipCode,
		ScheduledDate:            scheduledDate,
		ScheduledTime:            request.ScheduledTime,
		EstimatedDurationMinutes: effort.ModifiedEffortMinutes,
		SubtotalCents:            pricing.SubtotalCents,
		ModifiersTotalCents:      pricing.ModifiersTotalCents,
		TierDiscountCents:        pricing.TierDiscountCents,
		PlatformFeeCents:         pricing.PlatformFeeCents,
		TotalCents:               pricing.TotalCents,
		CleanerPayoutCents:       pricing.CleanerPayoutCents,
	}

	var checklist *Checklist
	err = c.transactionService.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if _, err := c.jobRepo.Create(txCtx, job); err != nil {
			return err
		}

		checklist, err = c.checklistService.CreateChecklist(txCtx, job.ID, request.TaskIDs)
		return err
	})
	if err != nil {
		if database.IsConflict(err) {
			return nil, log.ErrorWithType(services.ErrConflict, "cleaner was booked concurrently for this slot",
				"cleanerID", match.Cleaner.ID)
		}
		return nil, err
	}

	c.writeNote(ctx, "job", job.ID, fmt.Sprintf("Booking created for %s %s (%d min, %s)",
		request.ScheduledDate, request.ScheduledTime,
		effort.ModifiedEffortMinutes, services.FormatPrice(pricing.TotalCents)), actor)

	if err := c.eventBus.Publish(events.BOOKING_CREATED_CHANNEL, events.Event{
		Type: events.BOOKING_CREATED,
		Data: map[string]any{
			"jobId":     job.ID.String(),
			"memberId":  member.ID.String(),
			"cleanerId": match.Cleaner.ID.String(),
		},
	}); err != nil {
		log.Warn("failed to publish booking-created event", "jobID", job.ID, "error", err)
	}

	return &BookingResponse{
		Job:       job,
		Checklist: checklist,
		Pricing:   pricing,
		Match:     match,
	}, nil
}

func (c *BookingController) GetJob(ctx context.Context, jobID uuid.UUID) (*BookingResponse, error) {
	log := c.log.Function("GetJob")

	job, err := c.jobRepo.GetByIDWithDetails(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, log.ErrorWithType(services.ErrNotFound, "job not found", "jobID", jobID)
	}

	checklist, err := c.checklistService.GetByJobID(ctx, jobID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			return nil, err
		}
		checklist = nil
	}

	return &BookingResponse{Job: job, Checklist: checklist}, nil
}

func (c *BookingController) GetUpcomingJobs(ctx context.Context, memberID uuid.UUID) ([]*Job, error) {
	return c.jobRepo.GetUpcomingByMember(ctx, memberID)
}

func (c *BookingController) GetPastJobs(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error) {
	return c.jobRepo.GetPastByMember(ctx, memberID, limit)
}

func (c *BookingController) StartJob(ctx context.Context, jobID uuid.UUID, actor string) (*Job, error) {
	log := c.log.Function("StartJob")

	job, err := c.getJobForTransition(ctx, jobID, log)
	if err != nil {
		return nil, err
	}
	if job.Status != JobScheduled {
		return nil, log.ErrorWithType(services.ErrConflict, "only scheduled jobs can be started",
			"jobID", jobID, "status", job.Status)
	}

	now := time.Now().UTC()
	job.Status = JobInProgress
	job.StartedAt = &now
	if err := c.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	c.writeNote(ctx, "job", job.ID, "Job started", actor)
	return job, nil
}

func (c *BookingController) CompleteJob(ctx context.Context, jobID uuid.UUID, actor string) (*Job, error) {
	log := c.log.Function("CompleteJob")

	job, err := c.getJobForTransition(ctx, jobID, log)
	if err != nil {
		return nil, err
	}
	if job.Status != JobInProgress {
		return nil, log.ErrorWithType(services.ErrConflict, "only in-progress jobs can be completed",
			"jobID", jobID, "status", job.Status)
	}

	now := time.Now().UTC()
	job.Status = JobCompleted
	job.CompletedAt = &now

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if err := c.jobRepo.Update(txCtx, job); err != nil {
			return err
		}
		if job.CleanerID != nil {
			return c.cleanerRepo.IncrementJobsCompleted(txCtx, *job.CleanerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.writeNote(ctx, "job", job.ID, "Job completed", actor)
	return job, nil
}

func (c *BookingController) CancelBooking(
	ctx context.Context,
	jobID uuid.UUID,
	reason, actor string,
) (*Job, error) {
	log := c.log.Function("CancelBooking")

	job, err := c.getJobForTransition(ctx, jobID, log)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return nil, log.ErrorWithType(services.ErrConflict, "job is already finished",
			"jobID", jobID, "status", job.Status)
	}

	job.Status = JobCancelled
	if err := c.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	note := "Booking cancelled"
	if reason != "" {
		note = fmt.Sprintf("Booking cancelled: %s", reason)
	}
	c.writeNote(ctx, "job", job.ID, note, actor)

	if err := c.eventBus.Publish(events.BOOKING_CANCELLED_CHANNEL, events.Event{
		Type: events.BOOKING_CANCELLED,
		Data: map[string]any{
			"jobId":  job.ID.String(),
			"reason": reason,
		},
	}); err != nil {
		log.Warn("failed to publish booking-cancelled event", "jobID", job.ID, "error", err)
	}

	return job, nil
}

// RescheduleBooking keeps the assigned cleaner: if they cannot make the
// new slot the reschedule fails rather than silently reassigning.
func (c *BookingController) RescheduleBooking(
	ctx context.Context,
	jobID uuid.UUID,
	request *RescheduleRequest,
	actor string,
) (*Job, error) {
	log := c.log.Function("RescheduleBooking")

	job, err := c.getJobForTransition(ctx, jobID, log)
	if err != nil {
		return nil, err
	}
	if job.Status != JobScheduled {
		return nil, log.ErrorWithType(services.ErrConflict, "only scheduled jobs can be rescheduled",
			"jobID", jobID, "status", job.Status)
	}

	newDate, err := parseDate(request.ScheduledDate)
	if err != nil {
		return nil, log.ErrorWithType(services.ErrValidation, "invalid scheduledDate", "error", err)
	}
	if newDate.Before(todayUTC()) {
		return nil, log.ErrorWithType(services.ErrValidation, "scheduledDate cannot be in the past",
			"scheduledDate", request.ScheduledDate)
	}

	if job.CleanerID != nil {
		cleaner, err := c.cleanerRepo.GetByIDWithAvailability(ctx, *job.CleanerID)
		if err != nil {
			return nil, err
		}
		if cleaner == nil {
			return nil, log.ErrorWithType(services.ErrNotFound, "assigned cleaner not found", "cleanerID", *job.CleanerID)
		}

		available, reason, err := c.availability.CheckCleanerAvailability(
			ctx, cleaner, newDate, request.ScheduledTime, job.EstimatedDurationMinutes, &job.ID,
		)
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, log.ErrorWithType(services.ErrConflict, "assigned cleaner is not available at the new time",
				"jobID", jobID, "reason", reason)
		}
	}

	previous := fmt.Sprintf("%s %s", job.ScheduledDate.Format("2006-01-02"), job.ScheduledTime)
	job.ScheduledDate = newDate
	job.ScheduledTime = request.ScheduledTime
	if err := c.jobRepo.Update(ctx, job); err != nil {
		if database.IsConflict(err) {
			return nil, log.ErrorWithType(services.ErrConflict, "cleaner was booked concurrently for the new slot",
				"jobID", jobID)
		}
		return nil, err
	}

	c.writeNote(ctx, "job", job.ID, fmt.Sprintf("Rescheduled from %s to %s %s",
		previous, request.ScheduledDate, request.ScheduledTime), actor)

	return job, nil
}

// RateJob records the single allowed rating for a completed job and
// recomputes the cleaner's aggregate.
func (c *BookingController) RateJob(
	ctx context.Context,
	jobID uuid.UUID,
	request *RateJobRequest,
	actor string,
) (*Rating, error) {
	log := c.log.Function("RateJob")

	if request.Stars < 1 || request.Stars > 5 {
		return nil, log.ErrorWithType(services.ErrValidation, "stars must be between 1 and 5", "stars", request.Stars)
	}
	if len(request.Review) > MaxReviewLength {
		return nil, log.ErrorWithType(services.ErrValidation, "review is too long", "length", len(request.Review))
	}

	job, err := c.getJobForTransition(ctx, jobID, log)
	if err != nil {
		return nil, err
	}
	if job.Status != JobCompleted {
		return nil, log.ErrorWithType(services.ErrConflict, "only completed jobs can be rated",
			"jobID", jobID, "status", job.Status)
	}
	if job.CleanerID == nil {
		return nil, log.ErrorWithType(services.ErrConflict, "job has no assigned cleaner", "jobID", jobID)
	}

	rating := &Rating{
		JobID:     job.ID,
		CleanerID: *job.CleanerID,
		MemberID:  job.MemberID,
		Stars:     request.Stars,
		Review:    request.Review,
	}

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, _ *gorm.DB) error {
		if _, err := c.ratingRepo.Create(txCtx, rating); err != nil {
			return err
		}

		average, count, err := c.ratingRepo.AggregateByCleaner(txCtx, *job.CleanerID)
		if err != nil {
			return err
		}

		rounded, _ := decimal.NewFromFloat(average).Round(2).Float64()
		return c.cleanerRepo.UpdateRating(txCtx, *job.CleanerID, rounded, count)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, log.ErrorWithType(services.ErrConflict, "job has already been rated", "jobID", jobID)
		}
		return nil, err
	}

	c.writeNote(ctx, "job", job.ID, fmt.Sprintf("Rated %d stars", request.Stars), actor)
	return rating, nil
}

func (c *BookingController) getJobForTransition(
	ctx context.Context,
	jobID uuid.UUID,
	log logger.Logger,
) (*Job, error) {
	job, err := c.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, log.ErrorWithType(services.ErrNotFound, "job not found", "jobID", jobID)
	}
	return job, nil
}

// writeNote is best-effort: a failed audit note never fails the parent
// operation.
func (c *BookingController) writeNote(ctx context.Context, entityType string, entityID uuid.UUID, content, actor string) {
	log := c.log.Function("writeNote")

	if actor == "" {
		actor = "system"
	}
	if _, err := c.noteRepo.Create(ctx, &Note{
		EntityType: entityType,
		EntityID:   entityID,
		Content:    content,
		CreatedBy:  actor,
	}); err != nil {
		log.Warn("failed to write audit note", "entityType", entityType, "entityID", entityID, "error", err)
	}
}

// GetCleanerSlots lists open start times for one cleaner on one day.
func (c *BookingController) GetCleanerSlots(
	ctx context.Context,
	cleanerID uuid.UUID,
	date string,
	durationMinutes int,
) ([]services.TimeSlot, error) {
	log := c.log.Function("GetCleanerSlots")

	day, err := parseDate(date)
	if err != nil {
		return nil, log.ErrorWithType(services.ErrValidation, err.Error())
	}

	return c.availability.GetAvailableTimeSlots(ctx, cleanerID, day, durationMinutes)
}

func (c *BookingController) GetCleanerAvailabilitySummary(
	ctx context.Context,
	cleanerID uuid.UUID,
	days, durationMinutes int,
) ([]services.DayAvailability, error) {
	return c.availability.GetCleanerAvailabilitySummary(ctx, cleanerID, days, durationMinutes)
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func isWeekend(date time.Time) bool {
	return date.Weekday() == time.Saturday || date.Weekday() == time.Sunday
}
