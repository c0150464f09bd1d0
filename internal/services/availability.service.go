package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	. "freshnest/internal/models"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const slotGranularityMinutes = 30

type AvailabilityQuery struct {
	ZoneID          uuid.UUID `json:"zoneId"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

type AvailabilityResult struct {
	Cleaner     *Cleaner `json:"cleaner"`
	IsAvailable bool     `json:"isAvailable"`
	Reason      string   `json:"reason,omitempty"`
}

type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type DayAvailability struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// AvailabilityService answers whether a cleaner can take a job at a
// given slot. Checks run in a fixed order and short-circuit on the
// first failure so the reported reason is deterministic. All interval
// math is in minutes since midnight; "HH:MM" strings exist only at the
// boundary.
type AvailabilityService struct {
	cleanerRepo repositories.CleanerRepository
	jobRepo     repositories.JobRepository
	log         logger.Logger
}

func NewAvailabilityService(
	cleanerRepo repositories.CleanerRepository,
	jobRepo repositories.JobRepository,
) *AvailabilityService {
	return &AvailabilityService{
		cleanerRepo: cleanerRepo,
		jobRepo:     jobRepo,
		log:         logger.New("availabilityService"),
	}
}

// FindAvailableCleaners evaluates every active cleaner in the zone and
// returns one result per cleaner, available or not.
func (s *AvailabilityService) FindAvailableCleaners(
	ctx context.Context,
	query AvailabilityQuery,
) ([]AvailabilityResult, error) {
	log := s.log.Function("FindAvailableCleaners")

	if err := validateTimeRequest(query.StartTime, query.DurationMinutes); err != nil {
		return nil, log.ErrorWithType(ErrValidation, "invalid availability query", "error", err)
	}

	cleaners, err := s.cleanerRepo.GetActiveByZone(ctx, query.ZoneID)
	if err != nil {
		return nil, err
	}

	results := make([]AvailabilityResult, 0, len(cleaners))
	for _, cleaner := range cleaners {
		available, reason, err := s.CheckCleanerAvailability(
			ctx, cleaner, query.Date, query.StartTime, query.DurationMinutes, nil,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, AvailabilityResult{
			Cleaner:     cleaner,
			IsAvailable: available,
			Reason:      reason,
		})
	}

	return results, nil
}

// CheckCleanerAvailability runs the ordered availability checks for one
// cleaner. excludeJobID carves a job out of the conflict scan so a
// reschedule never collides with the job being moved.
func (s *AvailabilityService) CheckCleanerAvailability(
	ctx context.Context,
	cleaner *Cleaner,
	date time.Time,
	startTime string,
	durationMinutes int,
	excludeJobID *uuid.UUID,
) (bool, string, error) {
	if cleaner.Status != CleanerActive {
		return false, "cleaner is not active", nil
	}

	for _, blocked := range cleaner.BlockedDates {
		if sameDay(blocked.BlockedDate, date) {
			return false, "cleaner has blocked this date", nil
		}
	}

	weekday := int(date.Weekday())
	var schedule *CleanerSchedule
	for i := range cleaner.Schedules {
		if cleaner.Schedules[i].DayOfWeek == weekday && cleaner.Schedules[i].IsAvailable {
			schedule = &cleaner.Schedules[i]
			break
		}
	}
	if schedule == nil {
		return false, fmt.Sprintf("cleaner does not work on %s", date.Weekday()), nil
	}

	reqStart, err := parseTimeToMinutes(startTime)
	if err != nil {
		return false, "", err
	}
	reqEnd := reqStart + durationMinutes

	schedStart, err := parseTimeToMinutes(schedule.StartTime)
	if err != nil {
		return false, "", err
	}
	schedEnd, err := parseTimeToMinutes(schedule.EndTime)
	if err != nil {
		return false, "", err
	}
	if reqStart < schedStart || reqEnd > schedEnd {
		return false, "requested time outside working hours", nil
	}

	jobs, err := s.jobRepo.GetActiveByCleanerAndDate(ctx, cleaner.ID, date, excludeJobID)
	if err != nil {
		return false, "", err
	}
	for _, job := range jobs {
		jobStart, err := parseTimeToMinutes(job.ScheduledTime)
		if err != nil {
			return false, "", err
		}
		jobEnd := jobStart + job.EstimatedDurationMinutes
		if reqStart < jobEnd && reqEnd > jobStart {
			return false, "cleaner has conflicting booking", nil
		}
	}

	return true, "", nil
}

// GetAvailableTimeSlots scans the cleaner's working hours on a date in
// 30-minute steps and returns each start that fits the duration without
// conflicting.
func (s *AvailabilityService) GetAvailableTimeSlots(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
	durationMinutes int,
) ([]TimeSlot, error) {
	log := s.log.Function("GetAvailableTimeSlots")

	if durationMinutes <= 0 {
		return nil, log.ErrorWithType(ErrValidation, "duration must be positive", "durationMinutes", durationMinutes)
	}

	cleaner, err := s.cleanerRepo.GetByIDWithAvailability(ctx, cleanerID)
	if err != nil {
		return nil, err
	}
	if cleaner == nil {
		return nil, log.ErrorWithType(ErrNotFound, "cleaner not found", "cleanerID", cleanerID)
	}

	slots := []TimeSlot{}
	if cleaner.Status != CleanerActive {
		return slots, nil
	}
	for _, blocked := range cleaner.BlockedDates {
		if sameDay(blocked.BlockedDate, date) {
			return slots, nil
		}
	}

	weekday := int(date.Weekday())
	var schedule *CleanerSchedule
	for i := range cleaner.Schedules {
		if cleaner.Schedules[i].DayOfWeek == weekday && cleaner.Schedules[i].IsAvailable {
			schedule = &cleaner.Schedules[i]
			break
		}
	}
	if schedule == nil {
		return slots, nil
	}

	schedStart, err := parseTimeToMinutes(schedule.StartTime)
	if err != nil {
		return nil, err
	}
	schedEnd, err := parseTimeToMinutes(schedule.EndTime)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.GetActiveByCleanerAndDate(ctx, cleaner.ID, date, nil)
	if err != nil {
		return nil, err
	}

	type interval struct{ start, end int }
	busy := make([]interval, 0, len(jobs))
	for _, job := range jobs {
		jobStart, err := parseTimeToMinutes(job.ScheduledTime)
		if err != nil {
			return nil, err
		}
		busy = append(busy, interval{jobStart, jobStart + job.EstimatedDurationMinutes})
	}

	for start := schedStart; start+durationMinutes <= schedEnd; start += slotGranularityMinutes {
		end := start + durationMinutes
		conflict := false
		for _, b := range busy {
			if start < b.end && end > b.start {
				conflict = true
				break
			}
		}
		if !conflict {
			slots = append(slots, TimeSlot{
				StartTime: formatMinutes(start),
				EndTime:   formatMinutes(end),
			})
		}
	}

	return slots, nil
}

// GetCleanerAvailabilitySummary lists free slots per day for the next
// N days starting tomorrow.
func (s *AvailabilityService) GetCleanerAvailabilitySummary(
	ctx context.Context,
	cleanerID uuid.UUID,
	days int,
	durationMinutes int,
) ([]DayAvailability, error) {
	log := s.log.Function("GetCleanerAvailabilitySummary")

	if days <= 0 || days > 31 {
		return nil, log.ErrorWithType(ErrValidation, "days must be between 1 and 31", "days", days)
	}

	summary := make([]DayAvailability, 0, days)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 1; i <= days; i++ {
		date := today.AddDate(0, 0, i)
		slots, err := s.GetAvailableTimeSlots(ctx, cleanerID, date, durationMinutes)
		if err != nil {
			return nil, err
		}
		summary = append(summary, DayAvailability{Date: date, Slots: slots})
	}

	return summary, nil
}

func validateTimeRequest(startTime string, durationMinutes int) error {
	if _, err := parseTimeToMinutes(startTime); err != nil {
		return err
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	return nil
}

// parseTimeToMinutes converts "HH:MM" to minutes since midnight.
func parseTimeToMinutes(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hours*60 + minutes, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
