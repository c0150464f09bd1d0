package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	. "freshnest/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCleanerRepo struct {
	cleaners map[uuid.UUID]*Cleaner
	byZone   map[uuid.UUID][]*Cleaner
	zones    map[uuid.UUID]map[uuid.UUID]bool
}

func newStubCleanerRepo(cleaners ...*Cleaner) *stubCleanerRepo {
	byID := make(map[uuid.UUID]*Cleaner, len(cleaners))
	for _, cleaner := range cleaners {
		byID[cleaner.ID] = cleaner
	}
	return &stubCleanerRepo{
		cleaners: byID,
		byZone:   map[uuid.UUID][]*Cleaner{},
		zones:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (r *stubCleanerRepo) GetByID(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	return r.cleaners[id], nil
}

func (r *stubCleanerRepo) GetByIDWithAvailability(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	return r.cleaners[id], nil
}

func (r *stubCleanerRepo) GetActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]*Cleaner, error) {
	return r.byZone[zoneID], nil
}

func (r *stubCleanerRepo) Create(ctx context.Context, cleaner *Cleaner) (*Cleaner, error) {
	r.cleaners[cleaner.ID] = cleaner
	return cleaner, nil
}

func (r *stubCleanerRepo) Update(ctx context.Context, cleaner *Cleaner) error {
	r.cleaners[cleaner.ID] = cleaner
	return nil
}

func (r *stubCleanerRepo) IncrementJobsCompleted(ctx context.Context, id uuid.UUID) error {
	if cleaner, ok := r.cleaners[id]; ok {
		cleaner.JobsCompleted++
	}
	return nil
}

func (r *stubCleanerRepo) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	if cleaner, ok := r.cleaners[id]; ok {
		cleaner.RatingAverage = average
		cleaner.RatingCount = count
	}
	return nil
}

func (r *stubCleanerRepo) ServicesZone(ctx context.Context, cleanerID, zoneID uuid.UUID) (bool, error) {
	return r.zones[cleanerID][zoneID], nil
}

func (r *stubCleanerRepo) AddZone(ctx context.Context, cleanerID, zoneID uuid.UUID) error {
	if r.zones[cleanerID] == nil {
		r.zones[cleanerID] = map[uuid.UUID]bool{}
	}
	r.zones[cleanerID][zoneID] = true
	return nil
}

func (r *stubCleanerRepo) AddSchedule(ctx context.Context, schedule *CleanerSchedule) error {
	cleaner := r.cleaners[schedule.CleanerID]
	cleaner.Schedules = append(cleaner.Schedules, *schedule)
	return nil
}

func (r *stubCleanerRepo) AddBlockedDate(ctx context.Context, blocked *CleanerBlockedDate) error {
	cleaner := r.cleaners[blocked.CleanerID]
	cleaner.BlockedDates = append(cleaner.BlockedDates, *blocked)
	return nil
}

type stubJobRepo struct {
	jobs          []*Job
	onBeforeStamp func()
}

func (r *stubJobRepo) Create(ctx context.Context, job *Job) (*Job, error) {
	r.jobs = append(r.jobs, job)
	return job, nil
}

func (r *stubJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	for _, job := range r.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, nil
}

func (r *stubJobRepo) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*Job, error) {
	return r.GetByID(ctx, id)
}

func (r *stubJobRepo) Update(ctx context.Context, job *Job) error {
	return nil
}

func (r *stubJobRepo) GetActiveByCleanerAndDate(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
	excludeJobID *uuid.UUID,
) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.CleanerID == nil || *job.CleanerID != cleanerID {
			continue
		}
		if !job.ScheduledDate.Equal(date) {
			continue
		}
		if job.Status != JobScheduled && job.Status != JobInProgress {
			continue
		}
		if excludeJobID != nil && job.ID == *excludeJobID {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (r *stubJobRepo) CountUpcomingByCleaner(ctx context.Context, cleanerID uuid.UUID) (int, error) {
	count := 0
	for _, job := range r.jobs {
		if job.CleanerID != nil && *job.CleanerID == cleanerID && job.Status == JobScheduled {
			count++
		}
	}
	return count, nil
}

func (r *stubJobRepo) GetUpcomingByMember(ctx context.Context, memberID uuid.UUID) ([]*Job, error) {
	return nil, nil
}

func (r *stubJobRepo) GetPastByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.MemberID == memberID {
			out = append(out, job)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubJobRepo) GetUnpaidCompleted(ctx context.Context, periodStart, periodEnd time.Time) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.Status != JobCompleted || job.PayoutBatchID != nil || job.CompletedAt == nil {
			continue
		}
		if job.CompletedAt.Before(periodStart) || !job.CompletedAt.Before(periodEnd) {
			continue
		}
		out = append(out, job)
	}
	return out, nil
}

func (r *stubJobRepo) StampPayoutBatch(ctx context.Context, jobIDs []uuid.UUID, batchID uuid.UUID) (int64, error) {
	if r.onBeforeStamp != nil {
		r.onBeforeStamp()
	}
	var stamped int64
	for _, id := range jobIDs {
		for _, job := range r.jobs {
			if job.ID == id && job.PayoutBatchID == nil {
				job.PayoutBatchID = &batchID
				stamped++
			}
		}
	}
	return stamped, nil
}

func (r *stubJobRepo) GetByPayoutBatch(ctx context.Context, batchID uuid.UUID) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.PayoutBatchID != nil && *job.PayoutBatchID == batchID {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *stubJobRepo) CountCompletedByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	count := 0
	for _, job := range r.jobs {
		if job.MemberID == memberID && job.Status == JobCompleted {
			count++
		}
	}
	return count, nil
}

func weekdayCleaner() *Cleaner {
	cleaner := &Cleaner{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		FirstName:     "Maria",
		LastName:      "Garcia",
		Status:        CleanerActive,
	}
	for day := 1; day <= 5; day++ {
		cleaner.Schedules = append(cleaner.Schedules, CleanerSchedule{
			CleanerID:   cleaner.ID,
			DayOfWeek:   day,
			StartTime:   "08:00",
			EndTime:     "17:00",
			IsAvailable: true,
		})
	}
	return cleaner
}

// 2026-09-02 is a Wednesday.
var testWednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func TestCheckCleanerAvailability_Available(t *testing.T) {
	ctx := context.Background()
	cleaner := weekdayCleaner()
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{})

	available, reason, err := service.CheckCleanerAvailability(ctx, cleaner, testWednesday, "10:00", 120, nil)
	require.NoError(t, err)
	assert.True(t, available)
	assert.Empty(t, reason)
}

func TestCheckCleanerAvailability_ShortCircuitOrder(t *testing.T) {
	ctx := context.Background()

	// Inactive and blocked on the same date: the first check wins, so
	// the reason reports inactivity.
	cleaner := weekdayCleaner()
	cleaner.Status = CleanerInactive
	cleaner.BlockedDates = []CleanerBlockedDate{{
		CleanerID:   cleaner.ID,
		BlockedDate: testWednesday,
	}}
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{})

	available, reason, err := service.CheckCleanerAvailability(ctx, cleaner, testWednesday, "10:00", 60, nil)
	require.NoError(t, err)
	assert.False(t, available)
	assert.Equal(t, "cleaner is not active", reason)
}

func TestCheckCleanerAvailability_Reasons(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mutate     func(*Cleaner, *stubJobRepo)
		date       time.Time
		startTime  string
		duration   int
		wantReason string
	}{
		{
			name:       "blocked date",
			mutate:     func(c *Cleaner, _ *stubJobRepo) { c.BlockedDates = []CleanerBlockedDate{{BlockedDate: testWednesday}} },
			date:       testWednesday,
			startTime:  "10:00",
			duration:   60,
			wantReason: "cleaner has blocked this date",
		},
		{
			name:       "day off",
			mutate:     func(c *Cleaner, _ *stubJobRepo) {},
			date:       time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), // Sunday
			startTime:  "10:00",
			duration:   60,
			wantReason: "cleaner does not work on Sunday",
		},
		{
			name:       "before working hours",
			mutate:     func(c *Cleaner, _ *stubJobRepo) {},
			date:       testWednesday,
			startTime:  "07:00",
			duration:   60,
			wantReason: "requested time outside working hours",
		},
		{
			name:       "overruns working hours",
			mutate:     func(c *Cleaner, _ *stubJobRepo) {},
			date:       testWednesday,
			startTime:  "16:30",
			duration:   60,
			wantReason: "requested time outside working hours",
		},
		{
			name: "conflicting booking",
			mutate: func(c *Cleaner, jobs *stubJobRepo) {
				jobs.jobs = append(jobs.jobs, &Job{
					BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
					CleanerID:                &c.ID,
					Status:                   JobScheduled,
					ScheduledDate:            testWednesday,
					ScheduledTime:            "10:00",
					EstimatedDurationMinutes: 120,
				})
			},
			date:       testWednesday,
			startTime:  "11:00",
			duration:   60,
			wantReason: "cleaner has conflicting booking",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := weekdayCleaner()
			jobRepo := &stubJobRepo{}
			tt.mutate(cleaner, jobRepo)
			service := NewAvailabilityService(newStubCleanerRepo(cleaner), jobRepo)

			available, reason, err := service.CheckCleanerAvailability(
				ctx, cleaner, tt.date, tt.startTime, tt.duration, nil)
			require.NoError(t, err)
			assert.False(t, available)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestCheckCleanerAvailability_ExcludeJobForReschedule(t *testing.T) {
	ctx := context.Background()
	cleaner := weekdayCleaner()
	existing := &Job{
		BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
		CleanerID:                &cleaner.ID,
		Status:                   JobScheduled,
		ScheduledDate:            testWednesday,
		ScheduledTime:            "10:00",
		EstimatedDurationMinutes: 120,
	}
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{jobs: []*Job{existing}})

	// The job's own slot conflicts unless excluded.
	available, _, err := service.CheckCleanerAvailability(ctx, cleaner, testWednesday, "10:30", 60, nil)
	require.NoError(t, err)
	assert.False(t, available)

	available, reason, err := service.CheckCleanerAvailability(ctx, cleaner, testWednesday, "10:30", 60, &existing.ID)
	require.NoError(t, err)
	assert.True(t, available)
	assert.Empty(t, reason)
}

func TestIntervalOverlapProperty(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		cleaner := &Cleaner{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			Status:        CleanerActive,
			Schedules: []CleanerSchedule{{
				DayOfWeek:   int(testWednesday.Weekday()),
				StartTime:   "00:00",
				EndTime:     "23:30",
				IsAvailable: true,
			}},
		}

		jobStart := rng.Intn(20) * 60
		jobDuration := (1 + rng.Intn(3)) * 60
		reqStart := rng.Intn(20) * 60
		reqDuration := (1 + rng.Intn(3)) * 60
		if reqStart+reqDuration > 23*60+30 || jobStart+jobDuration > 23*60+30 {
			continue
		}

		job := &Job{
			BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
			CleanerID:                &cleaner.ID,
			Status:                   JobScheduled,
			ScheduledDate:            testWednesday,
			ScheduledTime:            formatMinutes(jobStart),
			EstimatedDurationMinutes: jobDuration,
		}
		service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{jobs: []*Job{job}})

		available, _, err := service.CheckCleanerAvailability(
			ctx, cleaner, testWednesday, formatMinutes(reqStart), reqDuration, nil)
		require.NoError(t, err)

		overlaps := reqStart < jobStart+jobDuration && reqStart+reqDuration > jobStart
		assert.Equal(t, !overlaps, available,
			"req [%d,%d) vs job [%d,%d)", reqStart, reqStart+reqDuration, jobStart, jobStart+jobDuration)
	}
}

func TestGetAvailableTimeSlots(t *testing.T) {
	ctx := context.Background()
	cleaner := weekdayCleaner()
	booked := &Job{
		BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
		CleanerID:                &cleaner.ID,
		Status:                   JobScheduled,
		ScheduledDate:            testWednesday,
		ScheduledTime:            "10:00",
		EstimatedDurationMinutes: 120,
	}
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{jobs: []*Job{booked}})

	slots, err := service.GetAvailableTimeSlots(ctx, cleaner.ID, testWednesday, 120)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "10:00", slots[0].EndTime)

	for _, slot := range slots {
		start, err := parseTimeToMinutes(slot.StartTime)
		require.NoError(t, err)
		end := start + 120
		// No slot may overlap the 10:00-12:00 booking.
		assert.False(t, start < 12*60 && end > 10*60,
			"slot %s overlaps existing booking", slot.StartTime)
		// Every slot fits inside 08:00-17:00.
		assert.GreaterOrEqual(t, start, 8*60)
		assert.LessOrEqual(t, end, 17*60)
	}
}

func TestGetAvailableTimeSlots_InvalidDuration(t *testing.T) {
	ctx := context.Background()
	cleaner := weekdayCleaner()
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{})

	_, err := service.GetAvailableTimeSlots(ctx, cleaner.ID, testWednesday, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCleanerAvailabilitySummary_DaysRange(t *testing.T) {
	ctx := context.Background()
	cleaner := weekdayCleaner()
	service := NewAvailabilityService(newStubCleanerRepo(cleaner), &stubJobRepo{})

	for _, days := range []int{0, -1, 32} {
		_, err := service.GetCleanerAvailabilitySummary(ctx, cleaner.ID, days, 120)
		assert.ErrorIs(t, err, ErrValidation, "days=%d", days)
	}

	summary, err := service.GetCleanerAvailabilitySummary(ctx, cleaner.ID, 3, 120)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	assert.True(t, sameDay(summary[0].Date, tomorrow))
}

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:30", 510, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"08:60", 0, true},
		{"8am", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTimeToMinutes(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
