package bookingController

import (
	"context"
	"testing"
	"time"

	"freshnest/config"
	"freshnest/internal/database"
	"freshnest/internal/events"
	. "freshnest/internal/models"
	"freshnest/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type memberRepoStub struct {
	members map[uuid.UUID]*Member
}

func (r *memberRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.members[id], nil
}

func (r *memberRepoStub) GetByEmail(ctx context.Context, email string) (*Member, error) {
	for _, member := range r.members {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, nil
}

func (r *memberRepoStub) Create(ctx context.Context, member *Member) (*Member, error) {
	r.members[member.ID] = member
	return member, nil
}

func (r *memberRepoStub) Update(ctx context.Context, member *Member) error {
	r.members[member.ID] = member
	return nil
}

func (r *memberRepoStub) UpdateTier(ctx context.Context, id uuid.UUID, tier MemberTier) error {
	if member, ok := r.members[id]; ok {
		member.Tier = tier
	}
	return nil
}

type zoneRepoStub struct {
	zones []*Zone
}

func (r *zoneRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*Zone, error) {
	for _, zone := range r.zones {
		if zone.ID == id {
			return zone, nil
		}
	}
	return nil, nil
}

func (r *zoneRepoStub) GetByZipCode(ctx context.Context, zipCode string) (*Zone, error) {
	for _, zone := range r.zones {
		for _, zip := range zone.ZipCodes {
			if zip == zipCode {
				return zone, nil
			}
		}
	}
	return nil, nil
}

func (r *zoneRepoStub) GetAll(ctx context.Context) ([]*Zone, error) {
	return r.zones, nil
}

func (r *zoneRepoStub) Create(ctx context.Context, zone *Zone) (*Zone, error) {
	r.zones = append(r.zones, zone)
	return zone, nil
}

func (r *zoneRepoStub) Update(ctx context.Context, zone *Zone) error {
	return nil
}

type cleanerRepoStub struct {
	cleaners map[uuid.UUID]*Cleaner
	byZone   map[uuid.UUID][]*Cleaner
}

func (r *cleanerRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	return r.cleaners[id], nil
}

func (r *cleanerRepoStub) GetByIDWithAvailability(ctx context.Context, id uuid.UUID) (*Cleaner, error) {
	return r.cleaners[id], nil
}

func (r *cleanerRepoStub) GetActiveByZone(ctx context.Context, zoneID uuid.UUID) ([]*Cleaner, error) {
	return r.byZone[zoneID], nil
}

func (r *cleanerRepoStub) Create(ctx context.Context, cleaner *Cleaner) (*Cleaner, error) {
	r.cleaners[cleaner.ID] = cleaner
	return cleaner, nil
}

func (r *cleanerRepoStub) Update(ctx context.Context, cleaner *Cleaner) error {
	return nil
}

func (r *cleanerRepoStub) IncrementJobsCompleted(ctx context.Context, id uuid.UUID) error {
	if cleaner, ok := r.cleaners[id]; ok {
		cleaner.JobsCompleted++
	}
	return nil
}

func (r *cleanerRepoStub) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	if cleaner, ok := r.cleaners[id]; ok {
		cleaner.RatingAverage = average
		cleaner.RatingCount = count
	}
	return nil
}

func (r *cleanerRepoStub) ServicesZone(ctx context.Context, cleanerID, zoneID uuid.UUID) (bool, error) {
	for _, cleaner := range r.byZone[zoneID] {
		if cleaner.ID == cleanerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *cleanerRepoStub) AddZone(ctx context.Context, cleanerID, zoneID uuid.UUID) error {
	r.byZone[zoneID] = append(r.byZone[zoneID], r.cleaners[cleanerID])
	return nil
}

func (r *cleanerRepoStub) AddSchedule(ctx context.Context, schedule *CleanerSchedule) error {
	cleaner := r.cleaners[schedule.CleanerID]
	cleaner.Schedules = append(cleaner.Schedules, *schedule)
	return nil
}

func (r *cleanerRepoStub) AddBlockedDate(ctx context.Context, blocked *CleanerBlockedDate) error {
	cleaner := r.cleaners[blocked.CleanerID]
	cleaner.BlockedDates = append(cleaner.BlockedDates, *blocked)
	return nil
}

type jobRepoStub struct {
	jobs      []*Job
	createErr error
	updateErr error
}

func (r *jobRepoStub) Create(ctx context.Context, job *Job) (*Job, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	r.jobs = append(r.jobs, job)
	return job, nil
}

func (r *jobRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	for _, job := range r.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, nil
}

func (r *jobRepoStub) GetByIDWithDetails(ctx context.Context, id uuid.UUID) (*Job, error) {
	return r.GetByID(ctx, id)
}

func (r *jobRepoStub) Update(ctx context.Context, job *Job) error {
	return r.updateErr
}

func (r *jobRepoStub) GetActiveByCleanerAndDate(
	ctx context.Context,
	cleanerID uuid.UUID,
	date time.Time,
	excludeJobID *uuid.UUID,
) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.CleanerID == nil || *job.CleanerID != cleanerID || !job.ScheduledDate.Equal(date) {
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

func (r *jobRepoStub) CountUpcomingByCleaner(ctx context.Context, cleanerID uuid.UUID) (int, error) {
	count := 0
	for _, job := range r.jobs {
		if job.CleanerID != nil && *job.CleanerID == cleanerID && job.Status == JobScheduled {
			count++
		}
	}
	return count, nil
}

func (r *jobRepoStub) GetUpcomingByMember(ctx context.Context, memberID uuid.UUID) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.MemberID == memberID && job.Status == JobScheduled {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *jobRepoStub) GetPastByMember(ctx context.Context, memberID uuid.UUID, limit int) ([]*Job, error) {
	var out []*Job
	for _, job := range r.jobs {
		if job.MemberID == memberID && job.Status.Terminal() {
			out = append(out, job)
		}
	}
	return out, nil
}

func (r *jobRepoStub) GetUnpaidCompleted(ctx context.Context, periodStart, periodEnd time.Time) ([]*Job, error) {
	return nil, nil
}

func (r *jobRepoStub) StampPayoutBatch(ctx context.Context, jobIDs []uuid.UUID, batchID uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *jobRepoStub) GetByPayoutBatch(ctx context.Context, batchID uuid.UUID) ([]*Job, error) {
	return nil, nil
}

func (r *jobRepoStub) CountCompletedByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	return 0, nil
}

type ratingRepoStub struct {
	ratings []*Rating
}

func (r *ratingRepoStub) Create(ctx context.Context, rating *Rating) (*Rating, error) {
	for _, existing := range r.ratings {
		if existing.JobID == rating.JobID {
			return nil, &pgconn.PgError{Code: "23505"}
		}
	}
	r.ratings = append(r.ratings, rating)
	return rating, nil
}

func (r *ratingRepoStub) GetByJobID(ctx context.Context, jobID uuid.UUID) (*Rating, error) {
	for _, rating := range r.ratings {
		if rating.JobID == jobID {
			return rating, nil
		}
	}
	return nil, nil
}

func (r *ratingRepoStub) GetByCleanerID(ctx context.Context, cleanerID uuid.UUID, limit int) ([]*Rating, error) {
	var out []*Rating
	for _, rating := range r.ratings {
		if rating.CleanerID == cleanerID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (r *ratingRepoStub) AggregateByCleaner(ctx context.Context, cleanerID uuid.UUID) (float64, int, error) {
	total, count := 0, 0
	for _, rating := range r.ratings {
		if rating.CleanerID == cleanerID {
			total += rating.Stars
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(total) / float64(count), count, nil
}

type noteRepoStub struct {
	notes []*Note
}

func (r *noteRepoStub) Create(ctx context.Context, note *Note) (*Note, error) {
	r.notes = append(r.notes, note)
	return note, nil
}

func (r *noteRepoStub) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Note, error) {
	var out []*Note
	for _, note := range r.notes {
		if note.EntityType == entityType && note.EntityID == entityID {
			out = append(out, note)
		}
	}
	return out, nil
}

type settingRepoStub struct {
	settings map[string]*Setting
}

func (r *settingRepoStub) GetByKey(ctx context.Context, key string) (*Setting, error) {
	return r.settings[key], nil
}

func (r *settingRepoStub) GetByKeys(ctx context.Context, keys []string) (map[string]*Setting, error) {
	out := make(map[string]*Setting)
	for _, key := range keys {
		if setting, ok := r.settings[key]; ok {
			out[key] = setting
		}
	}
	return out, nil
}

func (r *settingRepoStub) GetByCategory(ctx context.Context, category string) ([]*Setting, error) {
	return nil, nil
}

func (r *settingRepoStub) GetAll(ctx context.Context) ([]*Setting, error) {
	return nil, nil
}

func (r *settingRepoStub) Create(ctx context.Context, setting *Setting) error {
	r.settings[setting.Key] = setting
	return nil
}

func (r *settingRepoStub) UpdateValue(ctx context.Context, key, value string) error {
	r.settings[key].Value = value
	return nil
}

type taskRepoStub struct {
	tasks map[uuid.UUID]*Task
}

func (r *taskRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	return r.tasks[id], nil
}

func (r *taskRepoStub) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Task, error) {
	out := make(map[uuid.UUID]*Task)
	for _, id := range ids {
		if task, ok := r.tasks[id]; ok {
			out[id] = task
		}
	}
	return out, nil
}

func (r *taskRepoStub) GetByRoomType(ctx context.Context, roomType string) ([]*Task, error) {
	return nil, nil
}

func (r *taskRepoStub) GetAllActive(ctx context.Context) ([]*Task, error) {
	var out []*Task
	for _, task := range r.tasks {
		if task.IsActive {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *taskRepoStub) Create(ctx context.Context, task *Task) (*Task, error) {
	r.tasks[task.ID] = task
	return task, nil
}

func (r *taskRepoStub) Update(ctx context.Context, task *Task) error {
	return nil
}

func (r *taskRepoStub) Deactivate(ctx context.Context, id uuid.UUID) error {
	return nil
}

type checklistRepoStub struct {
	byJob map[uuid.UUID]*Checklist
}

func (r *checklistRepoStub) Create(ctx context.Context, checklist *Checklist) (*Checklist, error) {
	r.byJob[checklist.JobID] = checklist
	return checklist, nil
}

func (r *checklistRepoStub) GetByJobID(ctx context.Context, jobID uuid.UUID) (*Checklist, error) {
	return r.byJob[jobID], nil
}

func (r *checklistRepoStub) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	delete(r.byJob, jobID)
	return nil
}

type bookingFixture struct {
	controller *BookingController
	eventBus   *events.EventBus
	member     *Member
	zone       *Zone
	cleaner    *Cleaner
	tasks      []*Task
	jobs       *jobRepoStub
	cleaners   *cleanerRepoStub
	ratings    *ratingRepoStub
	notes      *noteRepoStub
}

func pricingSettings() map[string]*Setting {
	values := map[string]string{
		SettingBaseFeeCents:            "2500",
		SettingPerMinuteCents:          "50",
		SettingPlatformFeePercent:      "15",
		SettingStripeFeePercent:        "2.9",
		SettingStripeFeeFixedCents:     "30",
		SettingModifierWeekendPercent:  "20",
		SettingModifierRushPercent:     "30",
		SettingModifierEcoPercent:      "10",
		SettingModifierPetPercent:      "15",
		SettingMinJobValueCents:        "5000",
		SettingTierSilverDiscount:      "5",
		SettingTierGoldDiscount:        "15",
		SettingTierDiamondDiscount:     "25",
		SettingTierSilverMonthlyCents:  "1900",
		SettingTierGoldMonthlyCents:    "4900",
		SettingTierDiamondMonthlyCents: "9900",
	}
	settings := make(map[string]*Setting, len(values))
	for key, value := range values {
		settings[key] = &Setting{Key: key, Value: value, ValueType: SettingTypeNumber}
	}
	return settings
}

func newBookingFixture(t *testing.T) *bookingFixture {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 10; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	db := database.DB{SQL: gormDB}

	member := &Member{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		FirstName:     "Sarah",
		LastName:      "Chen",
		Email:         "sarah@example.com",
		Tier:          TierGold,
		IsActive:      true,
	}
	zone := &Zone{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Name:          "North Scottsdale",
		ZipCodes:      []string{"85254", "85255"},
		Status:        ZoneActive,
	}
	cleaner := &Cleaner{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		FirstName:     "Maria",
		LastName:      "Garcia",
		Status:        CleanerActive,
		RatingAverage: 4.8,
	}
	for day := 0; day <= 6; day++ {
		cleaner.Schedules = append(cleaner.Schedules, CleanerSchedule{
			CleanerID:   cleaner.ID,
			DayOfWeek:   day,
			StartTime:   "08:00",
			EndTime:     "18:00",
			IsAvailable: true,
		})
	}

	kitchen := &Task{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Name:          "Scrub counters",
		RoomType:      "kitchen",
		EffortMinutes: 60,
		IsActive:      true,
	}
	bathroom := &Task{
		BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
		Name:          "Clean shower",
		RoomType:      "bathroom",
		EffortMinutes: 60,
		IsActive:      true,
	}

	memberRepo := &memberRepoStub{members: map[uuid.UUID]*Member{member.ID: member}}
	zoneRepo := &zoneRepoStub{zones: []*Zone{zone}}
	cleanerRepo := &cleanerRepoStub{
		cleaners: map[uuid.UUID]*Cleaner{cleaner.ID: cleaner},
		byZone:   map[uuid.UUID][]*Cleaner{zone.ID: {cleaner}},
	}
	jobRepo := &jobRepoStub{}
	ratingRepo := &ratingRepoStub{}
	noteRepo := &noteRepoStub{}
	settingRepo := &settingRepoStub{settings: pricingSettings()}
	taskRepo := &taskRepoStub{tasks: map[uuid.UUID]*Task{kitchen.ID: kitchen, bathroom.ID: bathroom}}
	checklistRepo := &checklistRepoStub{byJob: map[uuid.UUID]*Checklist{}}

	settingsService := services.NewSettingsService(settingRepo)
	availability := services.NewAvailabilityService(cleanerRepo, jobRepo)
	eventBus := events.New(nil, config.Config{})

	controller := &BookingController{
		jobRepo:            jobRepo,
		memberRepo:         memberRepo,
		cleanerRepo:        cleanerRepo,
		zoneRepo:           zoneRepo,
		ratingRepo:         ratingRepo,
		noteRepo:           noteRepo,
		checklistService:   services.NewChecklistService(checklistRepo, taskRepo),
		effortCalculator:   services.NewEffortCalculatorService(taskRepo),
		pricingService:     services.NewPricingService(settingsService),
		matchingService:    services.NewMatchingService(cleanerRepo, jobRepo, availability),
		availability:       availability,
		tierService:        services.NewTierService(settingsService),
		transactionService: services.NewTransactionService(db),
		eventBus:           eventBus,
		db:                 db,
		log:                logger.New("bookingController"),
	}

	return &bookingFixture{
		controller: controller,
		eventBus:   eventBus,
		member:     member,
		zone:       zone,
		cleaner:    cleaner,
		tasks:      []*Task{kitchen, bathroom},
		jobs:       jobRepo,
		cleaners:   cleanerRepo,
		ratings:    ratingRepo,
		notes:      noteRepo,
	}
}

// nextWeekday returns the next date at least two weeks out that falls
// on a Monday, keeping weekend pricing out of the baseline cases.
func nextWeekday() time.Time {
	date := time.Now().UTC().AddDate(0, 0, 14)
	for date.Weekday() != time.Monday {
		date = date.AddDate(0, 0, 1)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

func (f *bookingFixture) createRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		MemberID:      f.member.ID,
		ZipCode:       "85254",
		AddressFull:   "123 Desert Rd",
		ScheduledDate: nextWeekday().Format("2006-01-02"),
		ScheduledTime: "10:00",
		TaskIDs:       []uuid.UUID{f.tasks[0].ID, f.tasks[1].ID},
	}
}

func TestCreateBooking_FullPipeline(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	received := make(chan events.Event, 1)
	require.NoError(t, f.eventBus.Subscribe(events.BOOKING_CREATED_CHANNEL, func(event events.Event) error {
		received <- event
		return nil
	}))

	response, err := f.controller.CreateBooking(ctx, f.createRequest(), "member:sarah")
	require.NoError(t, err)

	job := response.Job
	require.NotNil(t, job)
	assert.Equal(t, JobScheduled, job.Status)
	assert.Equal(t, f.member.ID, job.MemberID)
	require.NotNil(t, job.CleanerID)
	assert.Equal(t, f.cleaner.ID, *job.CleanerID)
	assert.Equal(t, 120, job.EstimatedDurationMinutes)

	// 2500 base + 120 min x 50 = 8500; gold 15% = 1275 off; 15% fee on
	// 7225 = 1084.
	assert.Equal(t, int64(8500), job.SubtotalCents)
	assert.Equal(t, int64(1275), job.TierDiscountCents)
	assert.Equal(t, int64(1084), job.PlatformFeeCents)
	assert.Equal(t, int64(8309), job.TotalCents)
	assert.Equal(t, int64(6141), job.CleanerPayoutCents)

	require.NotNil(t, response.Checklist)
	assert.Equal(t, 2, response.Checklist.TotalTasks)
	assert.Equal(t, 120, response.Checklist.TotalTimeMinutes)

	require.NotNil(t, response.Match)
	assert.True(t, response.Match.IsAvailable)

	require.Len(t, f.notes.notes, 1)
	assert.Equal(t, "member:sarah", f.notes.notes[0].CreatedBy)

	select {
	case event := <-received:
		assert.Equal(t, events.BOOKING_CREATED, event.Type)
		assert.Equal(t, job.ID.String(), event.Data["jobId"])
	case <-time.After(time.Second):
		t.Fatal("booking-created event was not delivered")
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*bookingFixture, *CreateBookingRequest)
		wantErr error
	}{
		{
			name:    "unknown member",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { r.MemberID = uuid.New() },
			wantErr: services.ErrNotFound,
		},
		{
			name:    "inactive member",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { f.member.IsActive = false },
			wantErr: services.ErrValidation,
		},
		{
			name:    "unserviced zip",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { r.ZipCode = "10001" },
			wantErr: services.ErrValidation,
		},
		{
			name:    "waitlist zone",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { f.zone.Status = ZoneWaitlist },
			wantErr: services.ErrValidation,
		},
		{
			name:    "past date",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { r.ScheduledDate = "2020-01-01" },
			wantErr: services.ErrValidation,
		},
		{
			name:    "malformed date",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { r.ScheduledDate = "Jan 1" },
			wantErr: services.ErrValidation,
		},
		{
			name:    "no tasks",
			mutate:  func(f *bookingFixture, r *CreateBookingRequest) { r.TaskIDs = nil },
			wantErr: services.ErrValidation,
		},
		{
			name: "free tier picks a cleaner",
			mutate: func(f *bookingFixture, r *CreateBookingRequest) {
				f.member.Tier = TierFree
				r.PreferredCleanerID = &f.cleaner.ID
			},
			wantErr: services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingFixture(t)
			request := f.createRequest()
			tt.mutate(f, request)

			_, err := f.controller.CreateBooking(ctx, request, "")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.jobs.jobs, "no job may be persisted on a rejected booking")
		})
	}
}

func TestCreateBooking_SilverTierMayPickCleaner(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	f.member.Tier = TierSilver

	request := f.createRequest()
	request.PreferredCleanerID = &f.cleaner.ID

	response, err := f.controller.CreateBooking(ctx, request, "")
	require.NoError(t, err)
	require.NotNil(t, response.Job.CleanerID)
	assert.Equal(t, f.cleaner.ID, *response.Job.CleanerID)
}

func TestCreateBooking_NoCleanerAvailable(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	f.cleaner.BlockedDates = []CleanerBlockedDate{{BlockedDate: nextWeekday()}}

	_, err := f.controller.CreateBooking(ctx, f.createRequest(), "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestCreateBooking_ConcurrentSlotConflict(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	// The database exclusion constraint fires when another booking wins
	// the same slot inside the transaction.
	f.jobs.createErr = &pgconn.PgError{Code: "23P01"}

	_, err := f.controller.CreateBooking(ctx, f.createRequest(), "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func scheduledJob(f *bookingFixture) *Job {
	job := &Job{
		BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
		MemberID:                 f.member.ID,
		CleanerID:                &f.cleaner.ID,
		ZoneID:                   f.zone.ID,
		Status:                   JobScheduled,
		ScheduledDate:            nextWeekday(),
		ScheduledTime:            "10:00",
		EstimatedDurationMinutes: 120,
	}
	f.jobs.jobs = append(f.jobs.jobs, job)
	return job
}

func TestStartJob(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)

	started, err := f.controller.StartJob(ctx, job.ID, "cleaner:maria")
	require.NoError(t, err)
	assert.Equal(t, JobInProgress, started.Status)
	require.NotNil(t, started.StartedAt)

	// Already in progress.
	_, err = f.controller.StartJob(ctx, job.ID, "")
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = f.controller.StartJob(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCompleteJob(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)

	// Scheduled jobs cannot skip straight to completed.
	_, err := f.controller.CompleteJob(ctx, job.ID, "")
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = f.controller.StartJob(ctx, job.ID, "")
	require.NoError(t, err)

	completed, err := f.controller.CompleteJob(ctx, job.ID, "cleaner:maria")
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 1, f.cleaner.JobsCompleted)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)

	cancelled, err := f.controller.CancelBooking(ctx, job.ID, "plans changed", "member:sarah")
	require.NoError(t, err)
	assert.Equal(t, JobCancelled, cancelled.Status)

	require.Len(t, f.notes.notes, 1)
	assert.Contains(t, f.notes.notes[0].Content, "plans changed")

	// Terminal jobs cannot be cancelled again.
	_, err = f.controller.CancelBooking(ctx, job.ID, "", "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestRescheduleBooking(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)
	newDate := nextWeekday().AddDate(0, 0, 1)

	rescheduled, err := f.controller.RescheduleBooking(ctx, job.ID, &RescheduleRequest{
		ScheduledDate: newDate.Format("2006-01-02"),
		ScheduledTime: "13:00",
	}, "member:sarah")
	require.NoError(t, err)
	assert.Equal(t, newDate, rescheduled.ScheduledDate)
	assert.Equal(t, "13:00", rescheduled.ScheduledTime)

	require.Len(t, f.notes.notes, 1)
	assert.Contains(t, f.notes.notes[0].Content, "Rescheduled from")
}

func TestRescheduleBooking_SameSlotAllowed(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)

	// Moving a job within its own occupied window must not collide with
	// itself.
	_, err := f.controller.RescheduleBooking(ctx, job.ID, &RescheduleRequest{
		ScheduledDate: job.ScheduledDate.Format("2006-01-02"),
		ScheduledTime: "10:30",
	}, "")
	require.NoError(t, err)
}

func TestRescheduleBooking_CleanerUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)
	newDate := nextWeekday().AddDate(0, 0, 1)
	f.cleaner.BlockedDates = []CleanerBlockedDate{{BlockedDate: newDate}}

	// The assigned cleaner stays assigned: an impossible slot fails the
	// reschedule instead of reassigning.
	_, err := f.controller.RescheduleBooking(ctx, job.ID, &RescheduleRequest{
		ScheduledDate: newDate.Format("2006-01-02"),
		ScheduledTime: "10:00",
	}, "")
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, nextWeekday(), job.ScheduledDate)
}

func TestRescheduleBooking_OnlyScheduled(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)
	job.Status = JobCompleted

	_, err := f.controller.RescheduleBooking(ctx, job.ID, &RescheduleRequest{
		ScheduledDate: nextWeekday().Format("2006-01-02"),
		ScheduledTime: "10:00",
	}, "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestRateJob(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)
	job.Status = JobCompleted

	rating, err := f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 5, Review: "spotless"}, "member:sarah")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Stars)
	assert.Equal(t, f.cleaner.ID, rating.CleanerID)

	// Cleaner aggregate is recomputed from all ratings.
	assert.Equal(t, 5.0, f.cleaner.RatingAverage)
	assert.Equal(t, 1, f.cleaner.RatingCount)

	// One rating per job.
	_, err = f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 1}, "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestRateJob_AggregateRounding(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	// Seed two prior ratings, then a third: (5+5+4)/3 = 4.666... which
	// is stored as 4.67.
	for _, stars := range []int{5, 5} {
		prior := scheduledJob(f)
		prior.Status = JobCompleted
		_, err := f.controller.RateJob(ctx, prior.ID, &RateJobRequest{Stars: stars}, "")
		require.NoError(t, err)
	}

	job := scheduledJob(f)
	job.Status = JobCompleted
	_, err := f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 4}, "")
	require.NoError(t, err)

	assert.Equal(t, 4.67, f.cleaner.RatingAverage)
	assert.Equal(t, 3, f.cleaner.RatingCount)
}

func TestRateJob_Validation(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	job := scheduledJob(f)

	_, err := f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 0}, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 6}, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	long := make([]byte, MaxReviewLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 5, Review: string(long)}, "")
	assert.ErrorIs(t, err, services.ErrValidation)

	// Still scheduled, not completed.
	_, err = f.controller.RateJob(ctx, job.ID, &RateJobRequest{Stars: 5}, "")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestGetCleanerSlots_DateValidation(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	_, err := f.controller.GetCleanerSlots(ctx, f.cleaner.ID, "not-a-date", 120)
	assert.ErrorIs(t, err, services.ErrValidation)

	slots, err := f.controller.GetCleanerSlots(ctx, f.cleaner.ID, nextWeekday().Format("2006-01-02"), 120)
	require.NoError(t, err)
	assert.NotEmpty(t, slots)
}

func TestGetJob(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	response, err := f.controller.CreateBooking(ctx, f.createRequest(), "")
	require.NoError(t, err)

	fetched, err := f.controller.GetJob(ctx, response.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, response.Job.ID, fetched.Job.ID)
	require.NotNil(t, fetched.Checklist)
	assert.Equal(t, 2, fetched.Checklist.TotalTasks)

	_, err = f.controller.GetJob(ctx, uuid.New())
	assert.ErrorIs(t, err, services.ErrNotFound)
}
