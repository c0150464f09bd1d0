package services

import (
	"context"
	"testing"
	"time"

	. "freshnest/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zoneCleaner(rating float64, jobsCompleted int) *Cleaner {
	cleaner := weekdayCleaner()
	cleaner.RatingAverage = rating
	cleaner.RatingCount = jobsCompleted
	cleaner.JobsCompleted = jobsCompleted
	return cleaner
}

func newTestMatchingService(cleanerRepo *stubCleanerRepo, jobRepo *stubJobRepo) *MatchingService {
	availability := NewAvailabilityService(cleanerRepo, jobRepo)
	return NewMatchingService(cleanerRepo, jobRepo, availability)
}

func TestScoreCleaner(t *testing.T) {
	tests := []struct {
		name      string
		cleaner   *Cleaner
		available bool
		preferred bool
		upcoming  int
		want      int
	}{
		{
			name:      "available top rated veteran",
			cleaner:   zoneCleaner(5.0, 200),
			available: true,
			want:      80, // 50 + 20 + 10
		},
		{
			name:      "preferred and available",
			cleaner:   zoneCleaner(4.0, 30),
			available: true,
			preferred: true,
			want:      99, // 50 + 30 + 16 + 3
		},
		{
			name:     "unavailable still scored",
			cleaner:  zoneCleaner(4.5, 50),
			upcoming: 1,
			want:     21, // 18 + 5 - 2
		},
		{
			name:      "load penalty caps at 10",
			cleaner:   zoneCleaner(0, 0),
			available: true,
			upcoming:  20,
			want:      40, // 50 - 10
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCleaner(tt.cleaner, tt.available, tt.preferred, tt.upcoming)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchReason(t *testing.T) {
	tests := []struct {
		name      string
		cleaner   *Cleaner
		available bool
		preferred bool
		want      string
	}{
		{"preferred wins over rating", zoneCleaner(5.0, 200), true, true, "Customer preferred"},
		{"top rated", zoneCleaner(4.5, 10), true, false, "Top rated"},
		{"highly rated", zoneCleaner(4.0, 10), true, false, "Highly rated"},
		{"very experienced", zoneCleaner(3.0, 100), true, false, "Very experienced"},
		{"experienced", zoneCleaner(3.0, 50), true, false, "Experienced"},
		{"available only", zoneCleaner(3.0, 10), true, false, "Available"},
		{"nothing notable", zoneCleaner(3.0, 10), false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchReason(tt.cleaner, tt.available, tt.preferred))
		})
	}
}

func TestFindBestCleaner_RankedDescending(t *testing.T) {
	ctx := context.Background()
	zoneID := uuid.New()

	strong := zoneCleaner(4.9, 120)
	middling := zoneCleaner(4.0, 20)
	busy := zoneCleaner(4.8, 80)

	cleanerRepo := newStubCleanerRepo(strong, middling, busy)
	cleanerRepo.byZone[zoneID] = []*Cleaner{middling, busy, strong}

	// busy is double-booked at the requested slot.
	jobRepo := &stubJobRepo{jobs: []*Job{{
		BaseUUIDModel:            BaseUUIDModel{ID: uuid.New()},
		CleanerID:                &busy.ID,
		Status:                   JobScheduled,
		ScheduledDate:            testWednesday,
		ScheduledTime:            "09:00",
		EstimatedDurationMinutes: 180,
	}}}

	service := newTestMatchingService(cleanerRepo, jobRepo)
	matches, err := service.FindBestCleaner(ctx, MatchingCriteria{
		ZoneID:          zoneID,
		Date:            testWednesday,
		StartTime:       "10:00",
		DurationMinutes: 120,
	})
	require.NoError(t, err)
	require.Len(t, matches, 3)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}

	assert.Equal(t, strong.ID, matches[0].Cleaner.ID)
	assert.True(t, matches[0].IsAvailable)

	// The busy cleaner appears in the ranking with the conflict reason.
	var busyMatch *CleanerMatch
	for i := range matches {
		if matches[i].Cleaner.ID == busy.ID {
			busyMatch = &matches[i]
		}
	}
	require.NotNil(t, busyMatch)
	assert.False(t, busyMatch.IsAvailable)
	assert.Equal(t, "cleaner has conflicting booking", busyMatch.Reason)
}

func TestFindBestCleaner_EmptyZone(t *testing.T) {
	ctx := context.Background()
	service := newTestMatchingService(newStubCleanerRepo(), &stubJobRepo{})

	matches, err := service.FindBestCleaner(ctx, MatchingCriteria{
		ZoneID:          uuid.New(),
		Date:            testWednesday,
		StartTime:       "10:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGetBestMatch_SkipsUnavailable(t *testing.T) {
	ctx := context.Background()
	zoneID := uuid.New()

	// Preferred cleaner outscores everyone but is blocked on the date,
	// so the best match falls to the available cleaner.
	preferred := zoneCleaner(5.0, 200)
	preferred.BlockedDates = []CleanerBlockedDate{{BlockedDate: testWednesday}}
	fallback := zoneCleaner(4.2, 30)

	cleanerRepo := newStubCleanerRepo(preferred, fallback)
	cleanerRepo.byZone[zoneID] = []*Cleaner{preferred, fallback}
	service := newTestMatchingService(cleanerRepo, &stubJobRepo{})

	match, err := service.GetBestMatch(ctx, MatchingCriteria{
		ZoneID:             zoneID,
		Date:               testWednesday,
		StartTime:          "10:00",
		DurationMinutes:    120,
		PreferredCleanerID: &preferred.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, fallback.ID, match.Cleaner.ID)
}

func TestGetBestMatch_NobodyAvailable(t *testing.T) {
	ctx := context.Background()
	zoneID := uuid.New()

	cleaner := zoneCleaner(4.0, 10)
	cleanerRepo := newStubCleanerRepo(cleaner)
	cleanerRepo.byZone[zoneID] = []*Cleaner{cleaner}
	service := newTestMatchingService(cleanerRepo, &stubJobRepo{})

	match, err := service.GetBestMatch(ctx, MatchingCriteria{
		ZoneID:          zoneID,
		Date:            time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC), // Sunday
		StartTime:       "10:00",
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestGetPreferredCleaner(t *testing.T) {
	ctx := context.Background()
	memberID := uuid.New()
	zoneID := uuid.New()
	cleanerID := uuid.New()

	completed := func(cleaner uuid.UUID, stars int) *Job {
		return &Job{
			BaseUUIDModel: BaseUUIDModel{ID: uuid.New()},
			MemberID:      memberID,
			CleanerID:     &cleaner,
			Status:        JobCompleted,
			Rating:        &Rating{Stars: stars},
		}
	}

	t.Run("highly rated recent cleaner", func(t *testing.T) {
		cleanerRepo := newStubCleanerRepo()
		cleanerRepo.zones[cleanerID] = map[uuid.UUID]bool{zoneID: true}
		jobRepo := &stubJobRepo{jobs: []*Job{completed(cleanerID, 5)}}
		service := newTestMatchingService(cleanerRepo, jobRepo)

		got, err := service.GetPreferredCleaner(ctx, memberID, zoneID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, cleanerID, *got)
	})

	t.Run("low rating ignored", func(t *testing.T) {
		cleanerRepo := newStubCleanerRepo()
		cleanerRepo.zones[cleanerID] = map[uuid.UUID]bool{zoneID: true}
		jobRepo := &stubJobRepo{jobs: []*Job{completed(cleanerID, 3)}}
		service := newTestMatchingService(cleanerRepo, jobRepo)

		got, err := service.GetPreferredCleaner(ctx, memberID, zoneID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("cleaner left the zone", func(t *testing.T) {
		cleanerRepo := newStubCleanerRepo()
		jobRepo := &stubJobRepo{jobs: []*Job{completed(cleanerID, 5)}}
		service := newTestMatchingService(cleanerRepo, jobRepo)

		got, err := service.GetPreferredCleaner(ctx, memberID, zoneID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
