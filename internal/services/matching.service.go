package services

import (
	"context"
	"math"
	"sort"
	"time"

	. "freshnest/internal/models"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type MatchingCriteria struct {
	ZoneID             uuid.UUID  `json:"zoneId"`
	Date               time.Time  `json:"date"`
	StartTime          string     `json:"startTime"`
	DurationMinutes    int        `json:"durationMinutes"`
	PreferredCleanerID *uuid.UUID `json:"preferredCleanerId,omitempty"`
}

type CleanerMatch struct {
	Cleaner     *Cleaner `json:"cleaner"`
	Score       int      `json:"score"`
	IsAvailable bool     `json:"isAvailable"`
	Reason      string   `json:"reason,omitempty"`
	MatchReason string   `json:"matchReason"`
}

// MatchingService ranks zone cleaners for a requested slot. Scoring
// weights: availability 50, customer preference 30, rating up to 20,
// experience up to 10, minus a load penalty up to 10. Unavailable
// cleaners are still scored so callers can show the full ranking.
type MatchingService struct {
	cleanerRepo  repositories.CleanerRepository
	jobRepo      repositories.JobRepository
	availability *AvailabilityService
	log          logger.Logger
}

func NewMatchingService(
	cleanerRepo repositories.CleanerRepository,
	jobRepo repositories.JobRepository,
	availability *AvailabilityService,
) *MatchingService {
	return &MatchingService{
		cleanerRepo:  cleanerRepo,
		jobRepo:      jobRepo,
		availability: availability,
		log:          logger.New("matchingService"),
	}
}

// FindBestCleaner scores every active cleaner in the zone and returns
// them sorted by descending score.
func (s *MatchingService) FindBestCleaner(
	ctx context.Context,
	criteria MatchingCriteria,
) ([]CleanerMatch, error) {
	log := s.log.Function("FindBestCleaner")

	cleaners, err := s.cleanerRepo.GetActiveByZone(ctx, criteria.ZoneID)
	if err != nil {
		return nil, err
	}
	if len(cleaners) == 0 {
		log.Info("no active cleaners in zone", "zoneID", criteria.ZoneID)
		return []CleanerMatch{}, nil
	}

	matches := make([]CleanerMatch, 0, len(cleaners))
	for _, cleaner := range cleaners {
		available, reason, err := s.availability.CheckCleanerAvailability(
			ctx, cleaner, criteria.Date, criteria.StartTime, criteria.DurationMinutes, nil,
		)
		if err != nil {
			return nil, err
		}

		upcoming, err := s.jobRepo.CountUpcomingByCleaner(ctx, cleaner.ID)
		if err != nil {
			return nil, err
		}

		preferred := criteria.PreferredCleanerID != nil && *criteria.PreferredCleanerID == cleaner.ID
		score := scoreCleaner(cleaner, available, preferred, upcoming)

		matches = append(matches, CleanerMatch{
			Cleaner:     cleaner,
			Score:       score,
			IsAvailable: available,
			Reason:      reason,
			MatchReason: matchReason(cleaner, available, preferred),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches, nil
}

// GetBestMatch returns the highest-scored available cleaner, or nil
// when nobody can take the slot.
func (s *MatchingService) GetBestMatch(
	ctx context.Context,
	criteria MatchingCriteria,
) (*CleanerMatch, error) {
	matches, err := s.FindBestCleaner(ctx, criteria)
	if err != nil {
		return nil, err
	}

	for i := range matches {
		if matches[i].IsAvailable {
			return &matches[i], nil
		}
	}

	return nil, nil
}

// GetPreferredCleaner infers the member's preferred cleaner: the one
// from the most recent completed job rated 4 stars or better, provided
// that cleaner still services the zone.
func (s *MatchingService) GetPreferredCleaner(
	ctx context.Context,
	memberID uuid.UUID,
	zoneID uuid.UUID,
) (*uuid.UUID, error) {
	log := s.log.Function("GetPreferredCleaner")

	jobs, err := s.jobRepo.GetPastByMember(ctx, memberID, 20)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if job.Status != JobCompleted || job.CleanerID == nil {
			continue
		}
		if job.Rating == nil || job.Rating.Stars < 4 {
			continue
		}

		services, err := s.cleanerRepo.ServicesZone(ctx, *job.CleanerID, zoneID)
		if err != nil {
			return nil, err
		}
		if services {
			log.Debug("inferred preferred cleaner", "memberID", memberID, "cleanerID", *job.CleanerID)
			return job.CleanerID, nil
		}
	}

	return nil, nil
}

func scoreCleaner(cleaner *Cleaner, available, preferred bool, upcomingJobs int) int {
	score := 0.0
	if available {
		score += 50
	}
	if preferred {
		score += 30
	}

	score += cleaner.RatingAverage / 5 * 20
	score += math.Min(float64(cleaner.JobsCompleted)/10, 10)
	score -= math.Min(float64(2*upcomingJobs), 10)

	return int(math.Round(score))
}

func matchReason(cleaner *Cleaner, available, preferred bool) string {
	switch {
	case preferred:
		return "Customer preferred"
	case cleaner.RatingAverage >= 4.5:
		return "Top rated"
	case cleaner.RatingAverage >= 4.0:
		return "Highly rated"
	case cleaner.JobsCompleted >= 100:
		return "Very experienced"
	case cleaner.JobsCompleted >= 50:
		return "Experienced"
	case available:
		return "Available"
	default:
		return ""
	}
}
