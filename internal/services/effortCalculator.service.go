package services

import (
	"context"
	"math"

	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// JobType presets scale the task catalog to a whole-home estimate.
type JobType string

const (
	JobTypeStandard JobType = "standard"
	JobTypeDeep     JobType = "deep"
	JobTypeMoveOut  JobType = "move_out"
)

// RoomSelection is a room's worth of requested tasks with a quantity
// (e.g. 3 bedrooms of the bedroom task set).
type RoomSelection struct {
	RoomType string      `json:"roomType"`
	TaskIDs  []uuid.UUID `json:"taskIds"`
	Quantity int         `json:"quantity"`
}

// EffortModifier adjusts effort either by a multiplier against the
// original base or by flat additional minutes.
type EffortModifier struct {
	Name              string  `json:"name"`
	Multiplier        float64 `json:"multiplier,omitempty"`
	AdditionalMinutes int     `json:"additionalMinutes,omitempty"`
}

type ModifierEffect struct {
	Name          string `json:"name"`
	EffectMinutes int    `json:"effectMinutes"`
}

type RoomEffort struct {
	RoomType      string `json:"roomType"`
	Quantity      int    `json:"quantity"`
	TaskCount     int    `json:"taskCount"`
	EffortMinutes int    `json:"effortMinutes"`
}

type EffortResult struct {
	BaseEffortMinutes     int              `json:"baseEffortMinutes"`
	ModifiedEffortMinutes int              `json:"modifiedEffortMinutes"`
	Modifiers             []ModifierEffect `json:"modifiers"`
	Breakdown             []RoomEffort     `json:"breakdown"`
}

// EffortCalculatorService turns task selections into estimated cleaning
// minutes. Modifier multipliers are additive against the original base:
// two 1.5x modifiers add 50% each, not 125% compounded.
type EffortCalculatorService struct {
	taskRepo repositories.TaskRepository
	log      logger.Logger
}

func NewEffortCalculatorService(taskRepo repositories.TaskRepository) *EffortCalculatorService {
	return &EffortCalculatorService{
		taskRepo: taskRepo,
		log:      logger.New("effortCalculatorService"),
	}
}

// CalculateEffort sums task minutes per room selection, then applies
// modifiers. Unknown or inactive task ids are dropped. Empty input
// yields a zero result.
func (s *EffortCalculatorService) CalculateEffort(
	ctx context.Context,
	rooms []RoomSelection,
	modifiers []EffortModifier,
) (*EffortResult, error) {
	log := s.log.Function("CalculateEffort")

	result := &EffortResult{
		Modifiers: []ModifierEffect{},
		Breakdown: []RoomEffort{},
	}
	if len(rooms) == 0 {
		return result, nil
	}

	allTaskIDs := make([]uuid.UUID, 0)
	for _, room := range rooms {
		allTaskIDs = append(allTaskIDs, room.TaskIDs...)
	}

	tasks, err := s.taskRepo.GetByIDs(ctx, allTaskIDs)
	if err != nil {
		return nil, log.Err("failed to load tasks for effort calculation", err)
	}

	base := 0
	for _, room := range rooms {
		quantity := room.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		roomMinutes := 0
		taskCount := 0
		for _, taskID := range room.TaskIDs {
			task, ok := tasks[taskID]
			if !ok || !task.IsActive {
				continue
			}
			roomMinutes += task.EffortMinutes
			taskCount++
		}

		roomEffort := roomMinutes * quantity
		base += roomEffort
		result.Breakdown = append(result.Breakdown, RoomEffort{
			RoomType:      room.RoomType,
			Quantity:      quantity,
			TaskCount:     taskCount,
			EffortMinutes: roomEffort,
		})
	}

	result.BaseEffortMinutes = base
	result.ModifiedEffortMinutes = applyModifiers(base, modifiers, result)

	return result, nil
}

// CalculateEffortFromTasks is the flat-list variant used by the public
// estimate endpoint, where the caller has no room grouping.
func (s *EffortCalculatorService) CalculateEffortFromTasks(
	ctx context.Context,
	taskIDs []uuid.UUID,
	modifiers []EffortModifier,
) (*EffortResult, error) {
	log := s.log.Function("CalculateEffortFromTasks")

	result := &EffortResult{
		Modifiers: []ModifierEffect{},
		Breakdown: []RoomEffort{},
	}
	if len(taskIDs) == 0 {
		return result, nil
	}

	tasks, err := s.taskRepo.GetByIDs(ctx, taskIDs)
	if err != nil {
		return nil, log.Err("failed to load tasks for effort calculation", err)
	}

	perRoom := make(map[string]*RoomEffort)
	order := make([]string, 0)
	base := 0
	for _, taskID := range taskIDs {
		task, ok := tasks[taskID]
		if !ok || !task.IsActive {
			continue
		}

		room, exists := perRoom[task.RoomType]
		if !exists {
			room = &RoomEffort{RoomType: task.RoomType, Quantity: 1}
			perRoom[task.RoomType] = room
			order = append(order, task.RoomType)
		}
		room.TaskCount++
		room.EffortMinutes += task.EffortMinutes
		base += task.EffortMinutes
	}

	for _, roomType := range order {
		result.Breakdown = append(result.Breakdown, *perRoom[roomType])
	}

	result.BaseEffortMinutes = base
	result.ModifiedEffortMinutes = applyModifiers(base, modifiers, result)

	return result, nil
}

// EstimateByJobType scales the full active catalog: standard covers the
// catalog once, deep at 1.5x, move-out at 1.75x.
func (s *EffortCalculatorService) EstimateByJobType(
	ctx context.Context,
	jobType JobType,
) (*EffortResult, error) {
	log := s.log.Function("EstimateByJobType")

	tasks, err := s.taskRepo.GetAllActive(ctx)
	if err != nil {
		return nil, log.Err("failed to load task catalog", err)
	}

	var factor float64
	switch jobType {
	case JobTypeStandard:
		factor = 1.0
	case JobTypeDeep:
		factor = 1.5
	case JobTypeMoveOut:
		factor = 1.75
	default:
		return nil, log.ErrorWithType(ErrValidation, "unknown job type", "jobType", jobType)
	}

	perRoom := make(map[string]*RoomEffort)
	order := make([]string, 0)
	base := 0
	for _, task := range tasks {
		room, exists := perRoom[task.RoomType]
		if !exists {
			room = &RoomEffort{RoomType: task.RoomType, Quantity: 1}
			perRoom[task.RoomType] = room
			order = append(order, task.RoomType)
		}
		room.TaskCount++
		room.EffortMinutes += task.EffortMinutes
		base += task.EffortMinutes
	}

	result := &EffortResult{
		BaseEffortMinutes: base,
		Modifiers:         []ModifierEffect{},
		Breakdown:         make([]RoomEffort, 0, len(order)),
	}
	for _, roomType := range order {
		result.Breakdown = append(result.Breakdown, *perRoom[roomType])
	}

	result.ModifiedEffortMinutes = int(math.Round(float64(base) * factor))

	return result, nil
}

// applyModifiers accumulates modifier effects as floats against the
// original base and rounds once at the end.
func applyModifiers(base int, modifiers []EffortModifier, result *EffortResult) int {
	modified := float64(base)
	for _, modifier := range modifiers {
		effect := 0.0
		if modifier.Multiplier > 0 {
			effect += float64(base) * (modifier.Multiplier - 1)
		}
		if modifier.AdditionalMinutes > 0 {
			effect += float64(modifier.AdditionalMinutes)
		}
		modified += effect
		result.Modifiers = append(result.Modifiers, ModifierEffect{
			Name:          modifier.Name,
			EffectMinutes: int(math.Round(effect)),
		})
	}

	return int(math.Round(modified))
}
