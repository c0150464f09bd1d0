package services

import (
	"context"

	. "freshnest/internal/models"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CompletionSummary struct {
	TotalTasks       int `json:"totalTasks"`
	PriorityTasks    int `json:"priorityTasks"`
	TotalTimeMinutes int `json:"totalTimeMinutes"`
	RoomCount        int `json:"roomCount"`
}

// ChecklistService snapshots the task library into a per-job checklist
// at booking time. The snapshot is immutable: later edits to tasks or
// settings never change what was promised for a booked job.
type ChecklistService struct {
	checklistRepo repositories.ChecklistRepository
	taskRepo      repositories.TaskRepository
	log           logger.Logger
}

func NewChecklistService(
	checklistRepo repositories.ChecklistRepository,
	taskRepo repositories.TaskRepository,
) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		taskRepo:      taskRepo,
		log:           logger.New("checklistService"),
	}
}

// CreateChecklist copies the active tasks' current name, room and
// minutes into checklist rows. Unknown and inactive ids are dropped; if
// nothing valid remains the booking cannot proceed. Runs inside the
// booking transaction via the caller's context.
func (s *ChecklistService) CreateChecklist(
	ctx context.Context,
	jobID uuid.UUID,
	taskIDs []uuid.UUID,
) (*Checklist, error) {
	log := s.log.Function("CreateChecklist")

	tasks, err := s.taskRepo.GetByIDs(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	items := make([]ChecklistItem, 0, len(taskIDs))
	totalMinutes := 0
	for _, taskID := range taskIDs {
		task, ok := tasks[taskID]
		if !ok || !task.IsActive {
			log.Debug("dropping unknown or inactive task from checklist", "taskID", taskID)
			continue
		}
		items = append(items, ChecklistItem{
			Room:       task.RoomType,
			TaskName:   task.Name,
			Minutes:    task.EffortMinutes,
			IsPriority: task.IsPriority,
		})
		totalMinutes += task.EffortMinutes
	}

	if len(items) == 0 {
		return nil, log.ErrorWithType(ErrValidation, "no valid tasks for checklist", "jobID", jobID)
	}

	checklist := &Checklist{
		JobID:            jobID,
		Items:            datatypes.NewJSONSlice(items),
		TotalTasks:       len(items),
		TotalTimeMinutes: totalMinutes,
	}

	return s.checklistRepo.Create(ctx, checklist)
}

func (s *ChecklistService) GetByJobID(ctx context.Context, jobID uuid.UUID) (*Checklist, error) {
	log := s.log.Function("GetByJobID")

	checklist, err := s.checklistRepo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, log.ErrorWithType(ErrNotFound, "checklist not found", "jobID", jobID)
	}

	return checklist, nil
}

// GetCompletionSummary aggregates over the snapshot items only.
func (s *ChecklistService) GetCompletionSummary(ctx context.Context, jobID uuid.UUID) (*CompletionSummary, error) {
	checklist, err := s.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	summary := &CompletionSummary{
		TotalTasks:       checklist.TotalTasks,
		TotalTimeMinutes: checklist.TotalTimeMinutes,
	}
	rooms := make(map[string]struct{})
	for _, item := range checklist.Items {
		if item.IsPriority {
			summary.PriorityTasks++
		}
		rooms[item.Room] = struct{}{}
	}
	summary.RoomCount = len(rooms)

	return summary, nil
}
