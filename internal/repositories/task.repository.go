package repositories

import (
	"context"
	"time"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TASK_CATALOG_CACHE_KEY    = "task_catalog"
	TASK_CATALOG_CACHE_EXPIRY = 15 * time.Minute
)

type TaskRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Task, error)
	GetByRoomType(ctx context.Context, roomType string) ([]*Task, error)
	GetAllActive(ctx context.Context) ([]*Task, error)
	Create(ctx context.Context, task *Task) (*Task, error)
	Update(ctx context.Context, task *Task) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type taskRepository struct {
	db  database.DB
	log logger.Logger
}

func NewTaskRepository(db database.DB) TaskRepository {
	return &taskRepository{
		db:  db,
		log: logger.New("taskRepository"),
	}
}

func (r *taskRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	log := r.log.Function("GetByID")

	var task Task
	if err := r.getDB(ctx).First(&task, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to get task by ID", err, "id", id)
	}

	return &task, nil
}

func (r *taskRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Task, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return make(map[uuid.UUID]*Task), nil
	}

	var tasks []*Task
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get tasks by IDs", err, "count", len(ids))
	}

	result := make(map[uuid.UUID]*Task, len(tasks))
	for _, task := range tasks {
		result[task.ID] = task
	}

	return result, nil
}

func (r *taskRepository) GetByRoomType(ctx context.Context, roomType string) ([]*Task, error) {
	log := r.log.Function("GetByRoomType")

	var tasks []*Task
	if err := r.getDB(ctx).
		Where("room_type = ? AND is_active = ?", roomType, true).
		Order("default_order asc").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get tasks by room type", err, "roomType", roomType)
	}

	return tasks, nil
}

func (r *taskRepository) GetAllActive(ctx context.Context) ([]*Task, error) {
	log := r.log.Function("GetAllActive")

	var cached []*Task
	found, err := database.NewCacheBuilder(r.db.Cache.Catalog, TASK_CATALOG_CACHE_KEY).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get task catalog from cache", "error", err)
	}
	if found {
		return cached, nil
	}

	var tasks []*Task
	if err := r.getDB(ctx).
		Where("is_active = ?", true).
		Order("room_type asc, default_order asc").
		Find(&tasks).Error; err != nil {
		return nil, log.Err("failed to get active tasks", err)
	}

	if err := database.NewCacheBuilder(r.db.Cache.Catalog, TASK_CATALOG_CACHE_KEY).
		WithContext(ctx).
		WithStruct(tasks).
		WithTTL(TASK_CATALOG_CACHE_EXPIRY).
		Set(); err != nil {
		log.Warn("failed to cache task catalog", "error", err)
	}

	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *Task) (*Task, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(task).Error; err != nil {
		return nil, log.Err("failed to create task", err, "name", task.Name)
	}

	r.invalidateCatalog(ctx, log)
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *Task) error {
	log := r.log.Function("Update")

	if err := r.getDB(ctx).Save(task).Error; err != nil {
		return log.Err("failed to update task", err, "id", task.ID)
	}

	r.invalidateCatalog(ctx, log)
	return nil
}

func (r *taskRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Deactivate")

	result := r.getDB(ctx).Model(&Task{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return log.Err("failed to deactivate task", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.invalidateCatalog(ctx, log)
	return nil
}

func (r *taskRepository) invalidateCatalog(ctx context.Context, log logger.Logger) {
	if err := database.NewCacheBuilder(r.db.Cache.Catalog, TASK_CATALOG_CACHE_KEY).
		WithContext(ctx).
		Delete(); err != nil {
		log.Warn("failed to invalidate task catalog cache", "error", err)
	}
}
