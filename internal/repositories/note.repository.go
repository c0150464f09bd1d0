package repositories

import (
	"context"

	contextutil "freshnest/internal/context"
	"freshnest/internal/database"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository interface {
	Create(ctx context.Context, note *Note) (*Note, error)
	GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Note, error)
}

type noteRepository struct {
	db  database.DB
	log logger.Logger
}

func NewNoteRepository(db database.DB) NoteRepository {
	return &noteRepository{
		db:  db,
		log: logger.New("noteRepository"),
	}
}

func (r *noteRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextutil.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *noteRepository) Create(ctx context.Context, note *Note) (*Note, error) {
	log := r.log.Function("Create")

	if err := r.getDB(ctx).Create(note).Error; err != nil {
		return nil, log.Err("failed to create note", err, "entityType", note.EntityType, "entityID", note.EntityID)
	}

	return note, nil
}

func (r *noteRepository) GetByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]*Note, error) {
	log := r.log.Function("GetByEntity")

	var notes []*Note
	if err := r.getDB(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at desc").
		Find(&notes).Error; err != nil {
		return nil, log.Err("failed to get notes by entity", err, "entityType", entityType, "entityID", entityID)
	}

	return notes, nil
}
