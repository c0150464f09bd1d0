package models

import "github.com/google/uuid"

// Note is an audit-trail entry attached to any entity by type and id.
// Note writes are best-effort: a failed note never fails the primary
// operation.
type Note struct {
	BaseUUIDModel
	EntityType string    `gorm:"type:text;not null;index:idx_notes_entity" json:"entityType"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_notes_entity" json:"entityId"`
	Content    string    `gorm:"type:text;not null"                        json:"content"`
	CreatedBy  string    `gorm:"type:text;not null"                        json:"createdBy"`
}
