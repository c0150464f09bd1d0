package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChecklistItem is one snapshotted task line. Fields are copied from the
// task library at booking time and never re-derived.
type ChecklistItem struct {
	Room       string `json:"room"`
	TaskName   string `json:"taskName"`
	Minutes    int    `json:"minutes"`
	IsPriority bool   `json:"isPriority"`
}

// Checklist is the immutable per-job task snapshot, 1:1 with Job. Later
// edits to the task library leave historical checklists untouched.
type Checklist struct {
	BaseUUIDModel
	JobID            uuid.UUID                          `gorm:"type:uuid;uniqueIndex;not null" json:"jobId"`
	Items            datatypes.JSONSlice[ChecklistItem] `gorm:"type:jsonb"                     json:"items"`
	TotalTasks       int                                `gorm:"not null"                       json:"totalTasks"`
	TotalTimeMinutes int                                `gorm:"not null"                       json:"totalTimeMinutes"`
}
