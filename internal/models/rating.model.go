package models

import "github.com/google/uuid"

// Rating is a one-per-job review. The unique index on JobID is the
// guard against concurrent double-rating, not just the application-level
// pre-check.
type Rating struct {
	BaseUUIDModel
	JobID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"jobId"`
	CleanerID uuid.UUID `gorm:"type:uuid;not null;index"       json:"cleanerId"`
	MemberID  uuid.UUID `gorm:"type:uuid;not null;index"       json:"memberId"`
	Stars     int       `gorm:"not null"                       json:"stars"`
	Review    string    `gorm:"type:text"                      json:"review"`
}
