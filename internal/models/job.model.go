package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobScheduled  JobStatus = "SCHEDULED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobCancelled  JobStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobCancelled
}

// Job is the central transactional entity. Price fields are an immutable
// snapshot in integer cents taken at booking time; later setting changes
// never alter historical job prices. PayoutBatchID is stamped at most
// once, by the payout batcher, and only for completed jobs with an
// assigned cleaner.
type Job struct {
	BaseUUIDModel
	MemberID  uuid.UUID  `gorm:"type:uuid;not null;index"     json:"memberId"`
	Member    *Member    `gorm:"foreignKey:MemberID"          json:"member,omitempty"`
	CleanerID *uuid.UUID `gorm:"type:uuid;index"              json:"cleanerId"`
	Cleaner   *Cleaner   `gorm:"foreignKey:CleanerID"         json:"cleaner,omitempty"`
	ZoneID    uuid.UUID  `gorm:"type:uuid;not null;index"     json:"zoneId"`
	Status    JobStatus  `gorm:"type:text;default:'SCHEDULED';index" json:"status"`

	AddressFull string `gorm:"type:text" json:"addressFull"`
	AddressZip  string `gorm:"type:text" json:"addressZip"`

	ScheduledDate            time.Time `gorm:"type:date;not null;index" json:"scheduledDate"`
	ScheduledTime            string    `gorm:"type:text;not null"       json:"scheduledTime"`
	EstimatedDurationMinutes int       `gorm:"not null"                 json:"estimatedDurationMinutes"`

	StartedAt   *time.Time `gorm:"type:timestamp" json:"startedAt,omitempty"`
	CompletedAt *time.Time `gorm:"type:timestamp;index" json:"completedAt,omitempty"`

	// Price snapshot, frozen at booking time.
	SubtotalCents       int64 `gorm:"not null;default:0" json:"subtotalCents"`
	ModifiersTotalCents int64 `gorm:"not null;default:0" json:"modifiersTotalCents"`
	TierDiscountCents   int64 `gorm:"not null;default:0" json:"tierDiscountCents"`
	PlatformFeeCents    int64 `gorm:"not null;default:0" json:"platformFeeCents"`
	TotalCents          int64 `gorm:"not null;default:0" json:"totalCents"`
	CleanerPayoutCents  int64 `gorm:"not null;default:0" json:"cleanerPayoutCents"`

	PayoutBatchID *uuid.UUID `gorm:"type:uuid;index" json:"payoutBatchId"`

	Rating *Rating `gorm:"foreignKey:JobID" json:"rating,omitempty"`
}
