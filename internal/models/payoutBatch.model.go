package models

import "time"

type PayoutBatchStatus string

const (
	PayoutBatchPending   PayoutBatchStatus = "pending"
	PayoutBatchProcessed PayoutBatchStatus = "processed"
)

// PayoutBatch is a settlement grouping of completed jobs' cleaner
// earnings for one pay period. A batch exclusively owns the jobs whose
// PayoutBatchID equals its id; that assignment is permanent.
type PayoutBatch struct {
	BaseUUIDModel
	PeriodStart     time.Time         `gorm:"type:timestamp;not null" json:"periodStart"`
	PeriodEnd       time.Time         `gorm:"type:timestamp;not null" json:"periodEnd"`
	Status          PayoutBatchStatus `gorm:"type:text;default:'pending'" json:"status"`
	ProcessedAt     *time.Time        `gorm:"type:timestamp"          json:"processedAt,omitempty"`
	TotalCleaners   int               `gorm:"not null"                json:"totalCleaners"`
	TotalJobs       int               `gorm:"not null"                json:"totalJobs"`
	TotalGrossCents int64             `gorm:"not null"                json:"totalGrossCents"`
	TotalFeesCents  int64             `gorm:"not null"                json:"totalFeesCents"`
	TotalNetCents   int64             `gorm:"not null"                json:"totalNetCents"`
	Notes           string            `gorm:"type:text"               json:"notes"`
}
