package models

import (
	"time"

	"github.com/google/uuid"
)

type CleanerStatus string

const (
	CleanerActive    CleanerStatus = "active"
	CleanerInactive  CleanerStatus = "inactive"
	CleanerSuspended CleanerStatus = "suspended"
)

// Cleaner is a service provider. RatingAverage and RatingCount are
// maintained by the rating flow; JobsCompleted by job completion. The
// weekly schedule and blocked dates are authoritative for availability.
type Cleaner struct {
	BaseUUIDModel
	FirstName     string        `gorm:"type:text;not null"              json:"firstName"`
	LastName      string        `gorm:"type:text;not null"              json:"lastName"`
	Email         string        `gorm:"type:text;uniqueIndex;not null"  json:"email"`
	Phone         string        `gorm:"type:text"                       json:"phone"`
	Status        CleanerStatus `gorm:"type:text;default:'active';index" json:"status"`
	RatingAverage float64       `gorm:"type:decimal(3,2);default:0"     json:"ratingAverage"`
	RatingCount   int           `gorm:"not null;default:0"              json:"ratingCount"`
	JobsCompleted int           `gorm:"not null;default:0"              json:"jobsCompleted"`

	Zones        []CleanerZone        `gorm:"foreignKey:CleanerID" json:"zones,omitempty"`
	Schedules    []CleanerSchedule    `gorm:"foreignKey:CleanerID" json:"schedules,omitempty"`
	BlockedDates []CleanerBlockedDate `gorm:"foreignKey:CleanerID" json:"blockedDates,omitempty"`
}

func (c *Cleaner) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CleanerZone links a cleaner to a zone they service.
type CleanerZone struct {
	BaseUUIDModel
	CleanerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cleaner_zone" json:"cleanerId"`
	ZoneID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cleaner_zone" json:"zoneId"`
}

// CleanerSchedule is one weekly working window. DayOfWeek follows
// time.Weekday numbering (0=Sunday). StartTime/EndTime are "HH:MM"
// wall-clock strings; interval arithmetic happens in minutes since
// midnight.
type CleanerSchedule struct {
	BaseUUIDModel
	CleanerID   uuid.UUID `gorm:"type:uuid;not null;index"  json:"cleanerId"`
	DayOfWeek   int       `gorm:"not null"                  json:"dayOfWeek"`
	StartTime   string    `gorm:"type:text;not null"        json:"startTime"`
	EndTime     string    `gorm:"type:text;not null"        json:"endTime"`
	IsAvailable bool      `gorm:"not null;default:true"     json:"isAvailable"`
}

// CleanerBlockedDate marks one calendar day the cleaner will not work.
type CleanerBlockedDate struct {
	BaseUUIDModel
	CleanerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"cleanerId"`
	BlockedDate time.Time `gorm:"type:date;not null"       json:"blockedDate"`
	Reason      string    `gorm:"type:text"                json:"reason"`
}
