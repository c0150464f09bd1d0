package models

import "gorm.io/datatypes"

type ZoneStatus string

const (
	ZoneActive   ZoneStatus = "active"
	ZoneWaitlist ZoneStatus = "waitlist"
	ZoneInactive ZoneStatus = "inactive"
)

// Zone is a geographic service area composed of zip codes. Only active
// zones accept new bookings.
type Zone struct {
	BaseUUIDModel
	Name     string                      `gorm:"type:text;not null"      json:"name"`
	ZipCodes datatypes.JSONSlice[string] `gorm:"type:jsonb"              json:"zipCodes"`
	Status   ZoneStatus                  `gorm:"type:text;default:'active'" json:"status"`
}

func (z *Zone) AcceptsBookings() bool {
	return z.Status == ZoneActive
}
