package models

// Task is a catalog entry in the master task library, grouped by room
// type with a fixed effort cost in minutes. Tasks referenced by a
// historical checklist are never re-read; edits only affect future
// bookings, and removal is a soft delete (IsActive=false).
type Task struct {
	BaseUUIDModel
	Name          string `gorm:"type:text;not null"       json:"name"`
	Description   string `gorm:"type:text"                json:"description"`
	RoomType      string `gorm:"type:text;not null;index" json:"roomType"`
	EffortMinutes int    `gorm:"not null"                 json:"effortMinutes"`
	IsPriority    bool   `gorm:"not null;default:false"   json:"isPriority"`
	DefaultOrder  int    `gorm:"not null;default:0"       json:"defaultOrder"`
	IsActive      bool   `gorm:"not null;default:true"    json:"isActive"`
}
