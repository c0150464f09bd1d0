package seed

import (
	"freshnest/config"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	members := []Member{
		{
			Email:     "sarah@example.com",
			FirstName: "Sarah",
			LastName:  "Mitchell",
			Phone:     "+14805551234",
			Tier:      TierGold,
			IsActive:  true,
		},
		{
			Email:     "james@example.com",
			FirstName: "James",
			LastName:  "Okafor",
			Phone:     "+14805552345",
			Tier:      TierFree,
			IsActive:  true,
		},
	}

	for i := range members {
		var existing Member
		if err := db.First(&existing, "email = ?", members[i].Email).Error; err == nil {
			log.Info("Member already exists", "email", members[i].Email)
			continue
		}
		log.Info("Seeding member", "email", members[i].Email)
		if err := db.Create(&members[i]).Error; err != nil {
			return log.Err("failed to create member", err, "email", members[i].Email)
		}
	}

	var northZone Zone
	if err := db.First(&northZone, "name = ?", "North Scottsdale").Error; err != nil {
		return log.Err("failed to load seed zone", err)
	}

	cleaners := []Cleaner{
		{
			Email:         "maria@example.com",
			FirstName:     "Maria",
			LastName:      "Garcia",
			Phone:         "+14805555678",
			Status:        CleanerActive,
			RatingAverage: 4.8,
			RatingCount:   47,
			JobsCompleted: 52,
		},
		{
			Email:         "devon@example.com",
			FirstName:     "Devon",
			LastName:      "Price",
			Phone:         "+14805556789",
			Status:        CleanerActive,
			RatingAverage: 4.2,
			RatingCount:   12,
			JobsCompleted: 15,
		},
	}

	for i := range cleaners {
		var existing Cleaner
		if err := db.First(&existing, "email = ?", cleaners[i].Email).Error; err == nil {
			log.Info("Cleaner already exists", "email", cleaners[i].Email)
			continue
		}
		log.Info("Seeding cleaner", "email", cleaners[i].Email)
		if err := db.Create(&cleaners[i]).Error; err != nil {
			return log.Err("failed to create cleaner", err, "email", cleaners[i].Email)
		}

		if err := db.Create(&CleanerZone{
			CleanerID: cleaners[i].ID,
			ZoneID:    northZone.ID,
		}).Error; err != nil {
			return log.Err("failed to assign cleaner zone", err, "email", cleaners[i].Email)
		}

		// Monday through Friday, 08:00-17:00
		for day := 1; day <= 5; day++ {
			if err := db.Create(&CleanerSchedule{
				CleanerID:   cleaners[i].ID,
				DayOfWeek:   day,
				StartTime:   "08:00",
				EndTime:     "17:00",
				IsAvailable: true,
			}).Error; err != nil {
				return log.Err("failed to create cleaner schedule", err, "email", cleaners[i].Email)
			}
		}
	}

	log.Info("Development data seeded")
	return nil
}
