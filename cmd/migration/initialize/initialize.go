package initialize

import (
	"freshnest/config"
	. "freshnest/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeSettings(db, log); err != nil {
		return log.Err("failed to initialize settings", err)
	}

	if err := initializeTasks(db, log); err != nil {
		return log.Err("failed to initialize tasks", err)
	}

	if err := initializeZones(db, log); err != nil {
		return log.Err("failed to initialize zones", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeSettings(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing settings catalog")

	settings := getSettingsData()

	for _, setting := range settings {
		var existing Setting
		if err := db.First(&existing, "key = ?", setting.Key).Error; err == nil {
			log.Debug("Setting already exists", "key", setting.Key)
			continue
		}
		log.Info("Initializing setting", "key", setting.Key, "value", setting.Value)
		if err := db.Create(&setting).Error; err != nil {
			return log.Err("failed to create setting", err, "key", setting.Key)
		}
	}

	log.Info("Settings catalog initialized", "count", len(settings))
	return nil
}

func getSettingsData() []Setting {
	return []Setting{
		// Pricing
		{Key: SettingBaseFeeCents, Value: "2500", ValueType: SettingTypeNumber, Category: "pricing", Description: "Flat base fee per job, in cents"},
		{Key: SettingPerMinuteCents, Value: "50", ValueType: SettingTypeNumber, Category: "pricing", Description: "Per-minute labor rate, in cents"},
		{Key: SettingPlatformFeePercent, Value: "15", ValueType: SettingTypeNumber, Category: "pricing", Description: "Platform fee as a percent of the discounted subtotal"},
		{Key: SettingMinJobValueCents, Value: "5000", ValueType: SettingTypeNumber, Category: "pricing", Description: "Minimum bookable job value, in cents"},
		{Key: SettingStripeFeePercent, Value: "2.9", ValueType: SettingTypeNumber, Category: "pricing", Description: "Payment processor percentage fee"},
		{Key: SettingStripeFeeFixedCents, Value: "30", ValueType: SettingTypeNumber, Category: "pricing", Description: "Payment processor fixed fee, in cents"},

		// Price modifiers
		{Key: SettingModifierWeekendPercent, Value: "20", ValueType: SettingTypeNumber, Category: "modifiers", Description: "Weekend surcharge percent"},
		{Key: SettingModifierRushPercent, Value: "30", ValueType: SettingTypeNumber, Category: "modifiers", Description: "Rush booking surcharge percent"},
		{Key: SettingModifierEcoPercent, Value: "10", ValueType: SettingTypeNumber, Category: "modifiers", Description: "Eco-friendly products surcharge percent"},
		{Key: SettingModifierPetPercent, Value: "15", ValueType: SettingTypeNumber, Category: "modifiers", Description: "Pet-friendly handling surcharge percent"},

		// Membership tiers
		{Key: SettingTierSilverDiscount, Value: "5", ValueType: SettingTypeNumber, Category: "tiers", Description: "Silver tier discount percent"},
		{Key: SettingTierGoldDiscount, Value: "15", ValueType: SettingTypeNumber, Category: "tiers", Description: "Gold tier discount percent"},
		{Key: SettingTierDiamondDiscount, Value: "25", ValueType: SettingTypeNumber, Category: "tiers", Description: "Diamond tier discount percent"},
		{Key: SettingTierSilverMonthlyCents, Value: "1900", ValueType: SettingTypeNumber, Category: "tiers", Description: "Silver membership monthly price, in cents"},
		{Key: SettingTierGoldMonthlyCents, Value: "4900", ValueType: SettingTypeNumber, Category: "tiers", Description: "Gold membership monthly price, in cents"},
		{Key: SettingTierDiamondMonthlyCents, Value: "9900", ValueType: SettingTypeNumber, Category: "tiers", Description: "Diamond membership monthly price, in cents"},
	}
}

func initializeTasks(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing task library")

	tasks := getTasksData()

	for _, task := range tasks {
		var existing Task
		if err := db.First(&existing, "room_type = ? AND name = ?", task.RoomType, task.Name).Error; err == nil {
			log.Debug("Task already exists", "roomType", task.RoomType, "name", task.Name)
			continue
		}
		if err := db.Create(&task).Error; err != nil {
			return log.Err("failed to create task", err, "roomType", task.RoomType, "name", task.Name)
		}
	}

	log.Info("Task library initialized", "count", len(tasks))
	return nil
}

func getTasksData() []Task {
	return []Task{
		// Kitchen
		{RoomType: "kitchen", Name: "Counters wiped and sanitized", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "kitchen", Name: "Stovetop cleaned", IsPriority: true, EffortMinutes: 8, DefaultOrder: 2},
		{RoomType: "kitchen", Name: "Stovetop detailed (drip pans, knobs)", IsPriority: true, EffortMinutes: 12, DefaultOrder: 3},
		{RoomType: "kitchen", Name: "Sink scrubbed and sanitized", IsPriority: true, EffortMinutes: 5, DefaultOrder: 4},
		{RoomType: "kitchen", Name: "Sink fixtures polished", IsPriority: true, EffortMinutes: 3, DefaultOrder: 5},
		{RoomType: "kitchen", Name: "Appliance exteriors wiped", IsPriority: true, EffortMinutes: 6, DefaultOrder: 6},
		{RoomType: "kitchen", Name: "Inside microwave cleaned", IsPriority: true, EffortMinutes: 5, DefaultOrder: 7},
		{RoomType: "kitchen", Name: "Cabinet fronts wiped", IsPriority: true, EffortMinutes: 8, DefaultOrder: 8},
		{RoomType: "kitchen", Name: "Backsplash wiped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 9},
		{RoomType: "kitchen", Name: "Floor swept and mopped", IsPriority: true, EffortMinutes: 10, DefaultOrder: 10},
		{RoomType: "kitchen", Name: "Floor edges and corners detailed", EffortMinutes: 5, DefaultOrder: 11},
		{RoomType: "kitchen", Name: "Trash emptied", IsPriority: true, EffortMinutes: 2, DefaultOrder: 12},

		// Bathroom
		{RoomType: "bathroom", Name: "Toilet cleaned and sanitized", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "bathroom", Name: "Toilet exterior wiped", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "bathroom", Name: "Sink cleaned and sanitized", IsPriority: true, EffortMinutes: 5, DefaultOrder: 3},
		{RoomType: "bathroom", Name: "Sink fixtures polished", IsPriority: true, EffortMinutes: 3, DefaultOrder: 4},
		{RoomType: "bathroom", Name: "Mirror cleaned", IsPriority: true, EffortMinutes: 3, DefaultOrder: 5},
		{RoomType: "bathroom", Name: "Counters wiped", IsPriority: true, EffortMinutes: 3, DefaultOrder: 6},
		{RoomType: "bathroom", Name: "Shower/tub scrubbed", IsPriority: true, EffortMinutes: 10, DefaultOrder: 7},
		{RoomType: "bathroom", Name: "Shower doors/curtain cleaned", IsPriority: true, EffortMinutes: 5, DefaultOrder: 8},
		{RoomType: "bathroom", Name: "Shower grout detailed", EffortMinutes: 10, DefaultOrder: 9},
		{RoomType: "bathroom", Name: "Floor swept and mopped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 10},
		{RoomType: "bathroom", Name: "Trash emptied", IsPriority: true, EffortMinutes: 2, DefaultOrder: 11},
		{RoomType: "bathroom", Name: "Towels folded/arranged", IsPriority: true, EffortMinutes: 3, DefaultOrder: 12},

		// Bedroom
		{RoomType: "bedroom", Name: "Bed made", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "bedroom", Name: "Bed linens changed", IsPriority: true, EffortMinutes: 10, DefaultOrder: 2},
		{RoomType: "bedroom", Name: "Nightstands dusted", IsPriority: true, EffortMinutes: 3, DefaultOrder: 3},
		{RoomType: "bedroom", Name: "Dresser tops dusted", IsPriority: true, EffortMinutes: 3, DefaultOrder: 4},
		{RoomType: "bedroom", Name: "Floor vacuumed", IsPriority: true, EffortMinutes: 8, DefaultOrder: 5},
		{RoomType: "bedroom", Name: "Floor edges vacuumed", EffortMinutes: 4, DefaultOrder: 6},
		{RoomType: "bedroom", Name: "Under bed vacuumed", EffortMinutes: 5, DefaultOrder: 7},
		{RoomType: "bedroom", Name: "Mirrors cleaned", IsPriority: true, EffortMinutes: 3, DefaultOrder: 8},
		{RoomType: "bedroom", Name: "Trash emptied", IsPriority: true, EffortMinutes: 2, DefaultOrder: 9},

		// Living room
		{RoomType: "living_room", Name: "Surfaces dusted", IsPriority: true, EffortMinutes: 8, DefaultOrder: 1},
		{RoomType: "living_room", Name: "Coffee table cleaned", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "living_room", Name: "TV and electronics dusted", IsPriority: true, EffortMinutes: 5, DefaultOrder: 3},
		{RoomType: "living_room", Name: "Couch cushions straightened", IsPriority: true, EffortMinutes: 3, DefaultOrder: 4},
		{RoomType: "living_room", Name: "Couch vacuumed", IsPriority: true, EffortMinutes: 8, DefaultOrder: 5},
		{RoomType: "living_room", Name: "Floor vacuumed", IsPriority: true, EffortMinutes: 10, DefaultOrder: 6},
		{RoomType: "living_room", Name: "Floor edges vacuumed", EffortMinutes: 5, DefaultOrder: 7},
		{RoomType: "living_room", Name: "Throw pillows arranged", IsPriority: true, EffortMinutes: 2, DefaultOrder: 8},
		{RoomType: "living_room", Name: "Trash emptied", IsPriority: true, EffortMinutes: 2, DefaultOrder: 9},

		// Dining room
		{RoomType: "dining_room", Name: "Table wiped and polished", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "dining_room", Name: "Chairs wiped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 2},
		{RoomType: "dining_room", Name: "Surfaces dusted", IsPriority: true, EffortMinutes: 5, DefaultOrder: 3},
		{RoomType: "dining_room", Name: "Floor vacuumed/swept", IsPriority: true, EffortMinutes: 8, DefaultOrder: 4},
		{RoomType: "dining_room", Name: "Floor mopped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 5},

		// Office
		{RoomType: "office", Name: "Desk surface cleared and wiped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "office", Name: "Desk items arranged", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "office", Name: "Shelves dusted", IsPriority: true, EffortMinutes: 5, DefaultOrder: 3},
		{RoomType: "office", Name: "Electronics dusted", IsPriority: true, EffortMinutes: 3, DefaultOrder: 4},
		{RoomType: "office", Name: "Floor vacuumed", IsPriority: true, EffortMinutes: 8, DefaultOrder: 5},
		{RoomType: "office", Name: "Trash emptied", IsPriority: true, EffortMinutes: 2, DefaultOrder: 6},

		// Laundry
		{RoomType: "laundry", Name: "Appliance exteriors wiped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "laundry", Name: "Counters/surfaces wiped", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "laundry", Name: "Floor swept and mopped", IsPriority: true, EffortMinutes: 5, DefaultOrder: 3},
		{RoomType: "laundry", Name: "Lint trap cleaned", IsPriority: true, EffortMinutes: 2, DefaultOrder: 4},

		// Entryway
		{RoomType: "entryway", Name: "Floor swept/vacuumed", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "entryway", Name: "Floor mopped", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "entryway", Name: "Surfaces dusted", IsPriority: true, EffortMinutes: 3, DefaultOrder: 3},
		{RoomType: "entryway", Name: "Door and handle wiped", IsPriority: true, EffortMinutes: 2, DefaultOrder: 4},
		{RoomType: "entryway", Name: "Shoe area organized", IsPriority: true, EffortMinutes: 3, DefaultOrder: 5},

		// Hallway
		{RoomType: "hallway", Name: "Floor vacuumed/swept", IsPriority: true, EffortMinutes: 5, DefaultOrder: 1},
		{RoomType: "hallway", Name: "Floor mopped", IsPriority: true, EffortMinutes: 3, DefaultOrder: 2},
		{RoomType: "hallway", Name: "Surfaces dusted", IsPriority: true, EffortMinutes: 3, DefaultOrder: 3},
		{RoomType: "hallway", Name: "Light switches wiped", EffortMinutes: 2, DefaultOrder: 4},
	}
}

func initializeZones(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing service zones")

	zones := []Zone{
		{Name: "North Scottsdale", ZipCodes: datatypes.NewJSONSlice([]string{"85255", "85260", "85262", "85266"}), Status: ZoneActive},
		{Name: "Central Scottsdale", ZipCodes: datatypes.NewJSONSlice([]string{"85251", "85254", "85257", "85258"}), Status: ZoneActive},
		{Name: "South Scottsdale", ZipCodes: datatypes.NewJSONSlice([]string{"85250", "85256", "85259"}), Status: ZoneWaitlist},
		{Name: "Paradise Valley", ZipCodes: datatypes.NewJSONSlice([]string{"85253"}), Status: ZoneWaitlist},
	}

	for _, zone := range zones {
		var existing Zone
		if err := db.First(&existing, "name = ?", zone.Name).Error; err == nil {
			log.Debug("Zone already exists", "name", zone.Name)
			continue
		}
		log.Info("Initializing zone", "name", zone.Name)
		if err := db.Create(&zone).Error; err != nil {
			return log.Err("failed to create zone", err, "name", zone.Name)
		}
	}

	log.Info("Service zones initialized", "count", len(zones))
	return nil
}
