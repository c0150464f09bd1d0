package database

import (
	logger "github.com/Bparsons0904/goLogger"

	"gorm.io/gorm"
)

// CreateIndexes adds the query indexes AutoMigrate does not create.
// The job-slot exclusion constraint itself lives in the file
// migrations, which run before this. All statements are idempotent.
func CreateIndexes(db *gorm.DB) error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_jobs_cleaner_date_status ON jobs(cleaner_id, scheduled_date, status)",
		"CREATE INDEX IF NOT EXISTS idx_jobs_payout_eligibility ON jobs(status, completed_at) WHERE payout_batch_id IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_jobs_member_status ON jobs(member_id, status)",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return log.Err("failed to create index", err, "sql", stmt)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
