package repositories

import (
	"freshnest/internal/database"
)

type Repository struct {
	Setting     SettingRepository
	Task        TaskRepository
	Zone        ZoneRepository
	Member      MemberRepository
	Cleaner     CleanerRepository
	Job         JobRepository
	Checklist   ChecklistRepository
	Rating      RatingRepository
	Note        NoteRepository
	PayoutBatch PayoutBatchRepository
}

func New(db database.DB) Repository {
	return Repository{
		Setting:     NewSettingRepository(db),
		Task:        NewTaskRepository(db),
		Zone:        NewZoneRepository(db),
		Member:      NewMemberRepository(db),
		Cleaner:     NewCleanerRepository(db),
		Job:         NewJobRepository(db),
		Checklist:   NewChecklistRepository(db),
		Rating:      NewRatingRepository(db),
		Note:        NewNoteRepository(db),
		PayoutBatch: NewPayoutBatchRepository(db),
	}
}
