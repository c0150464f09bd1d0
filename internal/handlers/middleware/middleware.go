package middleware

import (
	"freshnest/config"
	"freshnest/internal/database"
	"freshnest/internal/events"
	"freshnest/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB         database.DB
	memberRepo repositories.MemberRepository
	Config     config.Config
	log        logger.Logger
	eventBus   *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:         db,
		memberRepo: repos.Member,
		Config:     config,
		log:        log,
		eventBus:   eventBus,
	}
}
