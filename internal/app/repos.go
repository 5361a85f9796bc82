package app

import (
	"gorm.io/gorm"

	"github.com/wodwisdom/wodwisdom-backend/internal/data/repos"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type Repos struct {
	Program        repos.ProgramRepo
	ProgramWorkout repos.ProgramWorkoutRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Program:        repos.NewProgramRepo(db, log),
		ProgramWorkout: repos.NewProgramWorkoutRepo(db, log),
	}
}
