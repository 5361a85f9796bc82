package repos

import (
	"gorm.io/gorm"

	"github.com/wodwisdom/wodwisdom-backend/internal/data/repos/programs"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type ProgramRepo = programs.ProgramRepo
type ProgramWorkoutRepo = programs.ProgramWorkoutRepo

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return programs.NewProgramRepo(db, baseLog)
}

func NewProgramWorkoutRepo(db *gorm.DB, baseLog *logger.Logger) ProgramWorkoutRepo {
	return programs.NewProgramWorkoutRepo(db, baseLog)
}
