package domain

import (
	"github.com/wodwisdom/wodwisdom-backend/internal/domain/programs"
)

// Program lifecycle states.
const (
	ProgramStatusImported = "imported"
	ProgramStatusArchived = "archived"
)

// Program source kinds, recorded at import time.
const (
	ProgramSourceText     = "text"
	ProgramSourceGenerate = "generate"
	ProgramSourceUpload   = "upload"
)

type Program = programs.Program
type ProgramWorkout = programs.ProgramWorkout
