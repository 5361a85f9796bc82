package events

import (
	"context"

	"github.com/google/uuid"
)

const TopicProgramParsed = "program.parsed"

// ProgramParsed announces a successful import so downstream analysis can
// pick the program up. Fired only after a non-empty parse was persisted.
type ProgramParsed struct {
	ProgramID    uuid.UUID `json:"program_id"`
	UserID       uuid.UUID `json:"user_id"`
	WorkoutCount int       `json:"workout_count"`
	WeekCount    int       `json:"week_count"`
	SourceKind   string    `json:"source_kind"`
}

type Publisher interface {
	PublishProgramParsed(ctx context.Context, evt ProgramParsed) error
	Close() error
}
