package programs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgramWorkout struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:ux_program_workout_sort" json:"program_id"`
	Program   *Program  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`

	// Document emission order, dense per program. (week_num, day_num) carry
	// the calendar position and may repeat across malformed sources.
	WeekNum   int `gorm:"column:week_num;not null" json:"week_num"`
	DayNum    int `gorm:"column:day_num;not null" json:"day_num"`
	SortOrder int `gorm:"column:sort_order;not null;uniqueIndex:ux_program_workout_sort" json:"sort_order"`

	WorkoutText string         `gorm:"column:workout_text;type:text;not null" json:"workout_text"`
	Blocks      datatypes.JSON `gorm:"column:blocks;type:jsonb" json:"blocks,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProgramWorkout) TableName() string { return "program_workout" }
