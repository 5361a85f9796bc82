package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Program{},
		&types.ProgramWorkout{},
	)
}

// EnsureProgramIndexes adds what AutoMigrate skips under
// DisableForeignKeyConstraintWhenMigrating: the cascade from workouts to
// their program, plus the hot read-path indexes.
func EnsureProgramIndexes(db *gorm.DB) error {
	var n int64
	if err := db.Raw(
		`SELECT count(*) FROM pg_constraint WHERE conname = 'fk_program_workout_program'`,
	).Scan(&n).Error; err != nil {
		return fmt.Errorf("check fk_program_workout_program: %w", err)
	}
	if n == 0 {
		if err := db.Exec(`
			ALTER TABLE program_workout
			ADD CONSTRAINT fk_program_workout_program
			FOREIGN KEY (program_id) REFERENCES program(id) ON DELETE CASCADE;
		`).Error; err != nil {
			return fmt.Errorf("add fk_program_workout_program: %w", err)
		}
	}

	// Program listing per user.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_program_user_status_created
		ON program (user_id, status, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_program_user_status_created: %w", err)
	}

	// Calendar lookups inside a program.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_program_workout_week_day
		ON program_workout (program_id, week_num, day_num);
	`).Error; err != nil {
		return fmt.Errorf("create idx_program_workout_week_day: %w", err)
	}

	return nil
}
