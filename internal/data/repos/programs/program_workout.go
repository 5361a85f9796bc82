package programs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type ProgramWorkoutRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workouts []*types.ProgramWorkout) ([]*types.ProgramWorkout, error)
	GetByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.ProgramWorkout, error)
	CountByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error)
	SoftDeleteByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) error
}

type programWorkoutRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramWorkoutRepo(db *gorm.DB, baseLog *logger.Logger) ProgramWorkoutRepo {
	return &programWorkoutRepo{db: db, log: baseLog.With("repo", "ProgramWorkoutRepo")}
}

func (r *programWorkoutRepo) Create(ctx context.Context, tx *gorm.DB, workouts []*types.ProgramWorkout) ([]*types.ProgramWorkout, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(workouts) == 0 {
		return []*types.ProgramWorkout{}, nil
	}
	if err := transaction.WithContext(ctx).CreateInBatches(&workouts, 100).Error; err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *programWorkoutRepo) GetByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.ProgramWorkout, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ProgramWorkout
	if programID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *programWorkoutRepo) CountByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ProgramWorkout{}).
		Where("program_id = ?", programID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *programWorkoutRepo) SoftDeleteByProgramID(ctx context.Context, tx *gorm.DB, programID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("program_id = ?", programID).
		Delete(&types.ProgramWorkout{}).Error
}
