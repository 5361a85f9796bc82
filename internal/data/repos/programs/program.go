package programs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type ProgramRepo interface {
	Create(ctx context.Context, tx *gorm.DB, program *types.Program) (*types.Program, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Program, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Program, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return &programRepo{db: db, log: baseLog.With("repo", "ProgramRepo")}
}

func (r *programRepo) Create(ctx context.Context, tx *gorm.DB, program *types.Program) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if program == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(program).Error; err != nil {
		return nil, err
	}
	return program, nil
}

func (r *programRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out types.Program
	if err := transaction.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *programRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Program
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *programRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Program{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *programRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Program{}).Error
}
