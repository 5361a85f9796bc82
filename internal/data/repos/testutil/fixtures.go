package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedProgram(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Program {
	tb.Helper()
	p := &types.Program{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      "program",
		SourceKind: "text",
		Status:     "imported",
		WeekCount:  1,
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed program: %v", err)
	}
	return p
}

func SeedProgramWorkout(tb testing.TB, ctx context.Context, tx *gorm.DB, programID uuid.UUID, sortOrder int) *types.ProgramWorkout {
	tb.Helper()
	w := &types.ProgramWorkout{
		ID:          uuid.New(),
		ProgramID:   programID,
		WeekNum:     sortOrder/7 + 1,
		DayNum:      sortOrder%7 + 1,
		SortOrder:   sortOrder,
		WorkoutText: fmt.Sprintf("workout %d", sortOrder),
		Blocks:      datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed program workout: %v", err)
	}
	return w
}
