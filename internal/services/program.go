package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/wodwisdom/wodwisdom-backend/internal/data/repos"
	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"github.com/wodwisdom/wodwisdom-backend/internal/events"
	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/apierr"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/envutil"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type ProgramService interface {
	ImportProgram(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in ProgramImportInput) (*types.Program, []*types.ProgramWorkout, error)
	ImportProgramFiles(ctx context.Context, userID uuid.UUID, files []UploadedProgramFile) ([]ProgramImportResult, error)
	GetProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*types.Program, error)
	GetProgramWorkouts(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) ([]*types.ProgramWorkout, error)
	ListPrograms(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Program, error)
	ArchiveProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*types.Program, error)
	DeleteProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (int64, error)
}

// ProgramImportInput carries one program source. Text and FileBytes are
// mutually exclusive from the caller's point of view; when both are set the
// file wins. FileKind may be left empty for uploads with a recognizable
// file extension.
type ProgramImportInput struct {
	Title     string
	Text      string
	FileBytes []byte
	FileKind  string
	FileName  string
	Source    string
}

type UploadedProgramFile struct {
	FileName string
	Kind     string
	Data     []byte
	Title    string
	Source   string
}

// ProgramImportResult reports one file of a batch import. Err is set when
// that file failed; the rest of the batch is unaffected.
type ProgramImportResult struct {
	FileName string                  `json:"file_name"`
	Program  *types.Program          `json:"program,omitempty"`
	Workouts []*types.ProgramWorkout `json:"workouts,omitempty"`
	Err      error                   `json:"-"`
}

type programService struct {
	db          *gorm.DB
	log         *logger.Logger
	programRepo repos.ProgramRepo
	workoutRepo repos.ProgramWorkoutRepo
	publisher   events.Publisher
}

func NewProgramService(
	db *gorm.DB,
	baseLog *logger.Logger,
	programRepo repos.ProgramRepo,
	workoutRepo repos.ProgramWorkoutRepo,
	publisher events.Publisher,
) ProgramService {
	serviceLog := baseLog.With("service", "ProgramService")
	return &programService{
		db:          db,
		log:         serviceLog,
		programRepo: programRepo,
		workoutRepo: workoutRepo,
		publisher:   publisher,
	}
}

// =====================================
// ImportProgram
// =====================================

func (ps *programService) ImportProgram(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in ProgramImportInput) (*types.Program, []*types.ProgramWorkout, error) {
	program, workouts, err := ps.importProgram(ctx, tx, userID, in)
	if err != nil {
		return nil, nil, err
	}
	// Publish only when this call owned the transaction; with a caller
	// supplied tx the rows are not committed yet.
	if tx == nil {
		ps.publishParsed(ctx, program, workouts)
	}
	return program, workouts, nil
}

func (ps *programService) importProgram(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in ProgramImportInput) (program *types.Program, workouts []*types.ProgramWorkout, err error) {
	if userID == uuid.Nil {
		return nil, nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}

	kind := strings.TrimSpace(in.FileKind)
	if kind == "" && len(in.FileBytes) > 0 {
		kind = fileKindFromName(in.FileName)
	}

	parsed, err := ingestion.Parse(ingestion.Input{
		Text:      in.Text,
		FileBytes: in.FileBytes,
		FileKind:  kind,
		Source:    in.Source,
	})
	if err != nil {
		return nil, nil, importError(err)
	}

	transaction := tx
	createdTx := false
	if transaction == nil {
		createdTx = true
		transaction = ps.db.Begin()
		if transaction.Error != nil {
			return nil, nil, fmt.Errorf("failed to begin transaction: %w", transaction.Error)
		}
	}

	defer func() {
		if !createdTx {
			return
		}
		if err != nil {
			transaction.Rollback()
			return
		}
		if cerr := transaction.Commit().Error; cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
			program, workouts = nil, nil
		}
	}()

	program = &types.Program{
		ID:         uuid.New(),
		UserID:     userID,
		Title:      deriveTitle(in),
		SourceKind: sourceKind(in),
		Status:     types.ProgramStatusImported,
		WeekCount:  weekSpan(parsed),
		Metadata:   importMetadata(in),
	}
	program, err = ps.programRepo.Create(ctx, transaction, program)
	if err != nil {
		err = importError(repos.Classify(err))
		return nil, nil, err
	}

	workouts, err = ps.workoutRepo.Create(ctx, transaction, buildWorkoutRows(program.ID, parsed))
	if err != nil {
		err = importError(repos.Classify(err))
		return nil, nil, err
	}

	ps.log.Info("ImportProgram", "program_id", program.ID, "workouts", len(workouts), "weeks", program.WeekCount)
	return program, workouts, nil
}

// =====================================
// ImportProgramFiles
// =====================================

// ImportProgramFiles imports each uploaded file as its own program. Files are
// processed concurrently; one file failing does not abort the rest, its
// result just carries the error. Results come back in input order.
func (ps *programService) ImportProgramFiles(ctx context.Context, userID uuid.UUID, files []UploadedProgramFile) ([]ProgramImportResult, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if len(files) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "unparseable", fmt.Errorf("no files provided"))
	}

	maxConc := envutil.Int("PROGRAM_IMPORT_CONCURRENCY", 4)
	if maxConc < 1 {
		maxConc = 1
	}

	results := make([]ProgramImportResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConc)

	for i, f := range files {
		i, f := i, f
		results[i].FileName = f.FileName
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			program, workouts, err := ps.ImportProgram(gctx, nil, userID, ProgramImportInput{
				Title:     f.Title,
				FileBytes: f.Data,
				FileKind:  f.Kind,
				FileName:  f.FileName,
				Source:    f.Source,
			})
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Program = program
			results[i].Workouts = workouts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// =====================================
// Read ops
// =====================================

func (ps *programService) GetProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*types.Program, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	if programID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_program_id", nil)
	}
	program, err := ps.programRepo.GetByID(ctx, tx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.New(http.StatusNotFound, "program_not_found", nil)
		}
		return nil, err
	}
	// Ownership failures look identical to missing rows.
	if program.UserID != userID {
		return nil, apierr.New(http.StatusNotFound, "program_not_found", nil)
	}
	return program, nil
}

func (ps *programService) GetProgramWorkouts(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) ([]*types.ProgramWorkout, error) {
	if _, err := ps.GetProgram(ctx, tx, userID, programID); err != nil {
		return nil, err
	}
	return ps.workoutRepo.GetByProgramID(ctx, tx, programID)
}

func (ps *programService) ListPrograms(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Program, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	return ps.programRepo.GetByUserID(ctx, tx, userID)
}

// =====================================
// ArchiveProgram / DeleteProgram
// =====================================

func (ps *programService) ArchiveProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (*types.Program, error) {
	if _, err := ps.GetProgram(ctx, tx, userID, programID); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"status": types.ProgramStatusArchived}
	if err := ps.programRepo.UpdateFields(ctx, tx, programID, fields); err != nil {
		return nil, repos.Classify(err)
	}
	return ps.programRepo.GetByID(ctx, tx, programID)
}

// DeleteProgram soft deletes a program together with its workouts and
// returns how many workout rows went with it.
func (ps *programService) DeleteProgram(ctx context.Context, tx *gorm.DB, userID, programID uuid.UUID) (removed int64, err error) {
	if _, err = ps.GetProgram(ctx, tx, userID, programID); err != nil {
		return 0, err
	}

	transaction := tx
	createdTx := false
	if transaction == nil {
		createdTx = true
		transaction = ps.db.Begin()
		if transaction.Error != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", transaction.Error)
		}
	}

	defer func() {
		if !createdTx {
			return
		}
		if err != nil {
			transaction.Rollback()
			return
		}
		if cerr := transaction.Commit().Error; cerr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cerr)
			removed = 0
		}
	}()

	removed, err = ps.workoutRepo.CountByProgramID(ctx, transaction, programID)
	if err != nil {
		return 0, repos.Classify(err)
	}
	if err = ps.workoutRepo.SoftDeleteByProgramID(ctx, transaction, programID); err != nil {
		return 0, repos.Classify(err)
	}
	if err = ps.programRepo.SoftDeleteByID(ctx, transaction, programID); err != nil {
		return 0, repos.Classify(err)
	}

	ps.log.Info("DeleteProgram", "program_id", programID, "workouts", removed)
	return removed, nil
}

// =====================================
// Helpers
// =====================================

func (ps *programService) publishParsed(ctx context.Context, program *types.Program, workouts []*types.ProgramWorkout) {
	if ps.publisher == nil || program == nil {
		return
	}
	evt := events.ProgramParsed{
		ProgramID:    program.ID,
		UserID:       program.UserID,
		WorkoutCount: len(workouts),
		WeekCount:    program.WeekCount,
		SourceKind:   program.SourceKind,
	}
	if err := ps.publisher.PublishProgramParsed(ctx, evt); err != nil {
		ps.log.Warn("failed to publish program.parsed", "program_id", program.ID, "error", err)
	}
}

func buildWorkoutRows(programID uuid.UUID, parsed []ingestion.ParsedWorkout) []*types.ProgramWorkout {
	rows := make([]*types.ProgramWorkout, 0, len(parsed))
	for _, w := range parsed {
		blocks, _ := json.Marshal(ingestion.ExtractBlocks(w.WorkoutText))
		rows = append(rows, &types.ProgramWorkout{
			ID:          uuid.New(),
			ProgramID:   programID,
			WeekNum:     w.WeekNum,
			DayNum:      w.DayNum,
			SortOrder:   w.SortOrder,
			WorkoutText: w.WorkoutText,
			Blocks:      datatypes.JSON(blocks),
		})
	}
	return rows
}

// deriveTitle picks the program title: explicit title, then the file name
// with its extension and separators stripped, then the first non-empty text
// line, then a fixed fallback.
func deriveTitle(in ProgramImportInput) string {
	if t := strings.TrimSpace(in.Title); t != "" {
		return truncateRunes(t, 60)
	}
	if name := strings.TrimSpace(in.FileName); name != "" {
		base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
		base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
		if base = strings.TrimSpace(base); base != "" {
			return truncateRunes(base, 60)
		}
	}
	for _, line := range strings.Split(in.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncateRunes(line, 60)
		}
	}
	return "Imported Program"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

func weekSpan(parsed []ingestion.ParsedWorkout) int {
	max := 0
	for _, w := range parsed {
		if w.WeekNum > max {
			max = w.WeekNum
		}
	}
	return max
}

func fileKindFromName(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func sourceKind(in ProgramImportInput) string {
	if len(in.FileBytes) > 0 {
		return types.ProgramSourceUpload
	}
	if in.Source == ingestion.SourceGenerated {
		return types.ProgramSourceGenerate
	}
	return types.ProgramSourceText
}

func importMetadata(in ProgramImportInput) datatypes.JSON {
	meta := map[string]string{}
	if name := strings.TrimSpace(in.FileName); name != "" {
		meta["file_name"] = name
	}
	if src := strings.TrimSpace(in.Source); src != "" {
		meta["source"] = src
	}
	if len(meta) == 0 {
		return datatypes.JSON([]byte(`{}`))
	}
	raw, _ := json.Marshal(meta)
	return datatypes.JSON(raw)
}

// importError maps engine and repo failures onto HTTP shapes. Input side
// problems are 400 with the engine message, an empty parse is 422, storage
// conflicts are 409. Anything unrecognized passes through for the handler's
// 500 path.
func importError(err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return err
	}
	var de *ingestion.DecodeError
	switch {
	case errors.Is(err, ingestion.ErrNoInput), errors.Is(err, ingestion.ErrUnsupportedKind):
		return apierr.New(http.StatusBadRequest, "unparseable", err)
	case errors.As(err, &de):
		return apierr.New(http.StatusBadRequest, "unparseable", err)
	case errors.Is(err, ingestion.ErrEmptyResult):
		return apierr.New(http.StatusUnprocessableEntity, "no_workouts_parsed", err)
	case errors.Is(err, repos.ErrConflict):
		return apierr.New(http.StatusConflict, "conflict", err)
	}
	return err
}
