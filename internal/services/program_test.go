package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wodwisdom/wodwisdom-backend/internal/data/repos"
	"github.com/wodwisdom/wodwisdom-backend/internal/data/repos/testutil"
	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"github.com/wodwisdom/wodwisdom-backend/internal/events"
	"github.com/wodwisdom/wodwisdom-backend/internal/ingestion"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/apierr"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type capturePublisher struct {
	published []events.ProgramParsed
	err       error
}

func (c *capturePublisher) PublishProgramParsed(_ context.Context, evt events.ProgramParsed) error {
	c.published = append(c.published, evt)
	return c.err
}

func (c *capturePublisher) Close() error { return nil }

func asAPIError(t *testing.T, err error) *apierr.Error {
	t.Helper()
	var ae *apierr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected api error, got %#v", err)
	}
	return ae
}

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name string
		in   ProgramImportInput
		want string
	}{
		{
			name: "explicit_title_wins",
			in:   ProgramImportInput{Title: "  Strength Cycle ", FileName: "other.xlsx", Text: "Week 1"},
			want: "Strength Cycle",
		},
		{
			name: "file_name_without_extension_or_separators",
			in:   ProgramImportInput{FileName: "uploads/strength_cycle-v2.xlsx"},
			want: "strength cycle v2",
		},
		{
			name: "first_text_line",
			in:   ProgramImportInput{Text: "\n\n12 Week Engine Builder\nWeek 1"},
			want: "12 Week Engine Builder",
		},
		{
			name: "fallback",
			in:   ProgramImportInput{},
			want: "Imported Program",
		},
		{
			name: "long_title_truncated",
			in:   ProgramImportInput{Title: strings.Repeat("a", 70)},
			want: strings.Repeat("a", 60),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveTitle(tc.in); got != tc.want {
				t.Fatalf("deriveTitle=%q, want %q", got, tc.want)
			}
		})
	}
}

func TestFileKindFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"programs/Spring.XLSX", "xlsx"},
		{"notes.txt", "txt"},
		{"legacy.xls", "xls"},
		{"noextension", ""},
	}
	for _, tc := range cases {
		if got := fileKindFromName(tc.name); got != tc.want {
			t.Fatalf("fileKindFromName(%q)=%q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSourceKind(t *testing.T) {
	if got := sourceKind(ProgramImportInput{FileBytes: []byte("x"), Source: "generate"}); got != types.ProgramSourceUpload {
		t.Fatalf("file input: got %q, want %q", got, types.ProgramSourceUpload)
	}
	if got := sourceKind(ProgramImportInput{Text: "Week 1", Source: "generate"}); got != types.ProgramSourceGenerate {
		t.Fatalf("generated text: got %q, want %q", got, types.ProgramSourceGenerate)
	}
	if got := sourceKind(ProgramImportInput{Text: "Week 1"}); got != types.ProgramSourceText {
		t.Fatalf("plain text: got %q, want %q", got, types.ProgramSourceText)
	}
}

func TestWeekSpan(t *testing.T) {
	if got := weekSpan(nil); got != 0 {
		t.Fatalf("empty: got %d, want 0", got)
	}
	parsed := []ingestion.ParsedWorkout{
		{WeekNum: 2}, {WeekNum: 5}, {WeekNum: 1},
	}
	if got := weekSpan(parsed); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
}

func TestTruncateRunes_TrimsTrailingSpaceAtCut(t *testing.T) {
	s := strings.Repeat("ab ", 25) // 75 runes, cut lands after a space
	got := truncateRunes(s, 60)
	if len([]rune(got)) > 60 {
		t.Fatalf("got %d runes, want <= 60", len([]rune(got)))
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("got trailing space: %q", got)
	}
}

func TestImportError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no_input", ingestion.ErrNoInput, http.StatusBadRequest, "unparseable"},
		{"unsupported_kind", fmt.Errorf("%w: %q", ingestion.ErrUnsupportedKind, "pdf"), http.StatusBadRequest, "unparseable"},
		{"decode_error", &ingestion.DecodeError{Kind: "xlsx", Err: fmt.Errorf("zip: not a valid zip file")}, http.StatusBadRequest, "unparseable"},
		{"empty_result", ingestion.ErrEmptyResult, http.StatusUnprocessableEntity, "no_workouts_parsed"},
		{"conflict", errors.Join(fmt.Errorf("duplicate key value"), repos.ErrConflict), http.StatusConflict, "conflict"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := asAPIError(t, importError(tc.err))
			if ae.Status != tc.wantStatus || ae.Code != tc.wantCode {
				t.Fatalf("got (%d, %q), want (%d, %q)", ae.Status, ae.Code, tc.wantStatus, tc.wantCode)
			}
		})
	}

	t.Run("unknown_error_passes_through", func(t *testing.T) {
		plain := fmt.Errorf("boom")
		got := importError(plain)
		var ae *apierr.Error
		if errors.As(got, &ae) {
			t.Fatalf("expected passthrough, got api error %#v", ae)
		}
		if !errors.Is(got, plain) {
			t.Fatalf("got %v, want original error", got)
		}
	})

	t.Run("existing_api_error_untouched", func(t *testing.T) {
		in := apierr.New(http.StatusTeapot, "custom", nil)
		ae := asAPIError(t, importError(in))
		if ae.Status != http.StatusTeapot || ae.Code != "custom" {
			t.Fatalf("got (%d, %q), want (418, custom)", ae.Status, ae.Code)
		}
	})
}

func TestBuildWorkoutRows(t *testing.T) {
	programID := uuid.New()
	parsed := []ingestion.ParsedWorkout{
		{WeekNum: 1, DayNum: 1, WorkoutText: "Warm-up: row 500m\nMetcon: 21-15-9 thrusters", SortOrder: 0},
		{WeekNum: 1, DayNum: 2, WorkoutText: "Run 5k", SortOrder: 1},
	}
	rows := buildWorkoutRows(programID, parsed)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for i, row := range rows {
		if row.ProgramID != programID {
			t.Fatalf("row %d: program id %s, want %s", i, row.ProgramID, programID)
		}
		if row.SortOrder != parsed[i].SortOrder || row.WorkoutText != parsed[i].WorkoutText {
			t.Fatalf("row %d: got %#v", i, row)
		}
	}
	if !strings.Contains(string(rows[0].Blocks), `"warmup"`) {
		t.Fatalf("labeled text should keep block kinds, got %s", rows[0].Blocks)
	}
	if !strings.Contains(string(rows[1].Blocks), `"metcon"`) {
		t.Fatalf("unlabeled text should become a metcon block, got %s", rows[1].Blocks)
	}
}

func TestImportMetadata(t *testing.T) {
	if got := string(importMetadata(ProgramImportInput{})); got != "{}" {
		t.Fatalf("empty input: got %s, want {}", got)
	}
	got := string(importMetadata(ProgramImportInput{FileName: "plan.xlsx", Source: "generate"}))
	if !strings.Contains(got, `"file_name":"plan.xlsx"`) || !strings.Contains(got, `"source":"generate"`) {
		t.Fatalf("got %s", got)
	}
}

func TestProgramService_RequiresUser(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewProgramService(nil, log, nil, nil, nil)
	ctx := context.Background()

	if _, _, err := svc.ImportProgram(ctx, nil, uuid.Nil, ProgramImportInput{Text: "Week 1"}); asAPIError(t, err).Status != http.StatusUnauthorized {
		t.Fatalf("ImportProgram: want 401")
	}
	if _, err := svc.ListPrograms(ctx, nil, uuid.Nil); asAPIError(t, err).Status != http.StatusUnauthorized {
		t.Fatalf("ListPrograms: want 401")
	}
	if _, err := svc.GetProgram(ctx, nil, uuid.New(), uuid.Nil); asAPIError(t, err).Status != http.StatusBadRequest {
		t.Fatalf("GetProgram with nil id: want 400")
	}
}

func TestProgramService_ImportProgramFiles_BadFilesDoNotAbortBatch(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	pub := &capturePublisher{}
	svc := NewProgramService(nil, log, nil, nil, pub)

	files := []UploadedProgramFile{
		{FileName: "corrupt.xlsx", Kind: "xlsx", Data: []byte("not a workbook")},
		{FileName: "empty.txt"},
	}
	results, err := svc.ImportProgramFiles(context.Background(), uuid.New(), files)
	if err != nil {
		t.Fatalf("batch error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, res := range results {
		if res.FileName != files[i].FileName {
			t.Fatalf("result %d: file name %q, want %q", i, res.FileName, files[i].FileName)
		}
		if res.Err == nil || res.Program != nil {
			t.Fatalf("result %d: expected per-file failure, got %#v", i, res)
		}
		if ae := asAPIError(t, res.Err); ae.Status != http.StatusBadRequest {
			t.Fatalf("result %d: status %d, want 400", i, ae.Status)
		}
	}
	if len(pub.published) != 0 {
		t.Fatalf("no events expected for failed imports, got %d", len(pub.published))
	}
}

func TestProgramService_ImportProgramFiles_NoFiles(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewProgramService(nil, log, nil, nil, nil)
	if _, err := svc.ImportProgramFiles(context.Background(), uuid.New(), nil); asAPIError(t, err).Status != http.StatusBadRequest {
		t.Fatalf("want 400 for empty batch")
	}
}

func TestPublishParsed(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	pub := &capturePublisher{}
	ps := &programService{log: log, publisher: pub}

	program := &types.Program{ID: uuid.New(), UserID: uuid.New(), WeekCount: 3, SourceKind: types.ProgramSourceUpload}
	workouts := []*types.ProgramWorkout{{}, {}}
	ps.publishParsed(context.Background(), program, workouts)

	if len(pub.published) != 1 {
		t.Fatalf("got %d events, want 1", len(pub.published))
	}
	evt := pub.published[0]
	if evt.ProgramID != program.ID || evt.WorkoutCount != 2 || evt.WeekCount != 3 || evt.SourceKind != types.ProgramSourceUpload {
		t.Fatalf("event %#v", evt)
	}

	// Publisher failures only log, they never surface to the caller.
	pub.err = fmt.Errorf("redis down")
	ps.publishParsed(context.Background(), program, workouts)

	// Nil publisher is a no-op.
	(&programService{log: log}).publishParsed(context.Background(), program, workouts)
}

func TestProgramService_ImportAndReadFlow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	pub := &capturePublisher{}
	svc := NewProgramService(db, log,
		repos.NewProgramRepo(db, log),
		repos.NewProgramWorkoutRepo(db, log),
		pub,
	)

	ctx := context.Background()
	userID := uuid.New()

	program, workouts, err := svc.ImportProgram(ctx, tx, userID, ProgramImportInput{
		Title: "Strength Cycle",
		Text:  "Week 1\nMonday: Back Squat 5x5\nTuesday: Run 5k\nWeek 2\nMonday: Back Squat 5x3",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if program.Title != "Strength Cycle" || program.SourceKind != types.ProgramSourceText || program.Status != types.ProgramStatusImported {
		t.Fatalf("program %#v", program)
	}
	if program.WeekCount != 2 {
		t.Fatalf("week count %d, want 2", program.WeekCount)
	}
	if len(workouts) != 3 {
		t.Fatalf("got %d workouts, want 3", len(workouts))
	}
	for i, w := range workouts {
		if w.SortOrder != i {
			t.Fatalf("workout %d: sort order %d", i, w.SortOrder)
		}
	}
	if len(pub.published) != 0 {
		t.Fatalf("no event expected inside a caller transaction, got %d", len(pub.published))
	}

	got, err := svc.GetProgram(ctx, tx, userID, program.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != program.ID {
		t.Fatalf("got program %s, want %s", got.ID, program.ID)
	}

	// Another user's lookup reads as missing.
	if _, err := svc.GetProgram(ctx, tx, uuid.New(), program.ID); asAPIError(t, err).Status != http.StatusNotFound {
		t.Fatalf("foreign lookup: want 404")
	}

	listed, err := svc.ListPrograms(ctx, tx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != program.ID {
		t.Fatalf("listed %#v", listed)
	}

	stored, err := svc.GetProgramWorkouts(ctx, tx, userID, program.ID)
	if err != nil {
		t.Fatalf("workouts: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("got %d stored workouts, want 3", len(stored))
	}
	for i, w := range stored {
		if w.SortOrder != i {
			t.Fatalf("stored workout %d out of order: %d", i, w.SortOrder)
		}
	}
	if stored[0].WeekNum != 1 || stored[0].DayNum != 1 || stored[0].WorkoutText != "Back Squat 5x5" {
		t.Fatalf("first workout %#v", stored[0])
	}

	archived, err := svc.ArchiveProgram(ctx, tx, userID, program.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != types.ProgramStatusArchived {
		t.Fatalf("status %q, want %q", archived.Status, types.ProgramStatusArchived)
	}

	removed, err := svc.DeleteProgram(ctx, tx, userID, program.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed %d workouts, want 3", removed)
	}
	if _, err := svc.GetProgram(ctx, tx, userID, program.ID); asAPIError(t, err).Status != http.StatusNotFound {
		t.Fatalf("deleted program should read as missing")
	}
}

func TestProgramService_ImportProgram_EmptyParse(t *testing.T) {
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewProgramService(nil, log, nil, nil, nil)

	_, _, gotErr := svc.ImportProgram(context.Background(), nil, uuid.New(), ProgramImportInput{Text: "   \n\n  "})
	if ae := asAPIError(t, gotErr); ae.Status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", ae.Status)
	}
}
