package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	"github.com/wodwisdom/wodwisdom-backend/internal/http/response"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/apierr"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/ctxutil"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
	"github.com/wodwisdom/wodwisdom-backend/internal/services"
)

const (
	maxImportFormBytes = 32 << 20
	maxImportFileBytes = 10 << 20
)

type ProgramHandler struct {
	log     *logger.Logger
	program services.ProgramService
}

func NewProgramHandler(log *logger.Logger, program services.ProgramService) *ProgramHandler {
	return &ProgramHandler{
		log:     log.With("handler", "ProgramHandler"),
		program: program,
	}
}

type importProgramRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source string `json:"source"`
}

type importResultPayload struct {
	FileName string                  `json:"file_name"`
	Program  *types.Program          `json:"program,omitempty"`
	Workouts []*types.ProgramWorkout `json:"workouts,omitempty"`
	Error    *response.APIError      `json:"error,omitempty"`
}

// POST /api/programs/import
func (h *ProgramHandler) ImportProgram(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		h.importFromMultipart(c, rd.UserID)
		return
	}
	h.importFromJSON(c, rd.UserID)
}

func (h *ProgramHandler) importFromJSON(c *gin.Context, userID uuid.UUID) {
	var req importProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_body", err)
		return
	}
	program, workouts, err := h.program.ImportProgram(c.Request.Context(), nil, userID, services.ProgramImportInput{
		Title:  req.Title,
		Text:   req.Text,
		Source: req.Source,
	})
	if err != nil {
		response.RespondAPIError(c, "import_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"program": program, "workouts": workouts})
}

func (h *ProgramHandler) importFromMultipart(c *gin.Context, userID uuid.UUID) {
	if err := c.Request.ParseMultipartForm(maxImportFormBytes); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}
	form := c.Request.MultipartForm

	var title, source, kind, text string
	var fileHeaders []*multipart.FileHeader
	if form != nil {
		if v := form.Value["title"]; len(v) > 0 {
			title = strings.TrimSpace(v[0])
		}
		if v := form.Value["source"]; len(v) > 0 {
			source = strings.TrimSpace(v[0])
		}
		if v := form.Value["kind"]; len(v) > 0 {
			kind = strings.TrimSpace(v[0])
		}
		if v := form.Value["text"]; len(v) > 0 {
			text = v[0]
		}
		fileHeaders = form.File["files"]
		if len(fileHeaders) == 0 {
			fileHeaders = form.File["file"]
		}
	}
	if len(fileHeaders) == 0 && strings.TrimSpace(text) == "" {
		response.RespondError(c, http.StatusBadRequest, "no_files_or_text", nil)
		return
	}

	files := make([]services.UploadedProgramFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		reader, err := fh.Open()
		if err != nil {
			h.log.Error("cannot open uploaded file", "file", fh.Filename, "error", err)
			continue
		}
		data, err := io.ReadAll(io.LimitReader(reader, maxImportFileBytes+1))
		_ = reader.Close()
		if err != nil {
			h.log.Error("cannot read uploaded file", "file", fh.Filename, "error", err)
			continue
		}
		if len(data) > maxImportFileBytes {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Errorf("%s exceeds %d bytes", fh.Filename, maxImportFileBytes))
			return
		}
		files = append(files, services.UploadedProgramFile{
			FileName: fh.Filename,
			Kind:     kind,
			Data:     data,
			Title:    title,
			Source:   source,
		})
	}

	if len(files) == 0 {
		if strings.TrimSpace(text) != "" {
			program, workouts, err := h.program.ImportProgram(c.Request.Context(), nil, userID, services.ProgramImportInput{
				Title:  title,
				Text:   text,
				Source: source,
			})
			if err != nil {
				response.RespondAPIError(c, "import_failed", err)
				return
			}
			response.RespondCreated(c, gin.H{"program": program, "workouts": workouts})
			return
		}
		response.RespondError(c, http.StatusBadRequest, "could_not_read_files", nil)
		return
	}

	if len(files) == 1 {
		f := files[0]
		program, workouts, err := h.program.ImportProgram(c.Request.Context(), nil, userID, services.ProgramImportInput{
			Title:     f.Title,
			FileBytes: f.Data,
			FileKind:  f.Kind,
			FileName:  f.FileName,
			Source:    f.Source,
		})
		if err != nil {
			response.RespondAPIError(c, "import_failed", err)
			return
		}
		response.RespondCreated(c, gin.H{"program": program, "workouts": workouts})
		return
	}

	results, err := h.program.ImportProgramFiles(c.Request.Context(), userID, files)
	if err != nil {
		response.RespondAPIError(c, "import_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"results": toImportResults(results)})
}

func toImportResults(results []services.ProgramImportResult) []importResultPayload {
	out := make([]importResultPayload, 0, len(results))
	for _, res := range results {
		p := importResultPayload{
			FileName: res.FileName,
			Program:  res.Program,
			Workouts: res.Workouts,
		}
		if res.Err != nil {
			var ae *apierr.Error
			if errors.As(res.Err, &ae) {
				p.Error = &response.APIError{Message: ae.Error(), Code: ae.Code}
			} else {
				p.Error = &response.APIError{Message: res.Err.Error(), Code: "import_failed"}
			}
		}
		out = append(out, p)
	}
	return out
}

// GET /api/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	programs, err := h.program.ListPrograms(c.Request.Context(), nil, rd.UserID)
	if err != nil {
		response.RespondAPIError(c, "list_programs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"programs": programs})
}

// GET /api/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil || programID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_program_id", err)
		return
	}
	program, err := h.program.GetProgram(c.Request.Context(), nil, rd.UserID, programID)
	if err != nil {
		response.RespondAPIError(c, "get_program_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"program": program})
}

// GET /api/programs/:id/workouts
func (h *ProgramHandler) GetProgramWorkouts(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil || programID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_program_id", err)
		return
	}
	workouts, err := h.program.GetProgramWorkouts(c.Request.Context(), nil, rd.UserID, programID)
	if err != nil {
		response.RespondAPIError(c, "get_workouts_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"workouts": workouts})
}

// POST /api/programs/:id/archive
func (h *ProgramHandler) ArchiveProgram(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil || programID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_program_id", err)
		return
	}
	program, err := h.program.ArchiveProgram(c.Request.Context(), nil, rd.UserID, programID)
	if err != nil {
		response.RespondAPIError(c, "archive_program_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"program": program})
}

// DELETE /api/programs/:id
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil || programID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_program_id", err)
		return
	}
	removed, err := h.program.DeleteProgram(c.Request.Context(), nil, rd.UserID, programID)
	if err != nil {
		response.RespondAPIError(c, "delete_program_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted_workouts": removed})
}
