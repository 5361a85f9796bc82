package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wodwisdom/wodwisdom-backend/internal/domain"
	httpH "github.com/wodwisdom/wodwisdom-backend/internal/http/handlers"
	httpMW "github.com/wodwisdom/wodwisdom-backend/internal/http/middleware"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
	"github.com/wodwisdom/wodwisdom-backend/internal/services"
)

type stubProgramService struct {
	listUser uuid.UUID
}

func (s *stubProgramService) ImportProgram(context.Context, *gorm.DB, uuid.UUID, services.ProgramImportInput) (*types.Program, []*types.ProgramWorkout, error) {
	return &types.Program{ID: uuid.New()}, nil, nil
}

func (s *stubProgramService) ImportProgramFiles(context.Context, uuid.UUID, []services.UploadedProgramFile) ([]services.ProgramImportResult, error) {
	return nil, nil
}

func (s *stubProgramService) GetProgram(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) (*types.Program, error) {
	return &types.Program{}, nil
}

func (s *stubProgramService) GetProgramWorkouts(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) ([]*types.ProgramWorkout, error) {
	return nil, nil
}

func (s *stubProgramService) ListPrograms(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.Program, error) {
	s.listUser = userID
	return []*types.Program{{ID: uuid.New(), UserID: userID}}, nil
}

func (s *stubProgramService) ArchiveProgram(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) (*types.Program, error) {
	return &types.Program{}, nil
}

func (s *stubProgramService) DeleteProgram(context.Context, *gorm.DB, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func testRouter(t *testing.T) (*gin.Engine, services.AuthService, *stubProgramService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	authSvc, err := services.NewAuthService(log, "router-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	programSvc := &stubProgramService{}

	r := NewRouter(RouterConfig{
		Log:            log,
		AuthMiddleware: httpMW.NewAuthMiddleware(log, authSvc),
		HealthHandler:  httpH.NewHealthHandler(),
		ProgramHandler: httpH.NewProgramHandler(log, programSvc),
	})
	return r, authSvc, programSvc
}

func TestRouter_HealthIsPublic(t *testing.T) {
	r, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("body %q, want ok", rec.Body.String())
	}
}

func TestRouter_ProgramsRequireAuth(t *testing.T) {
	r, _, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/programs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
}

func TestRouter_BearerTokenReachesHandler(t *testing.T) {
	r, authSvc, programSvc := testRouter(t)

	userID := uuid.New()
	token, err := authSvc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/programs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if programSvc.listUser != userID {
		t.Fatalf("handler saw user %s, want %s", programSvc.listUser, userID)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("trace middleware should stamp X-Request-Id")
	}
}

func TestRouter_QueryTokenAccepted(t *testing.T) {
	r, authSvc, _ := testRouter(t)

	token, err := authSvc.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/programs?token="+token, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
}
