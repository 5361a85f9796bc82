package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/wodwisdom/wodwisdom-backend/internal/http/handlers"
	httpMW "github.com/wodwisdom/wodwisdom-backend/internal/http/middleware"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	ProgramHandler *httpH.ProgramHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("wodwisdom-backend"))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Programs
		if cfg.ProgramHandler != nil {
			protected.POST("/programs/import", cfg.ProgramHandler.ImportProgram)
			protected.GET("/programs", cfg.ProgramHandler.ListPrograms)
			protected.GET("/programs/:id", cfg.ProgramHandler.GetProgram)
			protected.GET("/programs/:id/workouts", cfg.ProgramHandler.GetProgramWorkouts)
			protected.POST("/programs/:id/archive", cfg.ProgramHandler.ArchiveProgram)
			protected.DELETE("/programs/:id", cfg.ProgramHandler.DeleteProgram)
		}
	}

	return r
}
