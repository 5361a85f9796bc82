package app

import (
	"github.com/wodwisdom/wodwisdom-backend/internal/http"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, handlerset Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlerset.Health,
		ProgramHandler: handlerset.Program,
	})
}
