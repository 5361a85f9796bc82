package app

import (
	httpH "github.com/wodwisdom/wodwisdom-backend/internal/http/handlers"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Program *httpH.ProgramHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Program: httpH.NewProgramHandler(log, serviceset.Program),
	}
}
