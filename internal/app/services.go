package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wodwisdom/wodwisdom-backend/internal/events"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
	"github.com/wodwisdom/wodwisdom-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Program services.ProgramService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, publisher events.Publisher) (Services, error) {
	log.Info("Wiring services...")

	authService, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	programService := services.NewProgramService(db, log, reposet.Program, reposet.ProgramWorkout, publisher)

	return Services{
		Auth:    authService,
		Program: programService,
	}, nil
}
