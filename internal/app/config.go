package app

import (
	"time"

	"github.com/wodwisdom/wodwisdom-backend/internal/platform/envutil"
	"github.com/wodwisdom/wodwisdom-backend/internal/platform/logger"
)

type Config struct {
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	Port           string
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set, using development default")
		jwtSecretKey = "defaultsecret"
	}
	accessTokenTTLSeconds := envutil.Int("ACCESS_TOKEN_TTL", 86400)
	return Config{
		JWTSecretKey:   jwtSecretKey,
		AccessTokenTTL: time.Duration(accessTokenTTLSeconds) * time.Second,
		Port:           envutil.Str("PORT", "8080"),
		Environment:    envutil.Str("APP_ENV", "development"),
		Version:        envutil.Str("APP_VERSION", ""),
	}
}
