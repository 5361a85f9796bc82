package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wodwisdom/wodwisdom-backend/internal/platform/envutil"
)

var localDevOrigins = []string{
	"http://localhost:80",
	"http://localhost:3000",
	"http://localhost:5174",
	"http://localhost:5173",
	"http://127.0.0.1:80",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5174",
	"http://127.0.0.1:5173",
}

// CORS allows the origins from CORS_ALLOWED_ORIGINS (comma separated),
// falling back to the local dev servers.
func CORS() gin.HandlerFunc {
	origins := localDevOrigins
	if raw := envutil.Str("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		var fromEnv []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				fromEnv = append(fromEnv, origin)
			}
		}
		if len(fromEnv) > 0 {
			origins = fromEnv
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Idempotency-Key"},
		AllowCredentials: true,
	})
}
