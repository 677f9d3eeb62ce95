package middleware

import (
	"net/http"

	"spectres-crm/internal/config"

	"github.com/rs/cors"
)

var (
	defaultCorsMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	defaultCorsHeaders = []string{"Authorization", "Content-Type"}
)

// NewCORS allows the configured front-end origins. An empty origin list falls
// back to the rs/cors default of any origin, so production config must set it.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	methods := cfg.Server.CorsAllowedMethods
	if len(methods) == 0 {
		methods = defaultCorsMethods
	}
	headers := cfg.Server.CorsAllowedHeaders
	if len(headers) == 0 {
		headers = defaultCorsHeaders
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return c.Handler
}
