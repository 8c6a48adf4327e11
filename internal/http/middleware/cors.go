package middleware

import (
	"github.com/rs/cors"

	"github.com/davidbz/faqvoice/internal/config"
)

// CORS lets the browser widget call the API from another origin.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return noop
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{TraceIDHeader, RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}
