package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
)

// CORS returns middleware that applies the storefront's allowed origin
// policy. Origins come from configuration so each deployment can list
// its own frontends.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
