package entrypoint

import (
	"log"
	"net/http"

	"github.com/rs/cors"
)

// WithCORS lets the listed origins call the JSON API from a browser. With no
// origins the handler is returned as is and browsers stay same-origin.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return handler
	}

	log.Printf("CORS enabled for %v", allowedOrigins)
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", "X-CSRF-Token"},
		MaxAge:         600,
	}).Handler(handler)
}
