package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns a middleware that lets browsers on the given origins call
// the JSON API. "*" allows any origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Accept", "X-Requested-With"},
		MaxAge:         86400,
	})
	return c.Handler
}
