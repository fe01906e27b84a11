package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORSMiddleware lets other origins call the JSON API.
//
// With "*" any origin may call, but without credentials: browsers reject
// cookies on a wildcard response, so such clients read TokenHeader and send
// it back as a Bearer token. A listed set of origins also gets cookies.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", TokenHeader},
		AllowCredentials: !slices.Contains(origins, "*"),
	})
	return c.Handler
}
