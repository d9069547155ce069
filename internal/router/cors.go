package router

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS wraps h for browser clients. Credentials (the session cookie) are only
// allowed for an explicit origin list; browsers reject them with a wildcard.
func CORS(origins []string, h http.Handler) http.Handler {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: !wildcard,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})
	return c.Handler(h)
}
