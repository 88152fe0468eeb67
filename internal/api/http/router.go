package http

import (
	"net/http"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/quiz"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the networked backend's wire contract over the store.
func NewRouter(store quiz.Store, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Post("/login", LoginHandler(store))
	r.Post("/tests", CreateTestHandler(store))
	r.Get("/students/{studentID}/history", HistoryHandler(store))
	r.Post("/results", CreateResultHandler(store))
	r.Get("/health", HealthHandler())

	return r
}
