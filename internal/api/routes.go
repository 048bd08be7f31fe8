package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", userHeader, requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(s.userMiddleware)
		s.mountLearning(r)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(s.userMiddleware)
		s.mountLearning(r)
		r.Get("/profiles", s.handleProfile)
	})
	return r
}

func (s *Server) mountLearning(r chi.Router) {
	r.Get("/lessons", s.handleListLessons)
	r.Get("/lessons/{id}", s.handleGetLesson)
	r.Post("/lessons/{id}/submit", s.handleSubmit)
	r.Post("/lessons/{id}/single", s.handleSubmitSingle)
	r.Get("/profile", s.handleProfile)
}

func (s *Server) allowedOrigins() []string {
	if len(s.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	return s.AllowedOrigins
}
