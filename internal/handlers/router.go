package handlers

import (
	"todoTracker/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// Routes маршруты API без глобальных middleware; их навешивает приложение
func Routes(todos *TodoHandler, auth *AuthHandler, authenticator middleware.Authenticator) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", todos.HealthCheck) // GET /health

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", auth.SignUp)   // POST /auth/signup
		r.Post("/signin", auth.SignIn)   // POST /auth/signin
		r.Post("/signout", auth.SignOut) // POST /auth/signout
	})

	r.Route("/todos", func(r chi.Router) {
		r.Use(middleware.Authenticate(authenticator))

		r.Post("/", todos.CreateTodo)            // POST /todos
		r.Get("/pending", todos.ListPending)     // GET /todos/pending
		r.Get("/completed", todos.ListCompleted) // GET /todos/completed
		r.Get("/board", todos.Board)             // GET /todos/board

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", todos.UpdateTodo)        // PUT /todos/{id}
			r.Delete("/", todos.DeleteTodo)     // DELETE /todos/{id}?confirm=yes
			r.Post("/toggle", todos.ToggleTodo) // POST /todos/{id}/toggle
		})
	})

	return r
}
