package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Event routes require a Bearer token; auth routes and swagger do not.
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("GET /events/organized", auth(eventController.ListOrganized))
	mux.HandleFunc("GET /events/invited", auth(eventController.ListParticipating))
	mux.HandleFunc("POST /events/search", auth(eventController.Search))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.GetByID))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))
	mux.HandleFunc("POST /events/{eventID}/invite", auth(eventController.Invite))
	mux.HandleFunc("POST /events/{eventID}/join", auth(eventController.Join))
	mux.HandleFunc("PUT /events/{eventID}/response", auth(eventController.Respond))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
