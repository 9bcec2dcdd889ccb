package server

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/pep299/autogram/internal/application"
	"github.com/pep299/autogram/internal/transport/middleware"
)

// NewRouter builds the HTTP routes for an already wired application
func NewRouter(app *application.App) http.Handler {
	auth := middleware.Auth(app.Config.WebhookAuthToken)

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Handle("/health", app.HealthHandler).Methods("GET")
	router.Handle("/run", auth(app.RunHandler))
	router.Handle("/webhook", auth(app.WebhookHandler))

	return router
}

// CreateHandler wires the application and returns its HTTP handler
func CreateHandler(ctx context.Context) (http.Handler, func(), error) {
	app, err := application.New(ctx)
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Printf("Error closing application: %v", err)
		}
	}

	return NewRouter(app), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	handler, cleanup, err := CreateHandler(r.Context())
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	handler.ServeHTTP(w, r)
}
