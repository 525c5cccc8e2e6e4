package calendify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Run starts the HTTP server and blocks until the context is cancelled or the
// server fails.
//
// # API Endpoints
//
// Health check:
//
//	GET  /api/health                                  - Service health status
//
// Authentication (no token required):
//
//	POST /api/auth/register                           - Register account, create default calendar
//	POST /api/auth/login                              - Authenticate, returns a bearer token
//
// Everything below requires an Authorization: Bearer <token> header.
//
// Users:
//
//	GET    /api/users/me                              - Current user's profile
//	PUT    /api/users/me                              - Update profile (email, password)
//
// Calendars:
//
//	GET    /api/calendars                             - List the caller's calendars
//	POST   /api/calendars                             - Create a personal calendar
//	POST   /api/calendars/group                       - Create a group calendar (members by username)
//	GET    /api/calendars/{id}                        - Get one calendar (members only)
//	PUT    /api/calendars/{id}                        - Rename/recolor (owner only)
//	DELETE /api/calendars/{id}                        - Delete with event cascade (owner only)
//	POST   /api/calendars/{id}/members                - Add a member (owner only)
//	DELETE /api/calendars/{id}/members/{userId}       - Remove a member (owner only)
//	POST   /api/calendars/{id}/leave                  - Leave; ownership passes on when the owner leaves
//
// Events:
//
//	GET    /api/calendars/{id}/events                 - List events (members only)
//	POST   /api/calendars/{id}/events                 - Create; group calendars run the availability scan
//	PUT    /api/events/{id}                           - Update (creator only; rescan when times change)
//	DELETE /api/events/{id}                           - Delete (creator only)
//
// Scheduling conflicts come back as 409 with the full conflict list in the
// body. On graceful shutdown the server allows up to 5 seconds for in-flight
// requests to finish.
func (a *App) Run(ctx context.Context, cmd *RunCommand) error {
	srv := &http.Server{
		Addr:         ":" + a.config.ServerPort,
		Handler:      a.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("port", a.config.ServerPort).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// router builds the full route table. Split from Run so tests can serve
// requests without binding a port.
func (a *App) router() *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", a.handleHealth).Methods("GET")

	api.HandleFunc("/auth/register", a.handleRegister).Methods("POST")
	api.HandleFunc("/auth/login", a.handleLogin).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(a.authMiddleware)

	authed.HandleFunc("/users/me", a.handleGetCurrentUser).Methods("GET")
	authed.HandleFunc("/users/me", a.handleUpdateProfile).Methods("PUT")

	authed.HandleFunc("/calendars", a.handleListCalendars).Methods("GET")
	authed.HandleFunc("/calendars", a.handleCreatePersonalCalendar).Methods("POST")
	authed.HandleFunc("/calendars/group", a.handleCreateGroupCalendar).Methods("POST")
	authed.HandleFunc("/calendars/{id}", a.handleGetCalendar).Methods("GET")
	authed.HandleFunc("/calendars/{id}", a.handleEditCalendar).Methods("PUT")
	authed.HandleFunc("/calendars/{id}", a.handleDeleteCalendar).Methods("DELETE")
	authed.HandleFunc("/calendars/{id}/members", a.handleAddMember).Methods("POST")
	authed.HandleFunc("/calendars/{id}/members/{userId}", a.handleRemoveMember).Methods("DELETE")
	authed.HandleFunc("/calendars/{id}/leave", a.handleLeaveCalendar).Methods("POST")

	authed.HandleFunc("/calendars/{id}/events", a.handleListEvents).Methods("GET")
	authed.HandleFunc("/calendars/{id}/events", a.handleCreateEvent).Methods("POST")
	authed.HandleFunc("/events/{id}", a.handleUpdateEvent).Methods("PUT")
	authed.HandleFunc("/events/{id}", a.handleDeleteEvent).Methods("DELETE")

	return router
}
