package calendify

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sarveshmina/calendify/pkg/models"
)

// respondJSON writes payload as the JSON body with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

// respondError sends {"error": message} with the given status.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps a service-layer error onto its HTTP status. A
// scheduling conflict additionally carries the conflict list so clients can
// show who is busy when. Anything that is not a domain *Error is a bug or an
// infrastructure failure and becomes a 500.
func (a *App) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *Error
	if !errors.As(err, &domainErr) {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("unclassified error")
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if domainErr.Kind == KindStore {
		a.logger.Error().Err(domainErr).Str("path", r.URL.Path).Msg("store error")
	}
	payload := map[string]any{"error": domainErr.Message, "kind": string(domainErr.Kind)}
	if len(domainErr.Conflicts) > 0 {
		payload["conflicts"] = domainErr.Conflicts
	}
	respondJSON(w, domainErr.HTTPStatus(), payload)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// Auth handlers

func (a *App) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user, err := a.Register(r.Context(), req)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	token, user, err := a.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// User handlers

func (a *App) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	user, err := a.GetProfile(r.Context(), userID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (a *App) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	user, err := a.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Calendar handlers

func (a *App) handleListCalendars(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	cals, err := a.ListUserCalendars(r.Context(), userID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cals)
}

func (a *App) handleCreatePersonalCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req struct {
		Name  string       `json:"name"`
		Color models.Color `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cal, err := a.CreatePersonalCalendar(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cal)
}

func (a *App) handleCreateGroupCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req struct {
		Name    string       `json:"name"`
		Color   models.Color `json:"color"`
		Members []string     `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cal, err := a.CreateGroupCalendar(r.Context(), userID, req.Name, req.Color, req.Members)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cal)
}

func (a *App) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	cal, err := a.GetCalendarForMember(r.Context(), userID, calID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

func (a *App) handleEditCalendar(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	var patch CalendarPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cal, err := a.EditCalendar(r.Context(), userID, calID, patch)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

func (a *App) handleDeleteCalendar(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	if err := a.DeleteCalendar(r.Context(), userID, calID); err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleAddMember(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	var req struct {
		UserID models.UserID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cal, err := a.AddMember(r.Context(), userID, calID, req.UserID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

func (a *App) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	memberID, err := models.ParseUserID(mux.Vars(r)["userId"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	cal, err := a.RemoveMember(r.Context(), userID, calID, memberID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

func (a *App) handleLeaveCalendar(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	cal, err := a.LeaveCalendar(r.Context(), userID, calID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

// Event handlers

func (a *App) handleListEvents(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	events, err := a.ListCalendarEvents(r.Context(), userID, calID)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (a *App) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, calID, ok := a.calendarRequest(w, r)
	if !ok {
		return
	}
	var draft EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	event, err := a.CreateEvent(r.Context(), userID, calID, draft)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (a *App) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	eventID, err := models.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}
	var patch EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	event, err := a.UpdateEvent(r.Context(), userID, eventID, patch)
	if err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (a *App) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	eventID, err := models.ParseEventID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid event ID")
		return
	}
	if err := a.DeleteEvent(r.Context(), userID, eventID); err != nil {
		a.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// calendarRequest extracts the authenticated user and the {id} calendar path
// variable, writing the error response itself when either is missing.
func (a *App) calendarRequest(w http.ResponseWriter, r *http.Request) (models.UserID, models.CalendarID, bool) {
	userID, ok := currentUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return models.UserID{}, models.CalendarID{}, false
	}
	calID, err := models.ParseCalendarID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid calendar ID")
		return models.UserID{}, models.CalendarID{}, false
	}
	return userID, calID, true
}
