package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/polo-stats/internal/club"
	"github.com/mauv0809/polo-stats/internal/match"
	"github.com/mauv0809/polo-stats/internal/roster"
	"github.com/mauv0809/polo-stats/internal/score"
	"github.com/mauv0809/polo-stats/internal/session"
	"github.com/mauv0809/polo-stats/internal/shootout"
	"github.com/mauv0809/polo-stats/internal/stats"
	"github.com/slack-go/slack"
)

// ContextKey is a custom type to avoid key collisions in context.
type ContextKey string

const (
	DryRunKey ContextKey = "dryRun"
)

// IsDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func IsDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(DryRunKey).(bool)
	return ok && dryRun
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		msg = verr.Err.Error()
	case errors.Is(err, session.ErrSaveFailed):
		msg = session.ErrSaveFailed.Error()
	case status == http.StatusInternalServerError:
		msg = "internal error"
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Debug("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	var verr *session.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, roster.ErrRosterFull),
		errors.Is(err, roster.ErrAlreadyCalledUp),
		errors.Is(err, roster.ErrNotCalledUp),
		errors.Is(err, roster.ErrPlayerHasStats),
		errors.Is(err, roster.ErrSamePlayer):
		return http.StatusConflict
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, match.ErrMatchNotFound),
		errors.Is(err, club.ErrPlayerNotFound),
		errors.Is(err, shootout.ErrUnknownAttempt),
		errors.Is(err, session.ErrShotNotFound),
		errors.Is(err, stats.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, stats.ErrUnknownField),
		errors.Is(err, stats.ErrDerivedField),
		errors.Is(err, score.ErrInvalidQuarter),
		errors.Is(err, shootout.ErrUnknownResult),
		errors.Is(err, shootout.ErrMissingPlayerID),
		errors.Is(err, session.ErrNotGoalkeeper),
		errors.Is(err, session.ErrInvalidShot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into v, answering 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Debug("Invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}

// pathInt parses an integer path parameter, answering 400 on failure.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: name + " must be an integer"})
		return 0, false
	}
	return n, true
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		log.Error("Failed to cast message to slack.Message")
		return
	}
	writeJSON(w, http.StatusOK, slackMsg)
}
