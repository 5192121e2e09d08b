package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/handler/http/response"
)

// DirectoryHandler serves the system-admin listings as JSON
type DirectoryHandler interface {
	ListUsers(w http.ResponseWriter, r *http.Request)
	ListIntegrationSettings(w http.ResponseWriter, r *http.Request)
}

type directoryHandlerImpl struct {
	backend DirectoryBackend
	tokens  TokenBinder
}

func NewDirectoryHandler(backend DirectoryBackend, tokens TokenBinder) DirectoryHandler {
	return &directoryHandlerImpl{backend: backend, tokens: tokens}
}

func (h *directoryHandlerImpl) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	users, err := h.backend.ListUsers(r.Context(), h.tokens.Tokens(sess))
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

func (h *directoryHandlerImpl) ListIntegrationSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	settings, err := h.backend.ListIntegrationSettings(r.Context(), h.tokens.Tokens(sess))
	if err != nil {
		slog.Error("failed to list integration settings", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, settings)
}
