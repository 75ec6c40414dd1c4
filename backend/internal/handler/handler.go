package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plankhq/plank/backend/internal/service"
	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/errors"
	"github.com/plankhq/plank/shared/logger"
)

type Handler struct {
	auth     service.AuthService
	project  service.ProjectService
	board    service.BoardService
	comment  service.CommentService
	chat     service.ChatService
	activity service.ActivityService
	cfg      *config.Public
}

func New(
	auth service.AuthService,
	project service.ProjectService,
	board service.BoardService,
	comment service.CommentService,
	chat service.ChatService,
	activity service.ActivityService,
	cfg *config.Public,
) *Handler {
	return &Handler{auth, project, board, comment, chat, activity, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, v, http.StatusOK)
}

func writeJSONStatus(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// parseIdParam reads a numeric chi URL parameter.
func parseIdParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, &errors.ErrorWithStatusCode{
			Message:    "Invalid " + name + ": must be an integer",
			StatusCode: http.StatusBadRequest,
		}
	}
	return id, nil
}
