package handler

import (
	"net/http"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/utils"
)

func (h *Handler) GetActivityLogs(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	logs, err := h.activity.Logs(projectId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ActivityLogResponse{Logs: logs})
}

func (h *Handler) WriteActivityLog(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.WriteLogRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	written, err := h.activity.Write(domain.ActivityLog{
		AuthorId:  user.Id,
		LogType:   body.LogType,
		Content:   body.Content,
		ProjectId: projectId,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.ActivityLogEntryResponse{ActivityLog: written}, http.StatusCreated)
}
