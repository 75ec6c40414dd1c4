package handler

import (
	"net/http"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/utils"
)

// GetChat returns the whole project transcript, oldest first.
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	messages, err := h.chat.Messages(projectId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ChatListResponse{Messages: messages})
}

func (h *Handler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
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

	var body api.SendChatRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	message, err := h.chat.Send(domain.ChatMessageCreationData{
		ProjectId:   projectId,
		AuthorEmail: user.Email,
		Content:     body.Content,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.ChatMessageResponse{ChatMessage: message}, http.StatusCreated)
}
