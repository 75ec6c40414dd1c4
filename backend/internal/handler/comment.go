package handler

import (
	"net/http"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/utils"
)

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comments, err := h.comment.CommentsByCard(cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.CommentListResponse{Comments: comments})
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	comment, err := h.comment.Create(domain.CommentCreationData{
		CardId:      cardId,
		Content:     body.Content,
		AuthorEmail: user.Email,
		FileUrl:     body.FileUrl,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.CommentResponse{Comment: comment}, http.StatusCreated)
}

func (h *Handler) EditComment(w http.ResponseWriter, r *http.Request) {
	commentId, err := parseIdParam(r, "commentId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.EditCommentRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comment.Edit(commentId, body.Content); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentId, err := parseIdParam(r, "commentId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.comment.Delete(commentId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
