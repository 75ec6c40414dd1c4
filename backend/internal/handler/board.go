package handler

import (
	"net/http"
	"time"

	"github.com/plankhq/plank/backend/internal/service"
	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/utils"
)

func (h *Handler) GetColumns(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	columns, err := h.board.Columns(projectId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.ColumnListResponse{Columns: columns})
}

func (h *Handler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	projectId, err := parseIdParam(r, "projectId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateColumnRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	column, err := h.board.CreateColumn(projectId, body.Title)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.ColumnResponse{Column: column}, http.StatusCreated)
}

// DeleteColumn removes an empty column; a column that still has cards is
// rejected with a conflict.
func (h *Handler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(r, "columnId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteColumn(columnId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) GetCards(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(r, "columnId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	cards, err := h.board.CardsByColumn(columnId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.CardListResponse{Cards: cards})
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(r, "columnId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.CreateCard(domain.CardCreationData{Title: body.Title, ColumnId: columnId})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, api.CardResponse{Card: card}, http.StatusCreated)
}

// DeleteCards bulk-deletes every card in a column, typically right before
// the column itself is deleted.
func (h *Handler) DeleteCards(w http.ResponseWriter, r *http.Request) {
	columnId, err := parseIdParam(r, "columnId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	deleted, err := h.board.DeleteCardsByColumn(columnId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.DeletedResponse{DeletedCount: deleted})
}

func (h *Handler) GetCardDetail(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	detail, err := h.board.CardDetail(cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, api.CardDetailResponse{CardDetail: detail})
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.DeleteCard(cardId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.MoveCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.MoveCard(cardId, body.ColumnId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) EditCardTitle(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.EditCardTitleRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.EditCardTitle(cardId, body.Title); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) EditCardDescription(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.EditCardDescriptionRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.EditCardDescription(cardId, body.Description); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetCardDates(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.SetCardDatesRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	start, err := parseOptionalDate(body.StartDate)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	end, err := parseOptionalDate(body.EndDate)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.SetCardDates(cardId, start, end); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) SetCardAssignee(w http.ResponseWriter, r *http.Request) {
	cardId, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.SetCardAssigneeRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.SetCardAssignee(cardId, body.Assignee); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	return service.ParseDate(*s)
}
