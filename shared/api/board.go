package api

import "github.com/plankhq/plank/shared/domain"

// Request DTOs

type CreateColumnRequest struct {
	Title string `json:"title" validate:"required"`
}

type CreateCardRequest struct {
	Title string `json:"title" validate:"required"`
}

type MoveCardRequest struct {
	ColumnId int64 `json:"column_id" validate:"required"`
}

type EditCardTitleRequest struct {
	Title string `json:"title" validate:"required"`
}

// Description may legitimately be cleared, so no required tag.
type EditCardDescriptionRequest struct {
	Description string `json:"description"`
}

type SetCardDatesRequest struct {
	StartDate *string `json:"start_date"` // YYYY-MM-DD, null clears
	EndDate   *string `json:"end_date"`
}

// Null assignee unassigns the card.
type SetCardAssigneeRequest struct {
	Assignee *int64 `json:"assignee"`
}

// Response DTOs

type ColumnListResponse struct {
	Columns []domain.Column `json:"columns"`
}

type ColumnResponse struct {
	domain.Column
}

type CardListResponse struct {
	Cards []domain.Card `json:"cards"`
}

type CardResponse struct {
	domain.Card
}

type CardDetailResponse struct {
	domain.CardDetail
}

type DeletedResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
