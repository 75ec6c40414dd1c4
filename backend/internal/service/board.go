package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
	"github.com/plankhq/plank/shared/logger"
)

type BoardService interface {
	Columns(projectId domain.ProjectId) ([]domain.Column, error)
	CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error)
	DeleteColumn(columnId domain.ColumnId) error
	CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error)
	CreateCard(data domain.CardCreationData) (domain.Card, error)
	DeleteCard(cardId domain.CardId) error
	DeleteCardsByColumn(columnId domain.ColumnId) (int64, error)
	MoveCard(cardId domain.CardId, columnId domain.ColumnId) error
	EditCardTitle(cardId domain.CardId, title string) error
	EditCardDescription(cardId domain.CardId, description string) error
	SetCardDates(cardId domain.CardId, start, end *time.Time) error
	SetCardAssignee(cardId domain.CardId, assignee *domain.UserId) error
	CardDetail(cardId domain.CardId) (domain.CardDetail, error)
}

type BoardStorage interface {
	Project(id domain.ProjectId) (domain.Project, error)
	Columns(projectId domain.ProjectId) ([]domain.Column, error)
	CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error)
	DeleteColumn(id domain.ColumnId) error
	Card(id domain.CardId) (domain.Card, error)
	CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error)
	CreateCard(data domain.CardCreationData) (domain.Card, error)
	DeleteCard(id domain.CardId) error
	DeleteCardsByColumn(columnId domain.ColumnId) (int64, error)
	MoveCard(id domain.CardId, columnId domain.ColumnId) error
	UpdateCardTitle(id domain.CardId, title string) error
	UpdateCardDescription(id domain.CardId, description string) error
	SetCardDates(id domain.CardId, start, end *time.Time) error
	SetCardAssignee(id domain.CardId, assignee *domain.UserId) error
	CardDetail(id domain.CardId) (domain.CardDetail, error)
	UserById(id domain.UserId) (domain.User, error)
}

// Validator bounds user-supplied titles and long text.
type Validator interface {
	Title(title string) error
	Body(text string) error
}

type Board struct {
	storage   BoardStorage
	validator Validator
	email     Email
}

func NewBoard(storage BoardStorage, validator Validator, email Email) *Board {
	return &Board{storage: storage, validator: validator, email: email}
}

// Columns lists a project's columns; an absent project is a 404, an empty
// board is an empty list.
func (b *Board) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	if _, err := b.storage.Project(projectId); err != nil {
		return nil, err
	}
	return b.storage.Columns(projectId)
}

func (b *Board) CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error) {
	title = utils.SanitizeText(title)
	if err := b.validator.Title(title); err != nil {
		return domain.Column{}, err
	}
	return b.storage.CreateColumn(projectId, title)
}

// DeleteColumn removes an empty column. Callers are expected to bulk-delete
// the cards first; the storage layer rejects a delete while cards remain.
func (b *Board) DeleteColumn(columnId domain.ColumnId) error {
	return b.storage.DeleteColumn(columnId)
}

func (b *Board) CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error) {
	return b.storage.CardsByColumn(columnId)
}

func (b *Board) CreateCard(data domain.CardCreationData) (domain.Card, error) {
	data.Title = utils.SanitizeText(data.Title)
	if err := b.validator.Title(data.Title); err != nil {
		return domain.Card{}, err
	}
	return b.storage.CreateCard(data)
}

func (b *Board) DeleteCard(cardId domain.CardId) error {
	return b.storage.DeleteCard(cardId)
}

func (b *Board) DeleteCardsByColumn(columnId domain.ColumnId) (int64, error) {
	return b.storage.DeleteCardsByColumn(columnId)
}

func (b *Board) MoveCard(cardId domain.CardId, columnId domain.ColumnId) error {
	return b.storage.MoveCard(cardId, columnId)
}

func (b *Board) EditCardTitle(cardId domain.CardId, title string) error {
	title = utils.SanitizeText(title)
	if err := b.validator.Title(title); err != nil {
		return err
	}
	return b.storage.UpdateCardTitle(cardId, title)
}

// EditCardDescription replaces the description; empty input clears it.
func (b *Board) EditCardDescription(cardId domain.CardId, description string) error {
	description = utils.SanitizeText(description)
	if err := b.validator.Body(description); err != nil {
		return err
	}
	return b.storage.UpdateCardDescription(cardId, description)
}

func (b *Board) SetCardDates(cardId domain.CardId, start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errors.MissingField("End date is before start date")
	}
	return b.storage.SetCardDates(cardId, start, end)
}

// SetCardAssignee assigns the card and notifies the new assignee by email.
// The notification is best-effort: a mail failure never rolls back the
// assignment.
func (b *Board) SetCardAssignee(cardId domain.CardId, assignee *domain.UserId) error {
	if err := b.storage.SetCardAssignee(cardId, assignee); err != nil {
		return err
	}
	if assignee == nil {
		return nil
	}

	user, err := b.storage.UserById(*assignee)
	if err != nil {
		logger.Log.Warn("assignee set but user lookup for notification failed", "card_id", cardId, "error", err)
		return nil
	}
	card, err := b.storage.Card(cardId)
	if err != nil {
		logger.Log.Warn("assignee set but card lookup for notification failed", "card_id", cardId, "error", err)
		return nil
	}

	body := fmt.Sprintf(`
		Hello %s,

		You have been assigned the card "%s".
	`, user.Username, card.Title)
	if err := b.email.Send(user.Email, "You have a new card assignment", body); err != nil {
		logger.Log.Warn("failed to send assignment email", "card_id", cardId, "recipient", user.Email, "error", err)
	}
	return nil
}

func (b *Board) CardDetail(cardId domain.CardId) (domain.CardDetail, error) {
	return b.storage.CardDetail(cardId)
}

// ParseDate parses the YYYY-MM-DD wire format used for card date bounds.
// Empty input clears the bound.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, errors.MissingField("Invalid date, expected YYYY-MM-DD")
	}
	return &t, nil
}
