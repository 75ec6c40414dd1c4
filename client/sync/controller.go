package sync

import (
	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
)

// Publisher pushes a signal onto the broadcast channel; *Subscriber
// satisfies it.
type Publisher interface {
	Publish(signal api.Signal) error
}

// MutationAPI is the slice of the API client the controller drives.
type MutationAPI interface {
	CreateColumn(projectId int64, title string) (domain.Column, error)
	DeleteColumn(projectId, columnId int64) error
	CreateCard(projectId, columnId int64, title string) (domain.Card, error)
	DeleteCard(projectId, cardId int64) error
	DeleteCards(projectId, columnId int64) (int64, error)
	MoveCard(projectId, cardId, columnId int64) error
	EditCardTitle(projectId, cardId int64, title string) error
	EditCardDescription(projectId, cardId int64, description string) error
	SetCardDates(projectId, cardId int64, startDate, endDate *string) error
	SetCardAssignee(projectId, cardId int64, assignee *int64) error
	CreateComment(projectId, cardId int64, content string, fileUrl *string) (domain.Comment, error)
	EditComment(projectId, commentId int64, content string) error
	DeleteComment(projectId, commentId int64) error
	SendChatMessage(projectId int64, content string) (domain.ChatMessage, error)
}

// Controller couples mutations to the broadcast channel: every method
// calls the API first and emits the matching signal only when the call
// succeeded. A failed mutation emits nothing, so other subscribers never
// refetch state that didn't change.
type Controller struct {
	api       MutationAPI
	pub       Publisher
	projectId int64
}

func NewController(api MutationAPI, pub Publisher, projectId int64) *Controller {
	return &Controller{api: api, pub: pub, projectId: projectId}
}

func (c *Controller) boardChanged() error {
	return c.pub.Publish(api.Signal{Kind: api.SignalChanged, ProjectId: c.projectId})
}

func (c *Controller) modalChanged(cardId int64) error {
	return c.pub.Publish(api.Signal{Kind: api.SignalModalChanged, ProjectId: c.projectId, CardId: cardId})
}

func (c *Controller) CreateColumn(title string) (domain.Column, error) {
	column, err := c.api.CreateColumn(c.projectId, title)
	if err != nil {
		return domain.Column{}, err
	}
	return column, c.boardChanged()
}

// DeleteColumn bulk-deletes the column's cards first; the backend refuses
// to drop a column that still has any.
func (c *Controller) DeleteColumn(columnId int64) error {
	if _, err := c.api.DeleteCards(c.projectId, columnId); err != nil {
		return err
	}
	if err := c.api.DeleteColumn(c.projectId, columnId); err != nil {
		return err
	}
	return c.boardChanged()
}

func (c *Controller) CreateCard(columnId int64, title string) (domain.Card, error) {
	card, err := c.api.CreateCard(c.projectId, columnId, title)
	if err != nil {
		return domain.Card{}, err
	}
	return card, c.boardChanged()
}

func (c *Controller) DeleteCard(cardId int64) error {
	if err := c.api.DeleteCard(c.projectId, cardId); err != nil {
		return err
	}
	return c.boardChanged()
}

func (c *Controller) MoveCard(cardId, columnId int64) error {
	if err := c.api.MoveCard(c.projectId, cardId, columnId); err != nil {
		return err
	}
	return c.boardChanged()
}

func (c *Controller) EditCardTitle(cardId int64, title string) error {
	if err := c.api.EditCardTitle(c.projectId, cardId, title); err != nil {
		return err
	}
	return c.boardChanged()
}

func (c *Controller) EditCardDescription(cardId int64, description string) error {
	if err := c.api.EditCardDescription(c.projectId, cardId, description); err != nil {
		return err
	}
	return c.modalChanged(cardId)
}

func (c *Controller) SetCardDates(cardId int64, startDate, endDate *string) error {
	if err := c.api.SetCardDates(c.projectId, cardId, startDate, endDate); err != nil {
		return err
	}
	return c.modalChanged(cardId)
}

func (c *Controller) SetCardAssignee(cardId int64, assignee *int64) error {
	if err := c.api.SetCardAssignee(c.projectId, cardId, assignee); err != nil {
		return err
	}
	return c.modalChanged(cardId)
}

func (c *Controller) CreateComment(cardId int64, content string, fileUrl *string) (domain.Comment, error) {
	comment, err := c.api.CreateComment(c.projectId, cardId, content, fileUrl)
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, c.modalChanged(cardId)
}

func (c *Controller) EditComment(commentId, cardId int64, content string) error {
	if err := c.api.EditComment(c.projectId, commentId, content); err != nil {
		return err
	}
	return c.modalChanged(cardId)
}

func (c *Controller) DeleteComment(commentId, cardId int64) error {
	if err := c.api.DeleteComment(c.projectId, commentId); err != nil {
		return err
	}
	return c.modalChanged(cardId)
}

func (c *Controller) SendChatMessage(content string) (domain.ChatMessage, error) {
	message, err := c.api.SendChatMessage(c.projectId, content)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return message, c.pub.Publish(api.Signal{Kind: api.SignalMessage, ProjectId: c.projectId})
}
