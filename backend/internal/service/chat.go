package service

import (
	"strings"

	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
)

type ChatService interface {
	Send(data domain.ChatMessageCreationData) (domain.ChatMessage, error)
	Messages(projectId domain.ProjectId) ([]domain.ChatMessage, error)
}

type ChatStorage interface {
	SaveChatMessage(projectId domain.ProjectId, userId domain.UserId, content string) (domain.ChatMessage, error)
	ChatMessages(projectId domain.ProjectId) ([]domain.ChatMessage, error)
	User(email domain.Email) (domain.User, error)
}

type Chat struct {
	storage   ChatStorage
	validator Validator
}

func NewChat(storage ChatStorage, validator Validator) *Chat {
	return &Chat{storage: storage, validator: validator}
}

// Send resolves the sender by email and appends to the transcript.
func (c *Chat) Send(data domain.ChatMessageCreationData) (domain.ChatMessage, error) {
	sender, err := c.storage.User(strings.ToLower(data.AuthorEmail))
	if err != nil {
		return domain.ChatMessage{}, err
	}

	content := utils.SanitizeText(data.Content)
	if content == "" {
		return domain.ChatMessage{}, errors.MissingField("Message is empty")
	}
	if err := c.validator.Body(content); err != nil {
		return domain.ChatMessage{}, err
	}

	return c.storage.SaveChatMessage(data.ProjectId, sender.Id, content)
}

// Messages returns the full transcript oldest first; receivers always
// replace their mirror wholesale.
func (c *Chat) Messages(projectId domain.ProjectId) ([]domain.ChatMessage, error) {
	return c.storage.ChatMessages(projectId)
}
