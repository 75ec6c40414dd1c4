package service

import (
	"strings"

	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
)

type CommentService interface {
	Create(data domain.CommentCreationData) (domain.Comment, error)
	CommentsByCard(cardId domain.CardId) ([]domain.Comment, error)
	Edit(commentId domain.CommentId, content string) error
	Delete(commentId domain.CommentId) error
}

type CommentStorage interface {
	CreateComment(data domain.CommentCreationData, authorId domain.UserId) (domain.Comment, error)
	CommentsByCard(cardId domain.CardId) ([]domain.Comment, error)
	UpdateComment(id domain.CommentId, content string) error
	DeleteComment(id domain.CommentId) error
	User(email domain.Email) (domain.User, error)
}

type Comment struct {
	storage   CommentStorage
	validator Validator
}

func NewComment(storage CommentStorage, validator Validator) *Comment {
	return &Comment{storage: storage, validator: validator}
}

// Create resolves the author by email and appends the comment; the stored
// row comes back with the author's display fields for immediate render.
func (c *Comment) Create(data domain.CommentCreationData) (domain.Comment, error) {
	author, err := c.storage.User(strings.ToLower(data.AuthorEmail))
	if err != nil {
		return domain.Comment{}, err
	}

	data.Content = utils.SanitizeText(data.Content)
	if data.Content == "" && data.FileUrl == nil {
		return domain.Comment{}, errors.MissingField("Comment is empty")
	}
	if err := c.validator.Body(data.Content); err != nil {
		return domain.Comment{}, err
	}

	return c.storage.CreateComment(data, author.Id)
}

func (c *Comment) CommentsByCard(cardId domain.CardId) ([]domain.Comment, error) {
	return c.storage.CommentsByCard(cardId)
}

func (c *Comment) Edit(commentId domain.CommentId, content string) error {
	content = utils.SanitizeText(content)
	if content == "" {
		return errors.MissingField("Comment is empty")
	}
	if err := c.validator.Body(content); err != nil {
		return err
	}
	return c.storage.UpdateComment(commentId, content)
}

func (c *Comment) Delete(commentId domain.CommentId) error {
	return c.storage.DeleteComment(commentId)
}
