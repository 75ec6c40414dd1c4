package apiclient

import (
	"fmt"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/domain"
)

// === Comment Methods ===

func (c *APIClient) GetComments(projectId, cardId int64) ([]domain.Comment, error) {
	var response api.CommentListResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/cards/%d/comments", projectId, cardId), nil, &response); err != nil {
		return nil, err
	}
	return response.Comments, nil
}

func (c *APIClient) CreateComment(projectId, cardId int64, content string, fileUrl *string) (domain.Comment, error) {
	var response api.CommentResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/cards/%d/comments", projectId, cardId), api.CreateCommentRequest{Content: content, FileUrl: fileUrl}, &response)
	return response.Comment, err
}

func (c *APIClient) EditComment(projectId, commentId int64, content string) error {
	return c.doJSON("PUT", fmt.Sprintf("/v1/projects/%d/comments/%d", projectId, commentId), api.EditCommentRequest{Content: content}, nil)
}

func (c *APIClient) DeleteComment(projectId, commentId int64) error {
	return c.doJSON("DELETE", fmt.Sprintf("/v1/projects/%d/comments/%d", projectId, commentId), nil, nil)
}

// === Chat Methods ===

// GetChat returns the whole transcript, oldest first. Callers replace
// their local copy with it.
func (c *APIClient) GetChat(projectId int64) ([]domain.ChatMessage, error) {
	var response api.ChatListResponse
	if err := c.doJSON("GET", fmt.Sprintf("/v1/projects/%d/chat", projectId), nil, &response); err != nil {
		return nil, err
	}
	return response.Messages, nil
}

func (c *APIClient) SendChatMessage(projectId int64, content string) (domain.ChatMessage, error) {
	var response api.ChatMessageResponse
	err := c.doJSON("POST", fmt.Sprintf("/v1/projects/%d/chat", projectId), api.SendChatRequest{Content: content}, &response)
	return response.ChatMessage, err
}
