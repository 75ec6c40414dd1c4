package api

import "github.com/plankhq/plank/shared/domain"

// Request DTOs

// The author is always the authenticated user. Content may be empty when
// a file is attached.
type CreateCommentRequest struct {
	Content string  `json:"content"`
	FileUrl *string `json:"file_url,omitempty"`
}

type EditCommentRequest struct {
	Content string  `json:"content" validate:"required"`
	FileUrl *string `json:"file_url,omitempty"`
}

// Response DTOs

type CommentResponse struct {
	domain.Comment
}

type CommentListResponse struct {
	Comments []domain.Comment `json:"comments"`
}
