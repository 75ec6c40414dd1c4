package api

import "github.com/plankhq/plank/shared/domain"

// Request DTOs

// The sender is always the authenticated user; the payload carries only
// the message body.
type SendChatRequest struct {
	Content string `json:"content" validate:"required"`
}

// Response DTOs

type ChatMessageResponse struct {
	domain.ChatMessage
}

// Transcript is always returned whole, ascending by creation time. Clients
// replace their mirror with it rather than merging.
type ChatListResponse struct {
	Messages []domain.ChatMessage `json:"messages"`
}
