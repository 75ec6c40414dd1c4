package domain

import "time"

// ChatMessage is append-only and ordered by creation time.
type ChatMessage struct {
	Id        ChatMsgId
	Content   string
	ProjectId ProjectId
	UserId    UserId
	Sender    string // username resolved from users
	CreatedAt time.Time
}

type ChatMessageCreationData struct {
	ProjectId   ProjectId
	AuthorEmail Email
	Content     string
}
