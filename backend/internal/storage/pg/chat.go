package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

// SaveChatMessage appends a message to a project's chat and returns it
// with the sender's username resolved.
func (s *Storage) SaveChatMessage(projectId domain.ProjectId, userId domain.UserId, content string) (domain.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg domain.ChatMessage
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		msg, err = s.saveChatMessage(tx, projectId, userId, content)
		return err
	})
	return msg, err
}

// ChatMessages lists a project's chat transcript oldest first.
func (s *Storage) ChatMessages(projectId domain.ProjectId) ([]domain.ChatMessage, error) {
	rows, err := s.db.Query(`
        SELECT m.id, m.content, m.project_id, m.user_id, u.username, (m.created_at at time zone 'utc')
        FROM chat_messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.project_id = $1
        ORDER BY m.created_at, m.id`,
		projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.ChatMessage{}
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.Id, &m.Content, &m.ProjectId, &m.UserId, &m.Sender, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Storage) saveChatMessage(tx *sql.Tx, projectId domain.ProjectId, userId domain.UserId, content string) (domain.ChatMessage, error) {
	var id domain.ChatMsgId
	err := tx.QueryRow("INSERT INTO chat_messages(content, project_id, user_id) VALUES($1, $2, $3) RETURNING id",
		content, projectId, userId).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ChatMessage{}, &internal_errors.ErrorWithStatusCode{Message: "Project not found", StatusCode: http.StatusNotFound}
		}
		return domain.ChatMessage{}, fmt.Errorf("failed to insert chat message: %w", err)
	}

	var msg domain.ChatMessage
	err = tx.QueryRow(`
        SELECT m.id, m.content, m.project_id, m.user_id, u.username, (m.created_at at time zone 'utc')
        FROM chat_messages m
        JOIN users u ON u.id = m.user_id
        WHERE m.id = $1`,
		id,
	).Scan(&msg.Id, &msg.Content, &msg.ProjectId, &msg.UserId, &msg.Sender, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChatMessage{}, &internal_errors.ErrorWithStatusCode{Message: "Chat message not found", StatusCode: http.StatusNotFound}
		}
		return domain.ChatMessage{}, fmt.Errorf("failed to query chat message: %w", err)
	}
	return msg, nil
}
