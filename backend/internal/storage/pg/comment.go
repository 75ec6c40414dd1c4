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

// =========================================================================
// Public Methods (satisfy the service.CommentStorage interface)
// =========================================================================

// CreateComment appends a comment to a card and returns it with the
// author's display fields resolved.
func (s *Storage) CreateComment(data domain.CommentCreationData, authorId domain.UserId) (domain.Comment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var comment domain.Comment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		comment, err = s.createComment(tx, data, authorId)
		return err
	})
	return comment, err
}

// Comment fetches a single comment with author display fields.
func (s *Storage) Comment(id domain.CommentId) (domain.Comment, error) {
	return s.comment(s.db, id)
}

// CommentsByCard lists a card's comments oldest first.
func (s *Storage) CommentsByCard(cardId domain.CardId) ([]domain.Comment, error) {
	return s.commentsByCard(s.db, cardId)
}

// UpdateComment replaces a comment's content. The author fields are
// immutable after creation.
func (s *Storage) UpdateComment(id domain.CommentId, content string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateComment(tx, id, content)
	})
}

// DeleteComment removes a comment.
func (s *Storage) DeleteComment(id domain.CommentId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteComment(tx, id)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createComment(tx *sql.Tx, data domain.CommentCreationData, authorId domain.UserId) (domain.Comment, error) {
	var id domain.CommentId
	err := tx.QueryRow("INSERT INTO comments(content, card_id, author_id, file_url) VALUES($1, $2, $3, $4) RETURNING id",
		data.Content, data.CardId, authorId, data.FileUrl).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
		}
		return domain.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	return s.comment(tx, id)
}

func (s *Storage) comment(q Querier, id domain.CommentId) (domain.Comment, error) {
	var c domain.Comment
	err := q.QueryRow(`
        SELECT c.id, c.content, c.card_id, c.author_id, u.username, u.email, c.file_url
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.id = $1`,
		id,
	).Scan(&c.Id, &c.Content, &c.CardId, &c.AuthorId, &c.AuthorName, &c.AuthorEmail, &c.FileUrl)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Comment{}, &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
		}
		return domain.Comment{}, fmt.Errorf("failed to query comment: %w", err)
	}
	return c, nil
}

func (s *Storage) commentsByCard(q Querier, cardId domain.CardId) ([]domain.Comment, error) {
	rows, err := q.Query(`
        SELECT c.id, c.content, c.card_id, c.author_id, u.username, u.email, c.file_url
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.card_id = $1
        ORDER BY c.id`,
		cardId)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.Id, &c.Content, &c.CardId, &c.AuthorId, &c.AuthorName, &c.AuthorEmail, &c.FileUrl); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Storage) updateComment(q Querier, id domain.CommentId, content string) error {
	result, err := q.Exec("UPDATE comments SET content = $1 WHERE id = $2", content, id)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for comment update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Comment not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteComment(q Querier, id domain.CommentId) error {
	result, err := q.Exec("DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for comment deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Comment not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}
