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
// Public Methods (satisfy the service.BoardStorage interface)
// =========================================================================

// CreateCard appends a card to a column.
func (s *Storage) CreateCard(data domain.CardCreationData) (domain.Card, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var card domain.Card
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		card, err = s.createCard(tx, data)
		return err
	})
	return card, err
}

// Card fetches a single card by id.
func (s *Storage) Card(id domain.CardId) (domain.Card, error) {
	return s.card(s.db, id)
}

// CardsByColumn lists a column's cards in creation order. An empty column
// yields an empty slice, not an error.
func (s *Storage) CardsByColumn(columnId domain.ColumnId) ([]domain.Card, error) {
	return s.cardsByColumn(s.db, columnId)
}

// CardDetail fetches the modal view of a card: dates, description and the
// assignee's username resolved in one join.
func (s *Storage) CardDetail(id domain.CardId) (domain.CardDetail, error) {
	return s.cardDetail(s.db, id)
}

// MoveCard reparents a card under a different column. It is a single
// column_id update; nothing else about the card changes.
func (s *Storage) MoveCard(id domain.CardId, columnId domain.ColumnId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.moveCard(tx, id, columnId)
	})
}

// UpdateCardTitle renames a card.
func (s *Storage) UpdateCardTitle(id domain.CardId, title string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateCardField(tx, id, "title", title)
	})
}

// UpdateCardDescription replaces a card's description; empty clears it.
func (s *Storage) UpdateCardDescription(id domain.CardId, description string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updateCardField(tx, id, "description", description)
	})
}

// SetCardDates sets the start/end window; nil clears a bound.
func (s *Storage) SetCardDates(id domain.CardId, start, end *time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.setCardDates(tx, id, start, end)
	})
}

// SetCardAssignee assigns the card to a user; nil unassigns.
func (s *Storage) SetCardAssignee(id domain.CardId, assignee *domain.UserId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.setCardAssignee(tx, id, assignee)
	})
}

// DeleteCard removes a single card.
func (s *Storage) DeleteCard(id domain.CardId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteCard(tx, id)
	})
}

// DeleteCardsByColumn bulk-deletes every card in a column and reports how
// many rows went. Zero is a valid outcome.
func (s *Storage) DeleteCardsByColumn(columnId domain.ColumnId) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var deleted int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = s.deleteCardsByColumn(tx, columnId)
		return err
	})
	return deleted, err
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createCard(q Querier, data domain.CardCreationData) (domain.Card, error) {
	var card domain.Card
	err := q.QueryRow("INSERT INTO cards(title, column_id) VALUES($1, $2) RETURNING id, title, description, column_id",
		data.Title, data.ColumnId).
		Scan(&card.Id, &card.Title, &card.Description, &card.ColumnId)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Card{}, &internal_errors.ErrorWithStatusCode{Message: "Column not found", StatusCode: http.StatusNotFound}
		}
		return domain.Card{}, fmt.Errorf("failed to insert card: %w", err)
	}
	return card, nil
}

func (s *Storage) card(q Querier, id domain.CardId) (domain.Card, error) {
	var card domain.Card
	err := q.QueryRow(`
        SELECT id, title, description, column_id, assignee, start_date, end_date
        FROM cards WHERE id = $1`,
		id,
	).Scan(&card.Id, &card.Title, &card.Description, &card.ColumnId, &card.Assignee, &card.StartDate, &card.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Card{}, &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
		}
		return domain.Card{}, fmt.Errorf("failed to query card: %w", err)
	}
	return card, nil
}

func (s *Storage) cardsByColumn(q Querier, columnId domain.ColumnId) ([]domain.Card, error) {
	rows, err := q.Query(`
        SELECT id, title, description, column_id, assignee, start_date, end_date
        FROM cards WHERE column_id = $1 ORDER BY id`,
		columnId)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.Id, &c.Title, &c.Description, &c.ColumnId, &c.Assignee, &c.StartDate, &c.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *Storage) cardDetail(q Querier, id domain.CardId) (domain.CardDetail, error) {
	var detail domain.CardDetail
	err := q.QueryRow(`
        SELECT c.assignee, u.username, c.start_date, c.end_date, c.description
        FROM cards c
        LEFT JOIN users u ON u.id = c.assignee
        WHERE c.id = $1`,
		id,
	).Scan(&detail.Assignee, &detail.AssigneeUsername, &detail.StartDate, &detail.EndDate, &detail.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CardDetail{}, &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
		}
		return domain.CardDetail{}, fmt.Errorf("failed to query card detail: %w", err)
	}
	return detail, nil
}

func (s *Storage) moveCard(q Querier, id domain.CardId, columnId domain.ColumnId) error {
	result, err := q.Exec("UPDATE cards SET column_id = $1 WHERE id = $2", columnId, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Column not found", StatusCode: http.StatusNotFound}
		}
		return fmt.Errorf("failed to move card: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for card move: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

// updateCardField updates a single whitelisted column of a card.
func (s *Storage) updateCardField(q Querier, id domain.CardId, field, value string) error {
	if field != "title" && field != "description" {
		return fmt.Errorf("unexpected card field %q", field)
	}
	result, err := q.Exec(fmt.Sprintf("UPDATE cards SET %s = $1 WHERE id = $2", field), value, id)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", field, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for card update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) setCardDates(q Querier, id domain.CardId, start, end *time.Time) error {
	result, err := q.Exec("UPDATE cards SET start_date = $1, end_date = $2 WHERE id = $3", start, end, id)
	if err != nil {
		return fmt.Errorf("failed to set card dates: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for date update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) setCardAssignee(q Querier, id domain.CardId, assignee *domain.UserId) error {
	result, err := q.Exec("UPDATE cards SET assignee = $1 WHERE id = $2", assignee, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Assignee not found", StatusCode: http.StatusNotFound}
		}
		return fmt.Errorf("failed to set card assignee: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for assignee update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteCard(q Querier, id domain.CardId) error {
	result, err := q.Exec("DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for card deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Card not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteCardsByColumn(q Querier, columnId domain.ColumnId) (int64, error) {
	result, err := q.Exec("DELETE FROM cards WHERE column_id = $1", columnId)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk-delete cards: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows for bulk card deletion: %w", err)
	}
	return deleted, nil
}
