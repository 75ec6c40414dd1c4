package pg

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/plankhq/plank/shared/domain"
)

// DueCards lists assigned cards whose deadline falls exactly on the given
// calendar day. Unassigned cards are skipped: there is nobody to remind.
func (s *Storage) DueCards(endDate time.Time) ([]domain.DueCard, error) {
	rows, err := s.db.Query(`
        SELECT c.id, c.title, c.end_date, u.email, u.username, p.name
        FROM cards c
        JOIN users u ON u.id = c.assignee
        JOIN columns col ON col.id = c.column_id
        JOIN projects p ON p.id = col.project_id
        WHERE c.end_date = $1
        ORDER BY c.id`,
		endDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.DueCard{}
	for rows.Next() {
		var c domain.DueCard
		if err := rows.Scan(&c.CardId, &c.Title, &c.EndDate, &c.AssigneeEmail, &c.AssigneeUsername, &c.ProjectName); err != nil {
			return nil, fmt.Errorf("failed to scan due card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// MarkReminderSent records the (card, offset, day) marker. It returns
// false when the marker already exists, making reminder delivery
// at-most-once per card, offset and calendar day.
func (s *Storage) MarkReminderSent(cardId domain.CardId, offsetKind string, sentOn time.Time) (bool, error) {
	result, err := s.db.Exec(`
        INSERT INTO reminder_log(card_id, offset_kind, sent_on)
        VALUES($1, $2, $3)
        ON CONFLICT (card_id, offset_kind, sent_on) DO NOTHING`,
		cardId, offsetKind, sentOn.Format("2006-01-02"))
	if err != nil {
		return false, fmt.Errorf("failed to insert reminder marker: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows for reminder marker: %w", err)
	}
	return rowsAffected > 0, nil
}
