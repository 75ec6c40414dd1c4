package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lib/pq"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

// =========================================================================
// Public Methods (satisfy the service.BoardStorage interface)
// =========================================================================

// CreateColumn appends a column to a project's board.
func (s *Storage) CreateColumn(projectId domain.ProjectId, title string) (domain.Column, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var column domain.Column
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		column, err = s.createColumn(tx, projectId, title)
		return err
	})
	return column, err
}

// Columns lists a project's columns in creation order.
func (s *Storage) Columns(projectId domain.ProjectId) ([]domain.Column, error) {
	return s.columns(s.db, projectId)
}

// Column fetches a single column by id.
func (s *Storage) Column(id domain.ColumnId) (domain.Column, error) {
	return s.column(s.db, id)
}

// DeleteColumn removes a column. The cards FK is not cascading: callers
// must delete the column's cards first or this returns a conflict.
func (s *Storage) DeleteColumn(id domain.ColumnId) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteColumn(tx, id)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// =========================================================================

func (s *Storage) createColumn(q Querier, projectId domain.ProjectId, title string) (domain.Column, error) {
	var column domain.Column
	err := q.QueryRow("INSERT INTO columns(title, project_id) VALUES($1, $2) RETURNING id, title, project_id",
		title, projectId).Scan(&column.Id, &column.Title, &column.ProjectId)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Column{}, &internal_errors.ErrorWithStatusCode{Message: "Project not found", StatusCode: http.StatusNotFound}
		}
		return domain.Column{}, fmt.Errorf("failed to insert column: %w", err)
	}
	return column, nil
}

func (s *Storage) columns(q Querier, projectId domain.ProjectId) ([]domain.Column, error) {
	rows, err := q.Query("SELECT id, title, project_id FROM columns WHERE project_id = $1 ORDER BY id", projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	columns := []domain.Column{}
	for rows.Next() {
		var c domain.Column
		if err := rows.Scan(&c.Id, &c.Title, &c.ProjectId); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (s *Storage) column(q Querier, id domain.ColumnId) (domain.Column, error) {
	var c domain.Column
	err := q.QueryRow("SELECT id, title, project_id FROM columns WHERE id = $1", id).
		Scan(&c.Id, &c.Title, &c.ProjectId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Column{}, &internal_errors.ErrorWithStatusCode{Message: "Column not found", StatusCode: http.StatusNotFound}
		}
		return domain.Column{}, fmt.Errorf("failed to query column: %w", err)
	}
	return c, nil
}

func (s *Storage) deleteColumn(q Querier, id domain.ColumnId) error {
	result, err := q.Exec("DELETE FROM columns WHERE id = $1", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &internal_errors.ErrorWithStatusCode{Message: "Column still has cards", StatusCode: http.StatusConflict}
		}
		return fmt.Errorf("failed to delete column: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for column deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Column not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}

// isForeignKeyViolation reports a 23503 FK violation from lib/pq.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
