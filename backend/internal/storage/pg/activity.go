package pg

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

// WriteActivityLog appends an audit entry to a project.
func (s *Storage) WriteActivityLog(log domain.ActivityLog) (domain.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var saved domain.ActivityLog
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
            INSERT INTO activity_logs(author_id, log_type, content, project_id)
            VALUES($1, $2, $3, $4)
            RETURNING id, author_id, log_type, content, project_id, (created_at at time zone 'utc')`,
			log.AuthorId, log.LogType, log.Content, log.ProjectId,
		).Scan(&saved.Id, &saved.AuthorId, &saved.LogType, &saved.Content, &saved.ProjectId, &saved.CreatedAt)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &internal_errors.ErrorWithStatusCode{Message: "Project not found", StatusCode: http.StatusNotFound}
			}
			return fmt.Errorf("failed to insert activity log: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.ActivityLog{}, err
	}
	return saved, nil
}

// ActivityLogs lists a project's audit entries newest first.
func (s *Storage) ActivityLogs(projectId domain.ProjectId) ([]domain.ActivityLog, error) {
	rows, err := s.db.Query(`
        SELECT id, author_id, log_type, content, project_id, (created_at at time zone 'utc')
        FROM activity_logs
        WHERE project_id = $1
        ORDER BY created_at DESC, id DESC`,
		projectId)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	logs := []domain.ActivityLog{}
	for rows.Next() {
		var l domain.ActivityLog
		if err := rows.Scan(&l.Id, &l.AuthorId, &l.LogType, &l.Content, &l.ProjectId, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity log row: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
