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

// SaveInvite persists a fresh invite token for a project.
func (s *Storage) SaveInvite(invite domain.InviteToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO invite_tokens(token, project_id, inviter_email) VALUES($1, $2, $3)",
			invite.Token, invite.ProjectId, invite.InviterEmail)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &internal_errors.ErrorWithStatusCode{Message: "Project not found", StatusCode: http.StatusNotFound}
			}
			return fmt.Errorf("failed to insert invite token: %w", err)
		}
		return nil
	})
}

// ConsumeInvite marks an invite token used and returns it. A token can be
// consumed once: the row is locked, checked, then flipped, all in one tx.
func (s *Storage) ConsumeInvite(token string) (domain.InviteToken, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var invite domain.InviteToken
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRow(`
            SELECT token, project_id, inviter_email, used, (created_at at time zone 'utc')
            FROM invite_tokens WHERE token = $1
            FOR UPDATE`,
			token,
		).Scan(&invite.Token, &invite.ProjectId, &invite.InviterEmail, &invite.Used, &invite.CreatedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &internal_errors.ErrorWithStatusCode{Message: "Invite not found", StatusCode: http.StatusNotFound}
			}
			return fmt.Errorf("failed to query invite token: %w", err)
		}
		if invite.Used {
			return &internal_errors.ErrorWithStatusCode{Message: "Invite already used", StatusCode: http.StatusConflict}
		}

		if _, err := tx.Exec("UPDATE invite_tokens SET used = TRUE WHERE token = $1", token); err != nil {
			return fmt.Errorf("failed to mark invite used: %w", err)
		}
		invite.Used = true
		return nil
	})
	if err != nil {
		return domain.InviteToken{}, err
	}
	return invite, nil
}
