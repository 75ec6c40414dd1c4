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
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser is the public entry point for creating a new user. It wraps the
// core logic in a transaction to ensure the operation is atomic.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User is a public, read-only method to fetch a user by their email. It uses
// the main database connection pool for efficiency.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// UserById fetches a user by primary key.
func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.userById(s.db, id)
}

// MarkVerified flips the verification flag after a confirmation code check.
func (s *Storage) MarkVerified(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markVerified(tx, email)
	})
}

// UpdatePassword is the public entry point for changing a user's password.
// It manages the transaction for this security-sensitive operation.
func (s *Storage) UpdatePassword(creds domain.Credentials) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.updatePassword(tx, creds)
	})
}

// DeleteUser is the public entry point for deleting a user account.
// The schema's ON DELETE constraints clean up related data.
func (s *Storage) DeleteUser(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUser(tx, email)
	})
}

// SaveConfirmationData stores an email verification code, replacing any
// previous code for the same address.
func (s *Storage) SaveConfirmationData(data domain.ConfirmationData) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveConfirmationData(tx, data)
	})
}

// ConfirmationData is a public, read-only method to retrieve confirmation data.
func (s *Storage) ConfirmationData(email domain.Email) (domain.ConfirmationData, error) {
	return s.confirmationData(s.db, email)
}

// DeleteConfirmationData removes used or expired confirmation data.
func (s *Storage) DeleteConfirmationData(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteConfirmationData(tx, email)
	})
}

// SaveLoginToken stores a single-use session re-login token.
func (s *Storage) SaveLoginToken(token domain.LoginToken) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.saveLoginToken(tx, token)
	})
}

// LoginToken fetches a stored login token by its uuid value.
func (s *Storage) LoginToken(token string) (domain.LoginToken, error) {
	return s.loginToken(s.db, token)
}

// DeleteLoginToken removes a login token (on redeem or logout).
func (s *Storage) DeleteLoginToken(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteLoginToken(tx, token)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO users(username, email, password_hash, is_verified) VALUES($1, $2, $3, $4) RETURNING id",
		user.Username, user.Email, user.PassHash, user.IsVerified).Scan(&id)
	if err != nil {
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, username, email, password_hash, is_verified FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Username, &user.Email, &user.PassHash, &user.IsVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) userById(q Querier, id domain.UserId) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, username, email, password_hash, is_verified FROM users WHERE id = $1", id).
		Scan(&user.Id, &user.Username, &user.Email, &user.PassHash, &user.IsVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) markVerified(q Querier, email domain.Email) error {
	result, err := q.Exec("UPDATE users SET is_verified = TRUE WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for verification: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for verification", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) updatePassword(q Querier, creds domain.Credentials) error {
	result, err := q.Exec("UPDATE users SET password_hash = $1 WHERE email = $2", creds.Password, creds.Email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for password update: %w", err)
	}
	if rowsAffected == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for password update", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) deleteUser(q Querier, email domain.Email) error {
	result, err := q.Exec("DELETE FROM users WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "User not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) saveConfirmationData(q Querier, data domain.ConfirmationData) error {
	_, err := q.Exec(`
        INSERT INTO confirmation_codes(email, code_hash, expires_at)
        VALUES($1, $2, $3)
        ON CONFLICT (email) DO UPDATE SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at`,
		data.Email, data.CodeHash, data.Expires,
	)
	if err != nil {
		return fmt.Errorf("failed to insert confirmation data: %w", err)
	}
	return nil
}

func (s *Storage) confirmationData(q Querier, email domain.Email) (domain.ConfirmationData, error) {
	var data domain.ConfirmationData
	err := q.QueryRow(`
        SELECT email, code_hash, (expires_at at time zone 'utc')
        FROM confirmation_codes WHERE email = $1`,
		email,
	).Scan(&data.Email, &data.CodeHash, &data.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ConfirmationData{}, &internal_errors.ErrorWithStatusCode{Message: "Confirmation data not found", StatusCode: http.StatusNotFound}
		}
		return domain.ConfirmationData{}, fmt.Errorf("failed to query confirmation data: %w", err)
	}
	return data, nil
}

func (s *Storage) deleteConfirmationData(q Querier, email domain.Email) error {
	result, err := q.Exec("DELETE FROM confirmation_codes WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to delete confirmation data: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for confirmation data deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Confirmation data not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}

func (s *Storage) saveLoginToken(q Querier, token domain.LoginToken) error {
	_, err := q.Exec("INSERT INTO login_tokens(token, email, expires_at) VALUES($1, $2, $3)",
		token.Token, token.Email, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert login token: %w", err)
	}
	return nil
}

func (s *Storage) loginToken(q Querier, token string) (domain.LoginToken, error) {
	var lt domain.LoginToken
	err := q.QueryRow(`
        SELECT token, email, (expires_at at time zone 'utc')
        FROM login_tokens WHERE token = $1`,
		token,
	).Scan(&lt.Token, &lt.Email, &lt.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LoginToken{}, &internal_errors.ErrorWithStatusCode{Message: "Login token not found", StatusCode: http.StatusNotFound}
		}
		return domain.LoginToken{}, fmt.Errorf("failed to query login token: %w", err)
	}
	return lt, nil
}

func (s *Storage) deleteLoginToken(q Querier, token string) error {
	result, err := q.Exec("DELETE FROM login_tokens WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete login token: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for login token deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return &internal_errors.ErrorWithStatusCode{Message: "Login token not found for deletion", StatusCode: http.StatusNotFound}
	}
	return nil
}
