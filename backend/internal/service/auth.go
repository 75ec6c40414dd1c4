package service

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/plankhq/plank/backend/internal/utils"
	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/domain"
	"github.com/plankhq/plank/shared/errors"
	"github.com/plankhq/plank/shared/logger"
)

type AuthService interface {
	Register(username string, creds domain.Credentials) error
	CheckConfirmationCode(email domain.Email, confirmationCode string) error
	Login(creds domain.Credentials) (string, domain.User, error)
	ChangePassword(email domain.Email, currentPassword, newPassword string) error
	CreateLoginToken(email domain.Email) (domain.LoginToken, error)
	RedeemLoginToken(token string) (string, domain.User, error)
	DeleteLoginToken(token string) error
}

type Auth struct {
	storage AuthStorage
	email   Email
	jwt     Jwt
	cfg     *config.Public
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	MarkVerified(email domain.Email) error
	UpdatePassword(creds domain.Credentials) error
	SaveConfirmationData(data domain.ConfirmationData) error
	ConfirmationData(email domain.Email) (domain.ConfirmationData, error)
	DeleteConfirmationData(email domain.Email) error
	SaveLoginToken(token domain.LoginToken) error
	LoginToken(token string) (domain.LoginToken, error)
	DeleteLoginToken(token string) error
}

type Email interface {
	Send(recipientEmail, subject, body string) error
	IsCorrect(email domain.Email) error
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, email Email, jwt Jwt, cfg *config.Public) *Auth {
	return &Auth{
		storage: storage,
		email:   email,
		jwt:     jwt,
		cfg:     cfg,
	}
}

// Register creates an unverified account and emails a confirmation code.
func (a *Auth) Register(username string, creds domain.Credentials) error {
	email := strings.ToLower(creds.Email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	if _, err := a.storage.User(email); err == nil {
		return &errors.ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusConflict}
	} else if !errors.IsNotFound(err) {
		return err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	if _, err := a.storage.SaveUser(domain.User{
		Username: utils.SanitizeText(username),
		Email:    email,
		PassHash: string(passHash),
	}); err != nil {
		return err
	}

	return a.sendConfirmationCode(email)
}

func (a *Auth) sendConfirmationCode(email domain.Email) error {
	confirmationCode := utils.GenerateConfirmationCode(a.cfg.ConfirmationCodeLen)
	confirmationCodeHash, err := bcrypt.GenerateFromPassword([]byte(confirmationCode), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash confirmation code", "error", err)
		return err
	}
	err = a.storage.SaveConfirmationData(domain.ConfirmationData{
		Email:    email,
		CodeHash: string(confirmationCodeHash),
		Expires:  time.Now().UTC().Add(5 * time.Minute),
	})
	if err != nil {
		return err
	}

	emailBody := fmt.Sprintf(`
		Hello,

		Your confirmation code below

		%s

		If you did not request this, please ignore this email.
	`, confirmationCode)

	return a.email.Send(email, "Please confirm your email address", emailBody)
}

// CheckConfirmationCode verifies the emailed code and marks the account
// verified.
func (a *Auth) CheckConfirmationCode(email domain.Email, confirmationCode string) error {
	email = strings.ToLower(email)

	if err := a.email.IsCorrect(email); err != nil {
		return err
	}

	data, err := a.storage.ConfirmationData(email)
	if err != nil {
		return err
	}
	if data.Expires.Before(time.Now()) {
		return &errors.ErrorWithStatusCode{Message: "Confirmation time expired", StatusCode: http.StatusBadRequest}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(data.CodeHash), []byte(confirmationCode)); err != nil {
		logger.Log.Error("confirmation code verification failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Wrong confirmation code", StatusCode: http.StatusBadRequest}
	}

	if err := a.storage.MarkVerified(email); err != nil {
		return err
	}
	if err := a.storage.DeleteConfirmationData(email); err != nil { // cleanup
		return err
	}
	return nil
}

// Login checks credentials and returns an access token with the user.
// Unknown emails and wrong passwords both come back as 401 so existing
// accounts don't leak.
func (a *Auth) Login(creds domain.Credentials) (string, domain.User, error) {
	email := strings.ToLower(creds.Email)
	password := creds.Password

	if err := a.email.IsCorrect(email); err != nil {
		return "", domain.User{}, err
	}

	user, err := a.storage.User(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.User{}, &errors.ErrorWithStatusCode{
				Message:    "Invalid credentials",
				StatusCode: http.StatusUnauthorized,
			}
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Error("password verification failed", "error", err)
		return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	if !user.IsVerified {
		return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Email not verified", StatusCode: http.StatusForbidden}
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}

	return token, user, nil
}

// ChangePassword re-checks the current password before storing a hash of
// the new one. The session is already authenticated; the re-check guards
// against a hijacked cookie.
func (a *Auth) ChangePassword(email domain.Email, currentPassword, newPassword string) error {
	email = strings.ToLower(email)

	user, err := a.storage.User(email)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(currentPassword)); err != nil {
		logger.Log.Error("password verification failed", "error", err)
		return &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return err
	}

	return a.storage.UpdatePassword(domain.Credentials{Email: email, Password: string(passHash)})
}

// CreateLoginToken issues a single-use uuid token the browser can stash
// and redeem later for a fresh session.
func (a *Auth) CreateLoginToken(email domain.Email) (domain.LoginToken, error) {
	ttl := a.cfg.LoginTokenTTL
	if ttl == 0 {
		ttl = time.Hour
	}
	token := domain.LoginToken{
		Email:     strings.ToLower(email),
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	if err := a.storage.SaveLoginToken(token); err != nil {
		return domain.LoginToken{}, err
	}
	return token, nil
}

// RedeemLoginToken exchanges a valid stored token for an access token.
// The stored token is deleted whether it was expired or redeemed.
func (a *Auth) RedeemLoginToken(token string) (string, domain.User, error) {
	stored, err := a.storage.LoginToken(token)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Invalid login token", StatusCode: http.StatusUnauthorized}
		}
		return "", domain.User{}, err
	}

	if stored.ExpiresAt.Before(time.Now()) {
		if err := a.storage.DeleteLoginToken(token); err != nil {
			logger.Log.Warn("failed to delete expired login token", "error", err)
		}
		return "", domain.User{}, &errors.ErrorWithStatusCode{Message: "Login token expired", StatusCode: http.StatusUnauthorized}
	}

	user, err := a.storage.User(stored.Email)
	if err != nil {
		return "", domain.User{}, err
	}

	accessToken, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create jwt token", "user_id", user.Id, "error", err)
		return "", domain.User{}, err
	}

	if err := a.storage.DeleteLoginToken(token); err != nil {
		logger.Log.Warn("failed to delete redeemed login token", "error", err)
	}

	return accessToken, user, nil
}

// DeleteLoginToken discards a stored token on logout.
func (a *Auth) DeleteLoginToken(token string) error {
	err := a.storage.DeleteLoginToken(token)
	if err != nil && errors.IsNotFound(err) {
		return nil // already gone
	}
	return err
}
