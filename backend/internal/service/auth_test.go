package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/plankhq/plank/shared/config"
	"github.com/plankhq/plank/shared/domain"
	internal_errors "github.com/plankhq/plank/shared/errors"
)

func newAuthForTest(storage *MockAuthStorage, email *MockEmail, jwt *MockJwt) *Auth {
	return NewAuth(storage, email, jwt, &config.Public{ConfirmationCodeLen: 6})
}

func assertStatusCode(t *testing.T, err error, want int) {
	t.Helper()
	var statusErr *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, want, statusErr.StatusCode)
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var savedUser domain.User
		var savedConfirmation domain.ConfirmationData
		storage := &MockAuthStorage{
			SaveUserFunc: func(user domain.User) (domain.UserId, error) {
				savedUser = user
				return 1, nil
			},
			SaveConfirmationDataFunc: func(data domain.ConfirmationData) error {
				savedConfirmation = data
				return nil
			},
		}
		email := &MockEmail{}
		auth := newAuthForTest(storage, email, &MockJwt{})

		err := auth.Register("alice", domain.Credentials{Email: "Alice@Example.com", Password: "secret"})
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", savedUser.Email, "email should be lowercased")
		assert.False(t, savedUser.IsVerified)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(savedUser.PassHash), []byte("secret")))

		require.Len(t, email.Sent, 1)
		assert.Equal(t, "alice@example.com", email.Sent[0])
		assert.NotEmpty(t, savedConfirmation.CodeHash)
		assert.NotEqual(t, savedConfirmation.CodeHash, savedConfirmation.Email, "code must be stored hashed")
		assert.True(t, savedConfirmation.Expires.After(time.Now()))
	})

	t.Run("ExistingUser", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(email domain.Email) (domain.User, error) {
				return domain.User{Id: 1, Email: email}, nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		err := auth.Register("alice", domain.Credentials{Email: "alice@example.com", Password: "secret"})
		assertStatusCode(t, err, http.StatusConflict)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		email := &MockEmail{
			IsCorrectFunc: func(e domain.Email) error {
				return internal_errors.MissingField("Invalid email")
			},
		}
		auth := newAuthForTest(&MockAuthStorage{}, email, &MockJwt{})

		err := auth.Register("alice", domain.Credentials{Email: "not-an-email", Password: "secret"})
		assertStatusCode(t, err, http.StatusBadRequest)
		assert.Empty(t, email.Sent)
	})
}

func TestCheckConfirmationCode(t *testing.T) {
	codeHash := hashOf("123456")

	t.Run("Success", func(t *testing.T) {
		verified := false
		deleted := false
		storage := &MockAuthStorage{
			ConfirmationDataFunc: func(email domain.Email) (domain.ConfirmationData, error) {
				return domain.ConfirmationData{
					Email:    email,
					CodeHash: codeHash,
					Expires:  time.Now().Add(5 * time.Minute),
				}, nil
			},
			MarkVerifiedFunc: func(email domain.Email) error {
				verified = true
				return nil
			},
			DeleteConfirmationDataFunc: func(email domain.Email) error {
				deleted = true
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		require.NoError(t, auth.CheckConfirmationCode("alice@example.com", "123456"))
		assert.True(t, verified)
		assert.True(t, deleted)
	})

	t.Run("WrongCode", func(t *testing.T) {
		storage := &MockAuthStorage{
			ConfirmationDataFunc: func(email domain.Email) (domain.ConfirmationData, error) {
				return domain.ConfirmationData{
					Email:    email,
					CodeHash: codeHash,
					Expires:  time.Now().Add(5 * time.Minute),
				}, nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		err := auth.CheckConfirmationCode("alice@example.com", "654321")
		assertStatusCode(t, err, http.StatusBadRequest)
	})

	t.Run("Expired", func(t *testing.T) {
		storage := &MockAuthStorage{
			ConfirmationDataFunc: func(email domain.Email) (domain.ConfirmationData, error) {
				return domain.ConfirmationData{
					Email:    email,
					CodeHash: codeHash,
					Expires:  time.Now().Add(-time.Minute),
				}, nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		err := auth.CheckConfirmationCode("alice@example.com", "123456")
		assertStatusCode(t, err, http.StatusBadRequest)
	})

	t.Run("NoPendingConfirmation", func(t *testing.T) {
		auth := newAuthForTest(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})

		err := auth.CheckConfirmationCode("alice@example.com", "123456")
		assertStatusCode(t, err, http.StatusNotFound)
	})
}

func TestLogin(t *testing.T) {
	passHash := hashOf("password")
	verifiedUser := func(email domain.Email) (domain.User, error) {
		return domain.User{Id: 1, Username: "alice", Email: email, PassHash: passHash, IsVerified: true}, nil
	}

	t.Run("Success", func(t *testing.T) {
		storage := &MockAuthStorage{UserFunc: verifiedUser}
		jwt := &MockJwt{NewTokenFunc: func(user domain.User) (string, error) {
			return "jwt-token", nil
		}}
		auth := newAuthForTest(storage, &MockEmail{}, jwt)

		token, user, err := auth.Login(domain.Credentials{Email: "Alice@Example.com", Password: "password"})
		require.NoError(t, err)
		assert.Equal(t, "jwt-token", token)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		auth := newAuthForTest(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})

		_, _, err := auth.Login(domain.Credentials{Email: "ghost@example.com", Password: "password"})
		assertStatusCode(t, err, http.StatusUnauthorized)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		storage := &MockAuthStorage{UserFunc: verifiedUser}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		_, _, err := auth.Login(domain.Credentials{Email: "alice@example.com", Password: "wrong"})
		assertStatusCode(t, err, http.StatusUnauthorized)
	})

	t.Run("Unverified", func(t *testing.T) {
		storage := &MockAuthStorage{
			UserFunc: func(email domain.Email) (domain.User, error) {
				return domain.User{Id: 1, Email: email, PassHash: passHash, IsVerified: false}, nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		_, _, err := auth.Login(domain.Credentials{Email: "alice@example.com", Password: "password"})
		assertStatusCode(t, err, http.StatusForbidden)
	})
}

func TestChangePassword(t *testing.T) {
	passHash := hashOf("old-password")
	knownUser := func(email domain.Email) (domain.User, error) {
		return domain.User{Id: 1, Email: email, PassHash: passHash, IsVerified: true}, nil
	}

	t.Run("Success", func(t *testing.T) {
		var updated domain.Credentials
		storage := &MockAuthStorage{
			UserFunc: knownUser,
			UpdatePasswordFunc: func(creds domain.Credentials) error {
				updated = creds
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		err := auth.ChangePassword("Alice@Example.com", "old-password", "new-password")
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", updated.Email, "email should be lowercased")
		assert.NotEqual(t, "new-password", updated.Password, "new password must be stored hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password")))
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		called := false
		storage := &MockAuthStorage{
			UserFunc: knownUser,
			UpdatePasswordFunc: func(creds domain.Credentials) error {
				called = true
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		err := auth.ChangePassword("alice@example.com", "wrong", "new-password")
		assertStatusCode(t, err, http.StatusUnauthorized)
		assert.False(t, called, "password must not change without the current one")
	})

	t.Run("UnknownUser", func(t *testing.T) {
		auth := newAuthForTest(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})

		err := auth.ChangePassword("ghost@example.com", "old-password", "new-password")
		assertStatusCode(t, err, http.StatusNotFound)
	})
}

func TestLoginTokens(t *testing.T) {
	passHash := hashOf("password")

	t.Run("CreateSavesToken", func(t *testing.T) {
		var saved domain.LoginToken
		storage := &MockAuthStorage{
			SaveLoginTokenFunc: func(token domain.LoginToken) error {
				saved = token
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		token, err := auth.CreateLoginToken("Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, saved.Token, token.Token)
		assert.Equal(t, "alice@example.com", saved.Email)
		assert.NotEmpty(t, saved.Token)
		assert.True(t, saved.ExpiresAt.After(time.Now()))
	})

	t.Run("RedeemSuccess", func(t *testing.T) {
		deleted := false
		storage := &MockAuthStorage{
			LoginTokenFunc: func(token string) (domain.LoginToken, error) {
				return domain.LoginToken{
					Email:     "alice@example.com",
					Token:     token,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil
			},
			UserFunc: func(email domain.Email) (domain.User, error) {
				return domain.User{Id: 1, Email: email, PassHash: passHash, IsVerified: true}, nil
			},
			DeleteLoginTokenFunc: func(token string) error {
				deleted = true
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		accessToken, user, err := auth.RedeemLoginToken("some-token")
		require.NoError(t, err)
		assert.Equal(t, "token", accessToken)
		assert.Equal(t, domain.UserId(1), user.Id)
		assert.True(t, deleted, "redeemed token must be deleted")
	})

	t.Run("RedeemExpired", func(t *testing.T) {
		deleted := false
		storage := &MockAuthStorage{
			LoginTokenFunc: func(token string) (domain.LoginToken, error) {
				return domain.LoginToken{
					Email:     "alice@example.com",
					Token:     token,
					ExpiresAt: time.Now().Add(-time.Minute),
				}, nil
			},
			DeleteLoginTokenFunc: func(token string) error {
				deleted = true
				return nil
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		_, _, err := auth.RedeemLoginToken("some-token")
		assertStatusCode(t, err, http.StatusUnauthorized)
		assert.True(t, deleted, "expired token must be deleted")
	})

	t.Run("RedeemUnknown", func(t *testing.T) {
		auth := newAuthForTest(&MockAuthStorage{}, &MockEmail{}, &MockJwt{})

		_, _, err := auth.RedeemLoginToken("no-such-token")
		assertStatusCode(t, err, http.StatusUnauthorized)
	})

	t.Run("DeleteToleratesMissing", func(t *testing.T) {
		storage := &MockAuthStorage{
			DeleteLoginTokenFunc: func(token string) error {
				return internal_errors.NotFound("Login token not found")
			},
		}
		auth := newAuthForTest(storage, &MockEmail{}, &MockJwt{})

		assert.NoError(t, auth.DeleteLoginToken("gone"))
	})
}
