package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/plankhq/plank/shared/api"
	"github.com/plankhq/plank/shared/utils"
)

// === Auth Methods ===

func (c *APIClient) Register(username, email, password string) error {
	return c.doJSON("POST", "/v1/auth/register", api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
}

func (c *APIClient) ConfirmEmail(email, code string) error {
	return c.doJSON("POST", "/v1/auth/confirm", api.ConfirmRequest{Email: email, Code: code}, nil)
}

// Login authenticates and captures the session cookie for all later
// requests.
func (c *APIClient) Login(email, password string) (api.LoginResponse, error) {
	var response api.LoginResponse

	payload, err := json.Marshal(api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return response, fmt.Errorf("failed to encode request payload: %w", err)
	}

	resp, err := c.do("POST", "/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return response, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return response, backendError(resp)
	}

	c.captureSession(resp)
	if err := utils.Decode(resp.Body, &response); err != nil {
		return response, fmt.Errorf("cannot decode login response: %w", err)
	}
	return response, nil
}

func (c *APIClient) ChangePassword(currentPassword, newPassword string) error {
	return c.doJSON("PUT", "/v1/auth/password", api.ChangePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}, nil)
}

// CreateLoginToken asks the backend for a single-use token the caller can
// stash and redeem later for a fresh session.
func (c *APIClient) CreateLoginToken() (string, error) {
	var response api.LoginTokenResponse
	if err := c.doJSON("POST", "/v1/auth/token", nil, &response); err != nil {
		return "", err
	}
	return response.Token, nil
}

func (c *APIClient) RedeemLoginToken(token string) (api.LoginResponse, error) {
	var response api.LoginResponse

	payload, err := json.Marshal(api.TokenLoginRequest{Token: token})
	if err != nil {
		return response, fmt.Errorf("failed to encode request payload: %w", err)
	}

	resp, err := c.do("POST", "/v1/auth/token/redeem", bytes.NewReader(payload))
	if err != nil {
		return response, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return response, backendError(resp)
	}

	c.captureSession(resp)
	if err := utils.Decode(resp.Body, &response); err != nil {
		return response, fmt.Errorf("cannot decode redeem response: %w", err)
	}
	return response, nil
}

func (c *APIClient) Logout(storedToken string) error {
	var payload any
	if storedToken != "" {
		payload = api.TokenLoginRequest{Token: storedToken}
	}
	err := c.doJSON("POST", "/v1/auth/logout", payload, nil)
	c.session = nil
	return err
}

func (c *APIClient) captureSession(resp *http.Response) {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "accessToken" {
			c.session = cookie
			return
		}
	}
}
