package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	internal_errors "github.com/plankhq/plank/shared/errors"
	"github.com/plankhq/plank/shared/utils"
)

// APIClient handles all communication with the backend API. The session
// cookie returned by Login is remembered and attached to every later
// request.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client

	session *http.Cookie
}

// New creates a new client for interacting with the backend.
func New(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{},
	}
}

// do is the single, unified helper for making API requests.
func (c *APIClient) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.session != nil {
		req.AddCookie(c.session)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// doJSON marshals the payload, performs the request and decodes the
// response into out (skipped when out is nil). Any non-2xx status comes
// back as an ErrorWithStatusCode carrying the backend's message.
func (c *APIClient) doJSON(method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}

	if out != nil {
		if err := utils.Decode(resp.Body, out); err != nil {
			return fmt.Errorf("cannot decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

func backendError(resp *http.Response) error {
	message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(message) == 0 {
		message = []byte(http.StatusText(resp.StatusCode))
	}
	return &internal_errors.ErrorWithStatusCode{
		Message:    string(bytes.TrimSpace(message)),
		StatusCode: resp.StatusCode,
	}
}
