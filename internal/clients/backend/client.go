package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/zucitech/portal-client/internal/entity"
	"github.com/zucitech/portal-client/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

// Client talks to the portal REST backend. Retries cover transport
// errors only: a non-2xx status is a final answer, never retried.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(cfg config.Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.RequestTimeout

	retryClient.Logger = nil

	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: strings.TrimRight(cfg.BackendBaseURL, "/"),
	}
}

// PermissionList flattens both backend permission shapes (plain
// strings or objects with a name field) into a string set. The rest of
// the module only ever sees the flattened form.
type PermissionList []string

func (p *PermissionList) UnmarshalJSON(data []byte) error {
	var plain []string
	if err := json.Unmarshal(data, &plain); err == nil {
		*p = plain
		return nil
	}

	var objects []struct {
		Name string `json:"name"`
	}

	if err := json.Unmarshal(data, &objects); err != nil {
		return fmt.Errorf("permissions must be strings or objects with a name: %w", err)
	}

	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Name)
	}

	*p = names

	return nil
}

type LoginRequest struct {
	UserNameOrEmail string `json:"userNameOrEmail"`
	Password        string `json:"password"`
}

// LoginResponse tolerates both backend variants: userName vs username
// and active vs isActive.
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	ID          entity.UserID  `json:"id"`
	UserName    string         `json:"userName"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Roles       []entity.Role  `json:"roles"`
	Permissions PermissionList `json:"permissions"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Active      *bool          `json:"active"`
	IsActive    *bool          `json:"isActive"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, status, err := c.post(ctx, "/api/auth/login", req, "")
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, backendError(status, body)
	}

	var resp LoginResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode login response: %w", entity.ErrInvalidResponse)
	}

	return &resp, nil
}

// RegisterRequest carries the backend's field naming: userName instead
// of username, and emailVerified always submitted false.
type RegisterRequest struct {
	UserName      string `json:"userName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	EmailVerified bool   `json:"emailVerified"`
}

type RegisteredUser struct {
	ID          entity.UserID  `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Roles       []entity.Role  `json:"roles"`
	Permissions PermissionList `json:"permissions"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	IsActive    *bool          `json:"isActive"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// RegisterResponse is either a status envelope (statusCode/statusMsg)
// or a user envelope; exactly one side is populated.
type RegisterResponse struct {
	StatusCode int             `json:"statusCode"`
	StatusMsg  string          `json:"statusMsg"`
	User       *RegisteredUser `json:"user"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest, token string) (*RegisterResponse, error) {
	body, status, err := c.post(ctx, "/api/auth/register", req, token)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, backendError(status, body)
	}

	var resp RegisterResponse

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode register response: %w", entity.ErrInvalidResponse)
	}

	return &resp, nil
}

type resetRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp,omitempty"`
	NewPassword string `json:"newPassword,omitempty"`
}

// RequestPasswordReset triggers out-of-band delivery of a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body, status, err := c.post(ctx, "/api/auth/reset-password", resetRequest{Email: email}, "")
	if err != nil {
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return backendError(status, body)
	}

	return nil
}

// ConfirmPasswordReset submits the code and the new password.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	req := resetRequest{Email: email, OTP: otp, NewPassword: newPassword}

	body, status, err := c.post(ctx, "/api/auth/reset-password", req, "")
	if err != nil {
		return err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return backendError(status, body)
	}

	return nil
}

// Roles fetches the role catalog for the editing UI pickers.
func (c *Client) Roles(ctx context.Context, token string) ([]entity.Role, error) {
	body, status, err := c.get(ctx, "/api/auth/getAllRoles", token)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, backendError(status, body)
	}

	var roles []entity.Role

	if err := json.Unmarshal(body, &roles); err != nil {
		return nil, fmt.Errorf("decode roles response: %w", entity.ErrInvalidResponse)
	}

	return roles, nil
}

// Permissions fetches the permission catalog for the editing UI
// pickers, flattened like every other permission list.
func (c *Client) Permissions(ctx context.Context, token string) ([]string, error) {
	body, status, err := c.get(ctx, "/api/auth/getAllPermissions", token)
	if err != nil {
		return nil, err
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, backendError(status, body)
	}

	var permissions PermissionList

	if err := json.Unmarshal(body, &permissions); err != nil {
		return nil, fmt.Errorf("decode permissions response: %w", entity.ErrInvalidResponse)
	}

	return []string(permissions), nil
}

func (c *Client) post(ctx context.Context, path string, payload any, token string) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request in JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}

	return body, resp.StatusCode, nil
}

type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func backendError(status int, body []byte) *entity.BackendError {
	var er errorResponse

	message := ""

	if err := json.Unmarshal(body, &er); err == nil {
		message = er.Message
		if message == "" {
			message = er.Detail
		}
	}

	return &entity.BackendError{StatusCode: status, Message: message}
}
