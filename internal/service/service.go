package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/zucitech/portal-client/internal/clients/backend"
	"github.com/zucitech/portal-client/internal/entity"
	"github.com/zucitech/portal-client/internal/session"
	"github.com/zucitech/portal-client/pkg/logger"
)

// BackendClient is the slice of the REST backend this service
// consumes.
type BackendClient interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
	Register(ctx context.Context, req backend.RegisterRequest, token string) (*backend.RegisterResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error
	Roles(ctx context.Context, token string) ([]entity.Role, error)
	Permissions(ctx context.Context, token string) ([]string, error)
}

// Service performs the auth flows and keeps the session store in sync
// with their outcomes. Navigation after a successful flow is the
// caller's concern.
type Service struct {
	sess   *session.Store
	client BackendClient
}

func NewService(sess *session.Store, client BackendClient) *Service {
	return &Service{
		sess:   sess,
		client: client,
	}
}

// Login authenticates against the backend and populates the session
// store. The identifier may be a username or an email; the backend
// accepts either in one field.
func (s *Service) Login(ctx context.Context, identifier, password string) error {
	ctx = s.operationCtx(ctx, "login")

	resp, err := s.client.Login(ctx, backend.LoginRequest{
		UserNameOrEmail: identifier,
		Password:        password,
	})
	if err != nil {
		slog.ErrorContext(ctx, "login request failed", "error", err)
		return err
	}

	if resp.AccessToken == "" {
		slog.ErrorContext(ctx, "login response has no access token")
		return entity.ErrInvalidResponse
	}

	identity := loginIdentity(resp)

	if err := s.sess.Set(ctx, identity, resp.AccessToken); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	ctx = logger.WithUserID(ctx, string(identity.ID))
	slog.InfoContext(ctx, "login succeeded", "username", identity.Username)

	return nil
}

type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignupResult tells the caller how the flow ended: with a live
// session, or with a completed registration that still needs a login.
type SignupResult struct {
	SessionEstablished bool
	Message            string
}

// Signup registers a new account. Field names are translated to the
// backend contract (username becomes userName, emailVerified is always
// submitted false); an already-held token is forwarded so an admin can
// register users on someone's behalf.
func (s *Service) Signup(ctx context.Context, in SignupInput) (SignupResult, error) {
	ctx = s.operationCtx(ctx, "signup")

	if err := ValidateEmail(in.Email); err != nil {
		return SignupResult{}, err
	}

	req := backend.RegisterRequest{
		UserName:      in.Username,
		Email:         in.Email,
		Password:      in.Password,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		EmailVerified: false,
	}

	resp, err := s.client.Register(ctx, req, s.sess.Token())
	if err != nil {
		slog.ErrorContext(ctx, "signup request failed", "error", err)
		return SignupResult{}, err
	}

	if resp.StatusCode == http.StatusCreated {
		slog.InfoContext(ctx, "signup completed", "status_msg", resp.StatusMsg)
		return SignupResult{Message: resp.StatusMsg}, nil
	}

	if resp.User == nil {
		slog.ErrorContext(ctx, "signup response has neither status nor user")
		return SignupResult{}, entity.ErrInvalidResponse
	}

	identity := signupIdentity(resp.User)

	if err := s.sess.Set(ctx, identity, s.sess.Token()); err != nil {
		return SignupResult{}, fmt.Errorf("save session: %w", err)
	}

	slog.InfoContext(logger.WithUserID(ctx, string(identity.ID)), "signup established session",
		"username", identity.Username)

	return SignupResult{SessionEstablished: true}, nil
}

// RequestPasswordReset is phase one of the reset flow: validate the
// email locally, then ask the backend to deliver a code out of band.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	ctx = s.operationCtx(ctx, "reset_request")

	if err := ValidateEmail(email); err != nil {
		return err
	}

	if err := s.client.RequestPasswordReset(ctx, email); err != nil {
		slog.ErrorContext(ctx, "password reset request failed", "error", err)
		return err
	}

	slog.InfoContext(ctx, "password reset requested")

	return nil
}

// CompletePasswordReset is phase three: local code and complexity
// gates first, then the backend submission.
func (s *Service) CompletePasswordReset(ctx context.Context, email, otp, newPassword string) error {
	ctx = s.operationCtx(ctx, "reset_complete")

	if err := ValidateEmail(email); err != nil {
		return err
	}

	if err := ValidateResetCode(otp); err != nil {
		return err
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	if err := s.client.ConfirmPasswordReset(ctx, email, otp, newPassword); err != nil {
		slog.ErrorContext(ctx, "password reset submission failed", "error", err)
		return err
	}

	slog.InfoContext(ctx, "password reset completed")

	return nil
}

// Logout clears the session; the store handles navigation to the login
// entry point.
func (s *Service) Logout(ctx context.Context) {
	ctx = s.operationCtx(ctx, "logout")

	s.sess.Clear(ctx)

	slog.InfoContext(ctx, "logged out")
}

// Roles fetches the role catalog for pickers; not an authorization
// input.
func (s *Service) Roles(ctx context.Context) ([]entity.Role, error) {
	return s.client.Roles(s.operationCtx(ctx, "roles_catalog"), s.sess.Token())
}

// Permissions fetches the permission catalog for pickers; not an
// authorization input.
func (s *Service) Permissions(ctx context.Context) ([]string, error) {
	return s.client.Permissions(s.operationCtx(ctx, "permissions_catalog"), s.sess.Token())
}

func (s *Service) operationCtx(ctx context.Context, operation string) context.Context {
	return logger.WithOperation(ctx, uuid.Must(uuid.NewV4()).String(), operation)
}

func loginIdentity(resp *backend.LoginResponse) entity.Identity {
	username := resp.UserName
	if username == "" {
		username = resp.Username
	}

	roles := resp.Roles
	if len(roles) == 0 {
		roles = []entity.Role{{ID: 0, Name: entity.RoleEmployee}}
	}

	permissions := []string(resp.Permissions)
	if permissions == nil {
		permissions = []string{}
	}

	active := true

	switch {
	case resp.Active != nil:
		active = *resp.Active
	case resp.IsActive != nil:
		active = *resp.IsActive
	}

	return entity.Identity{
		ID:          resp.ID,
		Username:    username,
		Email:       resp.Email,
		FirstName:   resp.FirstName,
		LastName:    resp.LastName,
		Roles:       roles,
		Permissions: permissions,
		IsActive:    active,
		CreatedAt:   time.Now(),
	}
}

func signupIdentity(user *backend.RegisteredUser) entity.Identity {
	roles := user.Roles
	if len(roles) == 0 {
		roles = []entity.Role{{ID: 0, Name: entity.RoleEmployee}}
	}

	permissions := []string(user.Permissions)
	if permissions == nil {
		permissions = []string{}
	}

	active := true
	if user.IsActive != nil {
		active = *user.IsActive
	}

	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return entity.Identity{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Roles:       roles,
		Permissions: permissions,
		IsActive:    active,
		CreatedAt:   createdAt,
	}
}
