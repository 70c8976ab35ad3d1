package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zucitech/portal-client/internal/access"
	"github.com/zucitech/portal-client/internal/clients/backend"
	"github.com/zucitech/portal-client/internal/entity"
	"github.com/zucitech/portal-client/internal/service"
	"github.com/zucitech/portal-client/internal/session"
	"github.com/zucitech/portal-client/internal/storage"
	"github.com/zucitech/portal-client/pkg/config"
)

type fixture struct {
	svc   *service.Service
	sess  *session.Store
	store storage.Store
	hits  *int
	paths *[]string
}

// newFixture wires a real backend client, session store and service
// against an httptest server, the way main does against the real
// backend.
func newFixture(t *testing.T, handler http.HandlerFunc) fixture {
	t.Helper()

	var hits int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := config.Config{
		BackendBaseURL: server.URL,
		RequestTimeout: 5 * time.Second,
		RetryAttempts:  0,
		LoginPath:      "/login",
	}

	var paths []string

	fileStore := storage.NewFileStore(t.TempDir())
	sess := session.NewStore(fileStore, func(path string) { paths = append(paths, path) }, cfg.LoginPath)
	sess.Restore(context.Background())

	client := backend.NewClient(cfg)

	return fixture{
		svc:   service.NewService(sess, client),
		sess:  sess,
		store: fileStore,
		hits:  &hits,
		paths: &paths,
	}
}

func TestService_LoginSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		_, _ = w.Write([]byte(`{
			"accessToken": "token-abc",
			"id": "42",
			"username": "bob",
			"email": "bob@example.com",
			"roles": [{"id": 3, "name": "ROLE_EMPLOYEE"}]
		}`))
	})

	require.NoError(t, f.svc.Login(context.Background(), "bob", "Secret1!"))

	identity := f.sess.Identity()
	require.NotNil(t, identity)
	require.Equal(t, "bob", identity.Username)
	require.Equal(t, "token-abc", f.sess.Token())

	// Absent permissions normalize to an empty set, not nil.
	require.NotNil(t, identity.Permissions)
	require.Empty(t, identity.Permissions)

	eval := access.NewEvaluator(f.sess, "")
	require.False(t, eval.IsAdmin())
	require.False(t, eval.HasPermission("user_view"))

	// The session survives a restart.
	restarted := session.NewStore(f.store, nil, "/login")
	restarted.Restore(context.Background())
	require.NotNil(t, restarted.Identity())
}

func TestService_LoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid credentials"}`))
	})

	err := f.svc.Login(context.Background(), "bob", "wrong")
	require.EqualError(t, err, "Invalid credentials")

	require.Nil(t, f.sess.Identity())
	require.Empty(t, f.sess.Token())
}

func TestService_LoginMissingToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"username": "bob"}`))
	})

	err := f.svc.Login(context.Background(), "bob", "Secret1!")
	require.ErrorIs(t, err, entity.ErrInvalidResponse)
	require.Nil(t, f.sess.Identity())
}

func TestService_LoginObjectShapedPermissions(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"accessToken": "token-abc",
			"id": 7,
			"userName": "mary",
			"roles": [{"id": 2, "name": "ROLE_MANAGER"}],
			"permissions": [{"id": 1, "name": "user_view"}]
		}`))
	})

	require.NoError(t, f.svc.Login(context.Background(), "mary", "Secret1!"))

	identity := f.sess.Identity()
	require.NotNil(t, identity)
	require.Equal(t, entity.UserID("7"), identity.ID)
	require.Equal(t, []string{"user_view"}, identity.Permissions)
}

func TestService_SignupStatusEnvelope(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/register", r.URL.Path)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"statusCode": 201, "statusMsg": "User registered successfully"}`))
	})

	result, err := f.svc.Signup(context.Background(), service.SignupInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "Secret1!",
	})
	require.NoError(t, err)

	require.False(t, result.SessionEstablished)
	require.Equal(t, "User registered successfully", result.Message)
	require.Nil(t, f.sess.Identity())
}

func TestService_SignupUserEnvelope(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"user": {
				"id": "11",
				"username": "carol",
				"email": "carol@example.com"
			}
		}`))
	})

	result, err := f.svc.Signup(context.Background(), service.SignupInput{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "Secret1!",
	})
	require.NoError(t, err)

	require.True(t, result.SessionEstablished)

	identity := f.sess.Identity()
	require.NotNil(t, identity)
	require.Equal(t, "carol", identity.Username)
	require.Equal(t, []entity.Role{{ID: 0, Name: entity.RoleEmployee}}, identity.Roles)
	require.True(t, identity.IsActive)
}

func TestService_SignupInvalidEmailSkipsBackend(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called")
	})

	_, err := f.svc.Signup(context.Background(), service.SignupInput{
		Username: "carol",
		Email:    "not-an-email",
		Password: "Secret1!",
	})
	require.ErrorIs(t, err, entity.ErrEmailInvalidFormat)
	require.Zero(t, *f.hits)
}

func TestService_ResetGatesShortCircuitNetwork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		otp      string
		password string
		expected error
	}{
		{"bad email", "nope", "493021", "NewPass1!", entity.ErrEmailInvalidFormat},
		{"bad code", "bob@example.com", "12ab", "NewPass1!", entity.ErrCodeInvalid},
		{"weak password", "bob@example.com", "493021", "alllower1!", entity.ErrPasswordNoUpperCase},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("backend must not be called")
			})

			err := f.svc.CompletePasswordReset(context.Background(), test.email, test.otp, test.password)
			require.ErrorIs(t, err, test.expected)
			require.Zero(t, *f.hits)
		})
	}
}

func TestService_ResetFlow(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/reset-password", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	})

	ctx := context.Background()

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "bob@example.com"))
	require.NoError(t, f.svc.CompletePasswordReset(ctx, "bob@example.com", "493021", "NewPass1!"))
	require.Equal(t, 2, *f.hits)
}

func TestService_Logout(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"accessToken": "token-abc",
			"id": "42",
			"username": "bob"
		}`))
	})

	ctx := context.Background()

	require.NoError(t, f.svc.Login(ctx, "bob", "Secret1!"))
	require.NotNil(t, f.sess.Identity())

	f.svc.Logout(ctx)

	require.Nil(t, f.sess.Identity())
	require.Empty(t, f.sess.Token())
	require.Equal(t, []string{"/login"}, *f.paths)
}

func TestService_CatalogsSendSessionToken(t *testing.T) {
	t.Parallel()

	var authHeaders []string

	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			_, _ = w.Write([]byte(`{"accessToken": "token-abc", "id": "42", "username": "bob"}`))
			return
		}

		authHeaders = append(authHeaders, r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/api/auth/getAllRoles":
			_, _ = w.Write([]byte(`[{"id": 1, "name": "ROLE_ADMIN"}]`))
		case "/api/auth/getAllPermissions":
			_, _ = w.Write([]byte(`["user_view"]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	require.NoError(t, f.svc.Login(ctx, "bob", "Secret1!"))

	roles, err := f.svc.Roles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)

	permissions, err := f.svc.Permissions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"user_view"}, permissions)

	require.Equal(t, []string{"Bearer token-abc", "Bearer token-abc"}, authHeaders)
}
