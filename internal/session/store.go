package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zucitech/portal-client/internal/entity"
	"github.com/zucitech/portal-client/internal/storage"
)

// Storage keys, cleared together on logout.
const (
	KeyUser  = "auth_user"
	KeyToken = "auth_token"
)

// Navigator performs a client-side navigation. The store only ever
// navigates to the login path, and only on Clear.
type Navigator func(path string)

// Store is the single source of truth for who is logged in. At most
// one Identity is active at a time.
type Store struct {
	storage   storage.Store
	navigate  Navigator
	loginPath string

	mu       sync.RWMutex
	identity *entity.Identity
	token    string
	restored bool
}

func NewStore(st storage.Store, navigate Navigator, loginPath string) *Store {
	return &Store{
		storage:   st,
		navigate:  navigate,
		loginPath: loginPath,
	}
}

// Restore loads the persisted session on startup. A stored Identity
// snapshot takes precedence over the token; with only a token present,
// its payload is decoded into a minimal Identity. Failures are logged
// and leave the session empty, they are never surfaced as errors.
// Guards must not decide anything before Restore has run.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.restored = true }()

	raw, err := s.storage.Get(KeyUser)
	if err == nil {
		var identity entity.Identity

		if err := json.Unmarshal([]byte(raw), &identity); err != nil {
			slog.ErrorContext(ctx, "failed to decode stored identity", "error", err)
		} else {
			s.identity = &identity

			if token, err := s.storage.Get(KeyToken); err == nil {
				s.token = token
			}

			return
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		slog.ErrorContext(ctx, "failed to read stored identity", "error", err)
	}

	token, err := s.storage.Get(KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			slog.ErrorContext(ctx, "failed to read stored token", "error", err)
		}

		return
	}

	claims, err := DecodeToken(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to decode stored token", "error", err)
		return
	}

	identity := claims.Identity()
	s.identity = &identity
	s.token = token
}

// Set replaces the active session in memory and in storage.
func (s *Store) Set(ctx context.Context, identity entity.Identity, token string) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Set(KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	if err := s.storage.Set(KeyUser, string(data)); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}

	s.identity = &identity
	s.token = token
	s.restored = true

	slog.DebugContext(ctx, "session stored", "username", identity.Username)

	return nil
}

// Clear drops the session everywhere and navigates to the login entry
// point. Storage failures are logged; logout must always succeed from
// the caller's point of view.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()

	s.identity = nil
	s.token = ""

	if err := s.storage.Delete(KeyUser); err != nil {
		slog.ErrorContext(ctx, "failed to delete stored identity", "error", err)
	}

	if err := s.storage.Delete(KeyToken); err != nil {
		slog.ErrorContext(ctx, "failed to delete stored token", "error", err)
	}

	s.mu.Unlock()

	if s.navigate != nil {
		s.navigate(s.loginPath)
	}
}

// Identity returns a copy of the active identity, or nil when logged
// out.
func (s *Store) Identity() *entity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return nil
	}

	identity := *s.identity

	return &identity
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Restored reports whether startup restore has completed. Before that,
// guards stay pending rather than treating the session as absent.
func (s *Store) Restored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.restored
}
