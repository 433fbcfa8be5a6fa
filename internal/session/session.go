package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
)

// Session is the explicit handle on the signed-in doctor. It is created once
// and handed to every component that needs the credential. Save and Clear
// are the only writers.
type Session struct {
	store Store
	mu    sync.RWMutex
}

func New(store Store) *Session {
	return &Session{store: store}
}

// Token returns the stored bearer credential, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, _, err := s.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Valid reports whether a non-empty token is present. Nothing else is
// checked locally; the server rejects stale tokens on first use.
func (s *Session) Valid(ctx context.Context) (bool, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// User returns the cached profile. A missing or unreadable profile yields an
// empty user, never an error, so a session with only a token still works.
func (s *Session) User(ctx context.Context) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user model.User
	raw, ok, err := s.store.Get(ctx, KeyUser)
	if err != nil || !ok {
		return user, err
	}
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return model.User{}, nil
	}
	return user, nil
}

func (s *Session) Remembered(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok, err := s.store.Get(ctx, KeyRememberMe)
	if err != nil || !ok {
		return false, err
	}
	remember, _ := strconv.ParseBool(raw)
	return remember, nil
}

// Save persists a freshly issued credential and profile.
func (s *Session) Save(ctx context.Context, token string, user model.User, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	// The token goes last: a session is valid as soon as it is stored.
	if err := s.store.Delete(ctx, KeyAccessToken); err != nil {
		return err
	}
	if err := s.store.Set(ctx, KeyUser, string(profile)); err != nil {
		return err
	}
	if remember {
		err = s.store.Set(ctx, KeyRememberMe, "true")
	} else {
		err = s.store.Delete(ctx, KeyRememberMe)
	}
	if err != nil {
		return err
	}
	return s.store.Set(ctx, KeyAccessToken, token)
}

// UpdateUser replaces the cached profile and keeps the credential.
func (s *Session) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.store.Set(ctx, KeyUser, string(profile))
}

// Clear removes the credential and the cached profile.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.Delete(ctx, KeyAccessToken, KeyUser, KeyRememberMe)
}
