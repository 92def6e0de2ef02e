package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/naveenspark/teamwork/pkg/domain"
)

// Keys under which the session is persisted.
const (
	UserKey  = "user"
	TokenKey = "authToken"
)

// SessionStore persists the authenticated user and token as a pair.
// Both keys are present or both are absent; anything else is cleared
// when read.
type SessionStore struct {
	kv KV
}

// NewSessionStore returns a SessionStore over kv.
func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save writes user and token. A failed save leaves the store as it was:
// if the token write fails, the previous user entry is put back (or
// removed when there was none) so a later Load never sees half a session.
func (s *SessionStore) Save(ctx context.Context, user domain.User, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("storage.Save: marshal user: %w", err)
	}
	prevUser, hadUser, err := s.kv.GetItem(ctx, UserKey)
	if err != nil && !errors.Is(err, ErrMalformedStoredData) {
		return fmt.Errorf("storage.Save: %w", err)
	}
	if err := s.kv.SetItem(ctx, UserKey, string(data)); err != nil {
		return fmt.Errorf("storage.Save: %w", err)
	}
	if err := s.kv.SetItem(ctx, TokenKey, token); err != nil {
		var rbErr error
		if hadUser {
			rbErr = s.kv.SetItem(ctx, UserKey, prevUser)
		} else {
			rbErr = s.kv.RemoveItem(ctx, UserKey)
		}
		return fmt.Errorf("storage.Save: %w", errors.Join(err, rbErr))
	}
	return nil
}

// Load returns the stored session. A missing or partial session returns
// (nil, "", nil). A session whose user entry cannot be decoded, or whose
// backing store cannot be parsed, is cleared and reported as
// ErrMalformedStoredData.
func (s *SessionStore) Load(ctx context.Context) (*domain.User, string, error) {
	rawUser, hasUser, err := s.kv.GetItem(ctx, UserKey)
	if err != nil {
		return nil, "", s.loadErr(ctx, err)
	}
	token, hasToken, err := s.kv.GetItem(ctx, TokenKey)
	if err != nil {
		return nil, "", s.loadErr(ctx, err)
	}

	hasUser = hasUser && rawUser != ""
	hasToken = hasToken && token != ""
	if !hasUser && !hasToken {
		return nil, "", nil
	}
	if hasUser != hasToken {
		if err := s.Clear(ctx); err != nil {
			return nil, "", fmt.Errorf("storage.Load: clear partial session: %w", err)
		}
		return nil, "", nil
	}

	var user *domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil || user == nil || user.ID == "" {
		clearErr := s.Clear(ctx)
		return nil, "", errors.Join(fmt.Errorf("storage.Load: %w", ErrMalformedStoredData), clearErr)
	}
	return user, token, nil
}

func (s *SessionStore) loadErr(ctx context.Context, err error) error {
	if !errors.Is(err, ErrMalformedStoredData) {
		return fmt.Errorf("storage.Load: %w", err)
	}
	return errors.Join(fmt.Errorf("storage.Load: %w", err), s.Clear(ctx))
}

// Clear removes both session keys. Both removals are attempted even if
// the first fails.
func (s *SessionStore) Clear(ctx context.Context) error {
	errUser := s.kv.RemoveItem(ctx, UserKey)
	errToken := s.kv.RemoveItem(ctx, TokenKey)
	if err := errors.Join(errUser, errToken); err != nil {
		return fmt.Errorf("storage.Clear: %w", err)
	}
	return nil
}
