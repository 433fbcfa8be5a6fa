package session

import (
	"context"
)

// Keys under which the session is persisted.
const (
	KeyAccessToken = "accessToken"
	KeyUser        = "user"
	KeyRememberMe  = "rememberMe"
)

// Store is the durable key-value store backing a Session. Values are plain
// strings; the user profile is stored JSON encoded.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
