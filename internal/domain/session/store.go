package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Store keeps admin sessions keyed by an opaque token.
type Store interface {
	Create(ctx context.Context, userID uint64, ttl time.Duration) (token string, err error)
	Lookup(ctx context.Context, token string) (userID uint64, err error)
	Delete(ctx context.Context, token string) error
}
