package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"subsidy-intake/internal/domain/session"
	"subsidy-intake/pkg/id"
)

const sessionKeyPrefix = "sess:admin:"

// SessionStore keeps admin sessions as plain string keys with a TTL.
type SessionStore struct{ rdb *redis.Client }

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(rdb *redis.Client) *SessionStore { return &SessionStore{rdb: rdb} }

func (s *SessionStore) Create(ctx context.Context, userID uint64, ttl time.Duration) (string, error) {
	token, err := id.NewToken(32)
	if err != nil {
		return "", err
	}
	ok, err := s.rdb.SetNX(ctx, sessionKeyPrefix+token, strconv.FormatUint(userID, 10), ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return "", errors.New("store session: token collision")
	}
	return token, nil
}

func (s *SessionStore) Lookup(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, session.ErrNotFound
	}
	v, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, session.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	uid, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", v, err)
	}
	return uid, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}
