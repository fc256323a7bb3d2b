package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"subsidy-intake/internal/domain/session"
	"subsidy-intake/internal/domain/user"
)

const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
	MaxUsernameLen = 64
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = fmt.Errorf("password must be %d to %d characters", MinPasswordLen, MaxPasswordLen)
	ErrInvalidUsername    = fmt.Errorf("username is required and at most %d characters", MaxUsernameLen)
)

type Usecase struct {
	users    user.Repository
	sessions session.Store
	ttl      time.Duration
	cost     int
	log      logrus.FieldLogger
}

func NewUsecase(users user.Repository, sessions session.Store, ttl time.Duration, log logrus.FieldLogger) *Usecase {
	return &Usecase{users: users, sessions: sessions, ttl: ttl, cost: bcrypt.DefaultCost, log: log}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (u *Usecase) WithCost(cost int) *Usecase {
	u.cost = cost
	return u
}

// Login checks the credentials and opens a session. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (u *Usecase) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	usr, err := u.users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u.log.WithField("username", username).Warn("login failed: unknown user")
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		u.log.WithField("username", username).Warn("login failed: bad password")
		return "", ErrInvalidCredentials
	}

	token, err := u.sessions.Create(ctx, usr.ID, u.ttl)
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	u.log.WithField("user_id", usr.ID).Info("admin logged in")
	return token, nil
}

func (u *Usecase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := u.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to the admin user id.
func (u *Usecase) Authenticate(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, ErrUnauthenticated
	}
	id, err := u.sessions.Lookup(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return 0, ErrUnauthenticated
	}
	if err != nil {
		return 0, fmt.Errorf("lookup session: %w", err)
	}
	return id, nil
}

func (u *Usecase) CreateAdmin(ctx context.Context, username, password string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > MaxUsernameLen {
		return nil, ErrInvalidUsername
	}
	hash, err := u.hash(password)
	if err != nil {
		return nil, err
	}

	_, err = u.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, ErrUsernameTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load user: %w", err)
	}

	usr := &user.User{Username: username, PasswordHash: hash}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	u.log.WithField("username", username).Info("admin user created")
	return usr, nil
}

func (u *Usecase) ChangePassword(ctx context.Context, username, password string) error {
	hash, err := u.hash(password)
	if err != nil {
		return err
	}
	usr, err := u.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	usr.PasswordHash = hash
	if err := u.users.Save(ctx, usr); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	u.log.WithField("username", usr.Username).Info("admin password changed")
	return nil
}

func (u *Usecase) hash(password string) (string, error) {
	if n := len(password); n < MinPasswordLen || n > MaxPasswordLen {
		return "", ErrWeakPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
