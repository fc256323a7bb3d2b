package user

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// Table: users (admin accounts)
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;size:64;not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;not null"`
}

func (User) TableName() string { return "users" }
