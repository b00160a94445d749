package user

import (
	"errors"
	"time"
)

var ErrUsernameTaken = errors.New("username already taken")

// User is a fantasy manager.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
