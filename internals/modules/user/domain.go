package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type CreateUserCmd struct {
	Name     string
	Email    string
	Password string
}

type LogInUserCmd struct {
	Email    string
	Password string
}

type LogInUserResult struct {
	UserID      uuid.UUID
	AccessToken string
}
