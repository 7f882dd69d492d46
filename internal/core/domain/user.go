package domain

import "time"

type User struct {
	ID           int64     `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Token        *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
