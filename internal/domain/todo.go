package domain

import "time"

// Todo always belongs to exactly one user.
type Todo struct {
	ID          string
	Title       string
	IsCompleted bool
	UserID      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
