package models

import "time"

// Student represents a row in the PostgreSQL students table.
type Student struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Institution string    `json:"institution"`
	CreatedAt   time.Time `json:"created_at"`
}
