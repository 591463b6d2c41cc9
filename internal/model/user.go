package model

import "time"

// User is the identity shape the engine needs from the surrounding system.
// Authentication and role management live outside this service; routing only
// resolves counterparts and attributes status changes.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
