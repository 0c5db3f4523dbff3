// Package models defines the data structures shared by the bot's engine,
// repositories, and services.
package models

import "time"

// User mirrors the users table. The id is the transport-assigned numeric
// identity; rows are created on first contact and never deleted.
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Lang      string
	JoinedAt  time.Time
}
