// Package models contains the persisted data structures of the server.
package models

import "time"

// User is an identity record. PasswordHash holds a bcrypt digest; the
// plaintext password is never stored. ID is assigned once at creation and
// never changes.
type User struct {
	ID           string
	Name         string
	PhoneNo      string
	Email        string
	UserName     string
	PasswordHash string
	Gender       string
	IsAdmin      bool
	CreatedAt    time.Time
}
