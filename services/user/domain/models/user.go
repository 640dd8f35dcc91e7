package models

import (
	"strings"
	"time"
)

// User is an account owning one inventory. Settings is an opaque JSON blob
// owned by the web client (display preferences, last-used category).
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Settings       string    `json:"settings,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreationDate   time.Time `json:"creation_date"`
}

// NormalizeEmail canonicalizes an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
