// Package models defines server-side records shared by repositories and services.
package models

import "time"

type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
