package models

import "time"

// Story is a travel journal entry. UserID is set once at creation and every
// repository call is scoped by it.
type Story struct {
	ID              string
	UserID          string
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     time.Time
	IsFavourite     bool
	CreatedAt       time.Time
}
