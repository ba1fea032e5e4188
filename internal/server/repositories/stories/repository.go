// Package stories persists travel stories. Every method is scoped by the
// owning user id: a story that exists but belongs to someone else is
// reported exactly like a missing one, as common.ErrorNotFound.
package stories

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, story *models.Story) (*models.Story, error)
	// Update replaces the editable fields of story.ID owned by story.UserID.
	Update(ctx context.Context, story *models.Story) (*models.Story, error)
	// Delete removes the story and returns it as it was.
	Delete(ctx context.Context, userID, id string) (*models.Story, error)
	SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error)
	// ListByUser, Search and ListByVisitedDate return favourites first,
	// then newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Story, error)
	Search(ctx context.Context, userID, query string) ([]*models.Story, error)
	ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.Story, error)
}

// matches reports whether query occurs, ignoring case, in the title, the
// text or any of the locations.
func matches(s *models.Story, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(s.Title), q) || strings.Contains(strings.ToLower(s.Story), q) {
		return true
	}
	for _, loc := range s.VisitedLocation {
		if strings.Contains(strings.ToLower(loc), q) {
			return true
		}
	}
	return false
}
