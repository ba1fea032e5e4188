package stories

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps stories in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	stories map[string]models.Story
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		stories: make(map[string]models.Story),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *story
	s.ID = uuid.NewString()
	s.IsFavourite = false
	s.CreatedAt = r.now()
	s.VisitedLocation = slices.Clone(locations(story.VisitedLocation))
	r.stories[s.ID] = s

	return clone(s), nil
}

func (r *MemoryRepository) Update(ctx context.Context, story *models.Story) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(story.UserID, story.ID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.Title = story.Title
	s.Story = story.Story
	s.VisitedLocation = slices.Clone(locations(story.VisitedLocation))
	s.ImageURL = story.ImageURL
	s.VisitedDate = story.VisitedDate
	r.stories[s.ID] = s

	return clone(s), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, id string) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.stories, id)
	return clone(s), nil
}

func (r *MemoryRepository) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.owned(userID, id)
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.IsFavourite = isFavourite
	r.stories[id] = s
	return clone(s), nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*models.Story, error) {
	return r.filter(userID, func(*models.Story) bool { return true }), nil
}

func (r *MemoryRepository) Search(ctx context.Context, userID, query string) ([]*models.Story, error) {
	return r.filter(userID, func(s *models.Story) bool { return matches(s, query) }), nil
}

func (r *MemoryRepository) ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.Story, error) {
	return r.filter(userID, func(s *models.Story) bool {
		return !s.VisitedDate.Before(from) && !s.VisitedDate.After(to)
	}), nil
}

func (r *MemoryRepository) owned(userID, id string) (models.Story, bool) {
	s, ok := r.stories[id]
	if !ok || s.UserID != userID {
		return models.Story{}, false
	}
	return s, true
}

func (r *MemoryRepository) filter(userID string, keep func(*models.Story) bool) []*models.Story {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Story, 0)
	for _, s := range r.stories {
		if s.UserID != userID {
			continue
		}
		c := clone(s)
		if keep(c) {
			result = append(result, c)
		}
	}

	slices.SortFunc(result, func(a, b *models.Story) int {
		if a.IsFavourite != b.IsFavourite {
			if a.IsFavourite {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return result
}

func clone(s models.Story) *models.Story {
	s.VisitedLocation = slices.Clone(s.VisitedLocation)
	return &s
}
