package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/logging"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// StoryInput carries the user-editable fields of a story. A zero VisitedDate
// means the date was not supplied.
type StoryInput struct {
	Title           string
	Story           string
	VisitedLocation []string
	ImageURL        string
	VisitedDate     time.Time
}

// StoryService implements story operations. Every method takes the caller's
// user id and never touches stories owned by someone else.
type StoryService struct {
	repomanager repomanager.RepositoryManager
	media       *MediaService
	logger      logging.Logger
}

func NewStoryService(m repomanager.RepositoryManager, media *MediaService, logger logging.Logger) *StoryService {
	return &StoryService{
		repomanager: m,
		media:       media,
		logger:      logger.With("module", "stories"),
	}
}

func (s *StoryService) Create(ctx context.Context, userID string, in StoryInput) (*models.Story, error) {
	in = in.normalized()
	if !in.complete() || in.ImageURL == "" {
		return nil, errAllFieldsRequired
	}

	story, err := s.repomanager.Stories().Create(ctx, &models.Story{
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     in.VisitedDate,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating story: %w", err)
	}
	return story, nil
}

func (s *StoryService) List(ctx context.Context, userID string) ([]*models.Story, error) {
	stories, err := s.repomanager.Stories().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing stories: %w", err)
	}
	return favouritesFirst(stories), nil
}

// Edit replaces the editable fields. A missing image URL falls back to the
// placeholder asset.
func (s *StoryService) Edit(ctx context.Context, userID, id string, in StoryInput) (*models.Story, error) {
	in = in.normalized()
	if !in.complete() {
		return nil, errAllFieldsRequired
	}
	if !validID(id) {
		return nil, errStoryNotFound
	}
	if in.ImageURL == "" {
		in.ImageURL = s.media.PlaceholderURL()
	}

	story, err := s.repomanager.Stories().Update(ctx, &models.Story{
		ID:              id,
		UserID:          userID,
		Title:           in.Title,
		Story:           in.Story,
		VisitedLocation: in.VisitedLocation,
		ImageURL:        in.ImageURL,
		VisitedDate:     in.VisitedDate,
	})
	if err != nil {
		return nil, storyError("error updating story", err)
	}
	return story, nil
}

// Delete removes the story, then its image if it is one of our uploads.
// Image removal is best effort: a missing file is ignored and other failures
// are only logged.
func (s *StoryService) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return errStoryNotFound
	}

	story, err := s.repomanager.Stories().Delete(ctx, userID, id)
	if err != nil {
		return storyError("error deleting story", err)
	}

	if !s.media.IsUpload(story.ImageURL) {
		return nil
	}
	if err := s.media.Delete(ctx, story.ImageURL); err != nil && !errors.Is(err, common.ErrorNotFound) {
		s.logger.Warn(ctx, "failed to delete story image", "story_id", id, "image_url", story.ImageURL, "error", err)
	}
	return nil
}

func (s *StoryService) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error) {
	if !validID(id) {
		return nil, errStoryNotFound
	}
	story, err := s.repomanager.Stories().SetFavourite(ctx, userID, id, isFavourite)
	if err != nil {
		return nil, storyError("error updating story", err)
	}
	return story, nil
}

// Search matches query literally and case-insensitively against the title,
// the text and every location.
func (s *StoryService) Search(ctx context.Context, userID, query string) ([]*models.Story, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", common.ErrorValidation)
	}
	stories, err := s.repomanager.Stories().Search(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("error searching stories: %w", err)
	}
	return favouritesFirst(stories), nil
}

// FilterByDate returns stories visited within [start, end], both inclusive.
func (s *StoryService) FilterByDate(ctx context.Context, userID string, start, end time.Time) ([]*models.Story, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: startDate and endDate are required", common.ErrorValidation)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: startDate is after endDate", common.ErrorValidation)
	}
	stories, err := s.repomanager.Stories().ListByVisitedDate(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error filtering stories: %w", err)
	}
	return favouritesFirst(stories), nil
}

var (
	errAllFieldsRequired = fmt.Errorf("%w: all fields are required", common.ErrorValidation)
	errStoryNotFound     = fmt.Errorf("%w: travel story not found", common.ErrorNotFound)
)

func storyError(msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return errStoryNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// favouritesFirst keeps the store's order within each group.
func favouritesFirst(stories []*models.Story) []*models.Story {
	slices.SortStableFunc(stories, func(a, b *models.Story) int {
		switch {
		case a.IsFavourite == b.IsFavourite:
			return 0
		case a.IsFavourite:
			return -1
		default:
			return 1
		}
	})
	return stories
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (in StoryInput) normalized() StoryInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Story = strings.TrimSpace(in.Story)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	locs := make([]string, 0, len(in.VisitedLocation))
	for _, l := range in.VisitedLocation {
		if l = strings.TrimSpace(l); l != "" {
			locs = append(locs, l)
		}
	}
	in.VisitedLocation = locs
	return in
}

func (in StoryInput) complete() bool {
	return in.Title != "" && in.Story != "" && len(in.VisitedLocation) > 0 && !in.VisitedDate.IsZero()
}
