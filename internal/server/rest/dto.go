package rest

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/dmitrijs2005/travelbook/internal/server/services"
	"github.com/dmitrijs2005/travelbook/internal/timex"
)

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Error       bool          `json:"error"`
	User        *userResponse `json:"user"`
	AccessToken string        `json:"accessToken"`
	Message     string        `json:"message"`
}

type userResponse struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

func newUserResponse(u *models.User) *userResponse {
	return &userResponse{ID: u.ID, FullName: u.FullName, Email: u.Email, CreatedOn: u.CreatedAt}
}

// locationList accepts either a JSON array of strings or a single string.
type locationList []string

func (l *locationList) UnmarshalJSON(b []byte) error {
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*l = many
		return nil
	}
	var one *string
	if err := json.Unmarshal(b, &one); err != nil {
		return errors.New("visitedLocation must be a string or an array of strings")
	}
	if one == nil {
		*l = nil
		return nil
	}
	*l = []string{*one}
	return nil
}

type storyRequest struct {
	Title           string            `json:"title"`
	Story           string            `json:"story"`
	VisitedLocation locationList      `json:"visitedLocation"`
	ImageURL        string            `json:"imageUrl"`
	VisitedDate     timex.EpochMillis `json:"visitedDate"`
}

func (r storyRequest) input() services.StoryInput {
	in := services.StoryInput{
		Title:           r.Title,
		Story:           r.Story,
		VisitedLocation: r.VisitedLocation,
		ImageURL:        r.ImageURL,
	}
	if r.VisitedDate.Valid {
		in.VisitedDate = r.VisitedDate.Time
	}
	return in
}

type favouriteRequest struct {
	IsFavourite *bool `json:"isFavourite"`
}

type storyResponse struct {
	ID              string    `json:"_id"`
	UserID          string    `json:"userId"`
	Title           string    `json:"title"`
	Story           string    `json:"story"`
	VisitedLocation []string  `json:"visitedLocation"`
	ImageURL        string    `json:"imageUrl"`
	VisitedDate     time.Time `json:"visitedDate"`
	IsFavourite     bool      `json:"isFavourite"`
	CreatedOn       time.Time `json:"createdOn"`
}

func newStoryResponse(s *models.Story) *storyResponse {
	locs := s.VisitedLocation
	if locs == nil {
		locs = []string{}
	}
	return &storyResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		Title:           s.Title,
		Story:           s.Story,
		VisitedLocation: locs,
		ImageURL:        s.ImageURL,
		VisitedDate:     s.VisitedDate,
		IsFavourite:     s.IsFavourite,
		CreatedOn:       s.CreatedAt,
	}
}

func newStoryList(list []*models.Story) []*storyResponse {
	out := make([]*storyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, newStoryResponse(s))
	}
	return out
}

type storyEnvelope struct {
	Story   *storyResponse `json:"story"`
	Message string         `json:"message"`
}

type storiesEnvelope struct {
	Stories []*storyResponse `json:"stories"`
}
