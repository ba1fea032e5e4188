package rest

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/dmitrijs2005/travelbook/internal/server/services"
)

type fakeUsers struct {
	regResp   *services.AuthResult
	regErr    error
	loginResp *services.AuthResult
	loginErr  error
	getResp   *models.User
	getErr    error

	gotUserID string
}

func (f *fakeUsers) Register(ctx context.Context, fullName, email, password string) (*services.AuthResult, error) {
	return f.regResp, f.regErr
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeUsers) GetUser(ctx context.Context, userID string) (*models.User, error) {
	f.gotUserID = userID
	return f.getResp, f.getErr
}

type fakeStories struct {
	story *models.Story
	list  []*models.Story
	err   error

	gotUserID string
	gotID     string
	gotInput  services.StoryInput
	gotFav    bool
	gotQuery  string
	gotStart  time.Time
	gotEnd    time.Time
	panicOn   bool
}

func (f *fakeStories) Create(ctx context.Context, userID string, in services.StoryInput) (*models.Story, error) {
	f.gotUserID, f.gotInput = userID, in
	return f.story, f.err
}

func (f *fakeStories) List(ctx context.Context, userID string) ([]*models.Story, error) {
	if f.panicOn {
		panic("boom")
	}
	f.gotUserID = userID
	return f.list, f.err
}

func (f *fakeStories) Edit(ctx context.Context, userID, id string, in services.StoryInput) (*models.Story, error) {
	f.gotUserID, f.gotID, f.gotInput = userID, id, in
	return f.story, f.err
}

func (f *fakeStories) Delete(ctx context.Context, userID, id string) error {
	f.gotUserID, f.gotID = userID, id
	return f.err
}

func (f *fakeStories) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error) {
	f.gotUserID, f.gotID, f.gotFav = userID, id, isFavourite
	return f.story, f.err
}

func (f *fakeStories) Search(ctx context.Context, userID, query string) ([]*models.Story, error) {
	f.gotUserID, f.gotQuery = userID, query
	return f.list, f.err
}

func (f *fakeStories) FilterByDate(ctx context.Context, userID string, start, end time.Time) ([]*models.Story, error) {
	f.gotUserID, f.gotStart, f.gotEnd = userID, start, end
	return f.list, f.err
}

type fakeMedia struct {
	url     string
	err     error
	gotName string
	gotBody string
	gotURL  string
}

func (f *fakeMedia) Upload(ctx context.Context, originalName string, body io.Reader) (string, error) {
	b, _ := io.ReadAll(body)
	f.gotName, f.gotBody = originalName, string(b)
	return f.url, f.err
}

func (f *fakeMedia) Delete(ctx context.Context, imageURL string) error {
	f.gotURL = imageURL
	return f.err
}
