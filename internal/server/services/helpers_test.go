package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/config"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/repomanager"
)

const testBaseURL = "http://localhost:8000"

// fakeStore is an in-memory media.Store.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string]string
	deleteErr error
	deleted   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (f *fakeStore) Save(ctx context.Context, name string, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[name] = string(b)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.objects[name]; !ok {
		return common.ErrorNotFound
	}
	delete(f.objects, name)
	return nil
}

func (f *fakeStore) Handler() http.Handler {
	return http.NotFoundHandler()
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		BaseURL:                     testBaseURL,
	}
}

// failingRepoMgr is embedded by fakes that override a single repository.
type failingRepoMgr struct {
	repomanager.RepositoryManager
}

var errDB = errors.New("db error: connection refused")
