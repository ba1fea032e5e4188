package repomanager

import (
	"context"

	"github.com/dmitrijs2005/travelbook/internal/server/repositories/stories"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/users"
)

// MemoryRepositoryManager keeps everything in process memory. Data is lost on
// restart; useful for local runs and tests.
type MemoryRepositoryManager struct {
	users   *users.MemoryRepository
	stories *stories.MemoryRepository
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Close(ctx context.Context) error {
	return nil
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) Stories() stories.Repository {
	return m.stories
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users:   users.NewMemoryRepository(),
		stories: stories.NewMemoryRepository(),
	}
}
