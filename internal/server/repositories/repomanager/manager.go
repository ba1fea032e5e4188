// Package repomanager selects a storage backend from the database DSN and
// vends the repositories bound to it.
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/travelbook/internal/server/repositories/stories"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	Users() users.Repository
	Stories() stories.Repository
}

// NewRepositoryManager dispatches on the DSN scheme: postgres(ql)://,
// mongodb(+srv):// or memory://.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		m, err := NewPostgresRepositoryManager(dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "mongodb", "mongodb+srv":
		m, err := NewMongoRepositoryManager(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "memory":
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
