package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/travelbook/internal/server/repositories/stories"
	"github.com/dmitrijs2005/travelbook/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultMongoDatabase = "travelbook"

type MongoRepositoryManager struct {
	client  *mongo.Client
	users   *users.MongoRepository
	stories *stories.MongoRepository
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Stories() stories.Repository {
	return m.stories
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// RunMigrations creates the indexes both collections rely on; MongoDB has no
// schema to migrate.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if err := m.stories.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("stories indexes: %w", err)
	}
	return nil
}

func NewMongoRepositoryManager(ctx context.Context, dsn string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	return newMongoRepositoryManager(client.Database(mongoDatabaseName(dsn))), nil
}

func newMongoRepositoryManager(db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client:  db.Client(),
		users:   users.NewMongoRepository(db.Collection(users.CollectionName)),
		stories: stories.NewMongoRepository(db.Collection(stories.CollectionName)),
	}
}

// mongoDatabaseName takes the database from the DSN path, falling back to
// defaultMongoDatabase.
func mongoDatabaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}
