package stories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/dbx"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

const storyColumns = `id, user_id, title, story, visited_location, image_url, visited_date, is_favourite, created_at`

const storyOrder = `ORDER BY is_favourite DESC, created_at DESC`

// PostgresRepository implements story storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	query := `
		INSERT INTO stories (user_id, title, story, visited_location, image_url, visited_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_favourite, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		story.UserID, story.Title, story.Story, locations(story.VisitedLocation), story.ImageURL, story.VisitedDate,
	).Scan(&story.ID, &story.IsFavourite, &story.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return story, nil
}

func (r *PostgresRepository) Update(ctx context.Context, story *models.Story) (*models.Story, error) {
	query := `
		UPDATE stories SET title = $3, story = $4, visited_location = $5, image_url = $6, visited_date = $7
		WHERE id = $1 AND user_id = $2
		RETURNING ` + storyColumns
	return r.queryOne(ctx, query,
		story.ID, story.UserID, story.Title, story.Story, locations(story.VisitedLocation), story.ImageURL, story.VisitedDate)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (*models.Story, error) {
	query := `DELETE FROM stories WHERE id = $1 AND user_id = $2 RETURNING ` + storyColumns
	return r.queryOne(ctx, query, id, userID)
}

func (r *PostgresRepository) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error) {
	query := `UPDATE stories SET is_favourite = $3 WHERE id = $1 AND user_id = $2 RETURNING ` + storyColumns
	return r.queryOne(ctx, query, id, userID, isFavourite)
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE user_id = $1 ` + storyOrder
	return r.queryMany(ctx, query, userID)
}

// Search matches query literally: LIKE wildcards in it are escaped.
func (r *PostgresRepository) Search(ctx context.Context, userID, query string) ([]*models.Story, error) {
	q := `SELECT ` + storyColumns + ` FROM stories
		WHERE user_id = $1 AND (
			title ILIKE $2 ESCAPE '\'
			OR story ILIKE $2 ESCAPE '\'
			OR EXISTS (SELECT 1 FROM unnest(visited_location) AS loc WHERE loc ILIKE $2 ESCAPE '\')
		) ` + storyOrder
	return r.queryMany(ctx, q, userID, "%"+escapeLike(query)+"%")
}

func (r *PostgresRepository) ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories
		WHERE user_id = $1 AND visited_date >= $2 AND visited_date <= $3 ` + storyOrder
	return r.queryMany(ctx, query, userID, from, to)
}

func (r *PostgresRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Story, error) {
	m := pgtype.NewMap()
	story := &models.Story{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(scanTargets(m, story)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return story, nil
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	defer rows.Close()

	m := pgtype.NewMap()
	result := make([]*models.Story, 0)
	for rows.Next() {
		story := &models.Story{}
		if err := rows.Scan(scanTargets(m, story)...); err != nil {
			return nil, err
		}
		result = append(result, story)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanTargets(m *pgtype.Map, s *models.Story) []any {
	return []any{
		&s.ID, &s.UserID, &s.Title, &s.Story, m.SQLScanner(&s.VisitedLocation),
		&s.ImageURL, &s.VisitedDate, &s.IsFavourite, &s.CreatedAt,
	}
}

// locations never hands a nil slice to the driver: the column is NOT NULL.
func locations(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
