package stories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/travelbook/internal/common"
	"github.com/dmitrijs2005/travelbook/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding stories.
const CollectionName = "travelStories"

type storyDocument struct {
	ID              string    `bson:"_id"`
	UserID          string    `bson:"userId"`
	Title           string    `bson:"title"`
	Story           string    `bson:"story"`
	VisitedLocation []string  `bson:"visitedLocation"`
	ImageURL        string    `bson:"imageUrl"`
	VisitedDate     time.Time `bson:"visitedDate"`
	IsFavourite     bool      `bson:"isFavourite"`
	CreatedAt       time.Time `bson:"createdOn"`
}

func (d *storyDocument) model() *models.Story {
	return &models.Story{
		ID:              d.ID,
		UserID:          d.UserID,
		Title:           d.Title,
		Story:           d.Story,
		VisitedLocation: d.VisitedLocation,
		ImageURL:        d.ImageURL,
		VisitedDate:     d.VisitedDate,
		IsFavourite:     d.IsFavourite,
		CreatedAt:       d.CreatedAt,
	}
}

var storySort = bson.D{{Key: "isFavourite", Value: -1}, {Key: "createdOn", Value: -1}}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

// EnsureIndexes creates the index backing per-user listings.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "isFavourite", Value: -1}, {Key: "createdOn", Value: -1}},
		Options: options.Index().SetName("stories_user_listing"),
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, story *models.Story) (*models.Story, error) {
	doc := storyDocument{
		ID:              uuid.NewString(),
		UserID:          story.UserID,
		Title:           story.Title,
		Story:           story.Story,
		VisitedLocation: locations(story.VisitedLocation),
		ImageURL:        story.ImageURL,
		VisitedDate:     story.VisitedDate,
		CreatedAt:       time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoRepository) Update(ctx context.Context, story *models.Story) (*models.Story, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: story.Title},
		{Key: "story", Value: story.Story},
		{Key: "visitedLocation", Value: locations(story.VisitedLocation)},
		{Key: "imageUrl", Value: story.ImageURL},
		{Key: "visitedDate", Value: story.VisitedDate},
	}}}
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, ownedBy(story.UserID, story.ID), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)))
}

func (r *MongoRepository) Delete(ctx context.Context, userID, id string) (*models.Story, error) {
	return r.decodeOne(r.coll.FindOneAndDelete(ctx, ownedBy(userID, id)))
}

func (r *MongoRepository) SetFavourite(ctx context.Context, userID, id string, isFavourite bool) (*models.Story, error) {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "isFavourite", Value: isFavourite}}}}
	return r.decodeOne(r.coll.FindOneAndUpdate(ctx, ownedBy(userID, id), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)))
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]*models.Story, error) {
	return r.find(ctx, bson.D{{Key: "userId", Value: userID}})
}

// Search treats query as a literal substring, not a regular expression.
func (r *MongoRepository) Search(ctx context.Context, userID, query string) ([]*models.Story, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "story", Value: re}},
			bson.D{{Key: "visitedLocation", Value: re}},
		}},
	}
	return r.find(ctx, filter)
}

func (r *MongoRepository) ListByVisitedDate(ctx context.Context, userID string, from, to time.Time) ([]*models.Story, error) {
	filter := bson.D{
		{Key: "userId", Value: userID},
		{Key: "visitedDate", Value: bson.D{{Key: "$gte", Value: from}, {Key: "$lte", Value: to}}},
	}
	return r.find(ctx, filter)
}

func (r *MongoRepository) find(ctx context.Context, filter bson.D) ([]*models.Story, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(storySort))
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	defer cur.Close(ctx)

	result := make([]*models.Story, 0)
	for cur.Next(ctx) {
		var doc storyDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) decodeOne(res *mongo.SingleResult) (*models.Story, error) {
	var doc storyDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.model(), nil
}

func ownedBy(userID, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: userID}}
}
