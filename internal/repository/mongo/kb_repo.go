package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/repository"
)

// knowledgeBaseRepository implements repository.KnowledgeBaseRepository for MongoDB.
type knowledgeBaseRepository struct {
	coll *mongo.Collection
}

// NewKnowledgeBaseRepository creates a new MongoDB knowledge base repository.
func NewKnowledgeBaseRepository(db *DB) repository.KnowledgeBaseRepository {
	return &knowledgeBaseRepository{coll: db.Collection(collKnowledgeBase)}
}

// Insert persists a new item and fills in its generated ID.
func (r *knowledgeBaseRepository) Insert(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	res, err := r.coll.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("failed to insert knowledge base item: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		item.ID = id
	}
	return nil
}

// FindByID retrieves an item by ID.
func (r *knowledgeBaseRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.KnowledgeBaseItem, error) {
	var item domain.KnowledgeBaseItem
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to find knowledge base item: %w", err)
	}
	return &item, nil
}

// List returns items matching the query options.
func (r *knowledgeBaseRepository) List(ctx context.Context, opts *query.Options) ([]*domain.KnowledgeBaseItem, error) {
	cursor, err := r.coll.Find(ctx, opts.Filter, findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge base items: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.KnowledgeBaseItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base items: %w", err)
	}
	return items, nil
}

// Count returns the total number of items, independent of any filter.
func (r *knowledgeBaseRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count knowledge base items: %w", err)
	}
	return total, nil
}

// Search runs a full-text relevance query against the compound text index,
// returning items ordered by descending relevance score.
func (r *knowledgeBaseRepository) Search(ctx context.Context, term string) ([]*domain.KnowledgeBaseItem, error) {
	filter := bson.M{"$text": bson.M{"$search": term}}
	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.KnowledgeBaseItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return items, nil
}

// Update replaces the stored item with the given document.
func (r *knowledgeBaseRepository) Update(ctx context.Context, item *domain.KnowledgeBaseItem) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": item.ID}, item)
	if err != nil {
		return fmt.Errorf("failed to update knowledge base item: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// Delete removes an item.
func (r *knowledgeBaseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete knowledge base item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}
