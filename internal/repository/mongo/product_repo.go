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

// productRepository implements repository.ProductRepository for MongoDB.
type productRepository struct {
	coll    *mongo.Collection
	reviews *mongo.Collection
}

// NewProductRepository creates a new MongoDB product repository.
func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{
		coll:    db.Collection(collProducts),
		reviews: db.Collection(collReviews),
	}
}

// Insert persists a new product and fills in its generated ID.
func (r *productRepository) Insert(ctx context.Context, p *domain.Product) error {
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

// FindByID retrieves a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var p domain.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &p, nil
}

// List returns products matching the query options.
func (r *productRepository) List(ctx context.Context, opts *query.Options) ([]*domain.Product, error) {
	cursor, err := r.coll.Find(ctx, opts.Filter, findOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Count returns the total number of products, independent of any filter.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// Update replaces the stored product with the given document.
func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete removes a product, cascading to its reviews.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	if _, err := r.reviews.DeleteMany(ctx, bson.M{"product": id}); err != nil {
		return fmt.Errorf("failed to cascade delete reviews: %w", err)
	}
	return nil
}

// findOptions converts query options into driver find options.
func findOptions(opts *query.Options) *options.FindOptions {
	fo := options.Find().
		SetSort(opts.Sort).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit))
	if opts.Projection != nil {
		fo.SetProjection(opts.Projection)
	}
	return fo
}
