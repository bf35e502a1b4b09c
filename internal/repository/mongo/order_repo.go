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
	"github.com/fieldworks/fieldworks-api/internal/repository"
)

// orderRepository implements repository.OrderRepository for MongoDB.
type orderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new MongoDB order repository.
func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepository{coll: db.Collection(collOrders)}
}

// Insert persists a new order and fills in its generated ID.
func (r *orderRepository) Insert(ctx context.Context, o *domain.Order) error {
	res, err := r.coll.InsertOne(ctx, o)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		o.ID = id
	}
	return nil
}

// FindByID retrieves an order by ID.
func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var o domain.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &o, nil
}

// FindByUser returns all orders placed by the given user, newest first.
func (r *orderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{"user": userID})
}

// List returns all orders, newest first.
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *orderRepository) find(ctx context.Context, filter bson.M) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []*domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

// Update replaces the stored order with the given document.
func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete removes an order.
func (r *orderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
