// Package repository defines data access interfaces for the Fieldworks API.
// Implementations live in driver-specific subpackages.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
)

// ProductRepository manages product persistence.
type ProductRepository interface {
	// Insert persists a new product and fills in its generated ID.
	Insert(ctx context.Context, p *domain.Product) error

	// FindByID retrieves a product. Returns domain.ErrProductNotFound
	// if absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)

	// List returns products matching the query options.
	List(ctx context.Context, opts *query.Options) ([]*domain.Product, error)

	// Count returns the total number of products in the collection,
	// independent of any filter.
	Count(ctx context.Context) (int64, error)

	// Update replaces the stored product with the given document.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product and cascades to its reviews.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderRepository manages order persistence.
type OrderRepository interface {
	// Insert persists a new order and fills in its generated ID.
	Insert(ctx context.Context, o *domain.Order) error

	// FindByID retrieves an order. Returns domain.ErrOrderNotFound
	// if absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)

	// FindByUser returns all orders placed by the given user.
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error)

	// List returns all orders.
	List(ctx context.Context) ([]*domain.Order, error)

	// Update replaces the stored order with the given document.
	Update(ctx context.Context, o *domain.Order) error

	// Delete removes an order.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// KnowledgeBaseRepository manages knowledge base persistence.
type KnowledgeBaseRepository interface {
	// Insert persists a new item and fills in its generated ID.
	Insert(ctx context.Context, item *domain.KnowledgeBaseItem) error

	// FindByID retrieves an item. Returns domain.ErrArticleNotFound
	// if absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.KnowledgeBaseItem, error)

	// List returns items matching the query options.
	List(ctx context.Context, opts *query.Options) ([]*domain.KnowledgeBaseItem, error)

	// Count returns the total number of items in the collection,
	// independent of any filter.
	Count(ctx context.Context) (int64, error)

	// Search runs a full-text relevance query, returning items ordered
	// by descending relevance score.
	Search(ctx context.Context, term string) ([]*domain.KnowledgeBaseItem, error)

	// Update replaces the stored item with the given document.
	Update(ctx context.Context, item *domain.KnowledgeBaseItem) error

	// Delete removes an item.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Insert persists a new user and fills in its generated ID.
	// Returns domain.ErrEmailTaken on a duplicate email.
	Insert(ctx context.Context, u *domain.User) error

	// FindByID retrieves a user. Returns domain.ErrUserNotFound if absent.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// FindByEmail retrieves a user by email. Returns domain.ErrUserNotFound
	// if absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
