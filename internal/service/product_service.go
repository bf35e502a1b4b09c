package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/repository"
	"github.com/fieldworks/fieldworks-api/internal/storage"
)

// ProductService handles marketplace product operations.
type ProductService struct {
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	uploads     storage.Backend
	maxFileSize int64
	logger      zerolog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	uploads storage.Backend,
	maxFileSize int64,
	logger zerolog.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		userRepo:    userRepo,
		uploads:     uploads,
		maxFileSize: maxFileSize,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// ListProductsInput contains the query options for listing products.
type ListProductsInput struct {
	Options *query.Options
}

// ListProductsOutput contains a page of products with pagination metadata.
type ListProductsOutput struct {
	Products   []*domain.Product
	Count      int
	Pagination query.Pagination
}

// GetProductInput identifies a product to fetch.
type GetProductInput struct {
	ID string
}

// GetProductOutput contains the fetched product.
type GetProductOutput struct {
	Product *domain.Product
}

// CreateProductInput contains the data needed to create a product.
type CreateProductInput struct {
	Principal    domain.Principal
	Name         string
	Price        float64
	Description  string
	Image        string
	Category     domain.ProductCategory
	CountInStock int
}

// CreateProductOutput contains the created product.
type CreateProductOutput struct {
	Product *domain.Product
}

// UpdateProductInput contains the partial update for a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	Principal    domain.Principal
	ID           string
	Name         *string
	Price        *float64
	Description  *string
	Image        *string
	Category     *domain.ProductCategory
	CountInStock *int
}

// UpdateProductOutput contains the post-update product.
type UpdateProductOutput struct {
	Product *domain.Product
}

// DeleteProductInput identifies a product to delete.
type DeleteProductInput struct {
	Principal domain.Principal
	ID        string
}

// UploadPhotoInput contains an uploaded product photo.
type UploadPhotoInput struct {
	Principal   domain.Principal
	ID          string
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadPhotoOutput contains the stored photo path.
type UploadPhotoOutput struct {
	Path string
}

// =============================================================================
// Service Methods
// =============================================================================

// List returns a page of products matching the query options, together with
// pagination metadata computed against the total collection count.
func (s *ProductService) List(ctx context.Context, input ListProductsInput) (*ListProductsOutput, error) {
	opts := input.Options
	if opts == nil {
		defaults, _ := query.Parse(nil)
		opts = defaults
	}

	products, err := s.productRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	total, err := s.productRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count products")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.populateOwners(ctx, products)

	return &ListProductsOutput{
		Products:   products,
		Count:      len(products),
		Pagination: opts.Pagination(total),
	}, nil
}

// Get retrieves a single product by ID.
func (s *ProductService) Get(ctx context.Context, input GetProductInput) (*GetProductOutput, error) {
	product, err := s.findProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetProductOutput{Product: product}, nil
}

// Create validates and persists a new product, stamping the acting
// principal as its owner.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*CreateProductOutput, error) {
	product := domain.NewProduct(input.Principal.ID)
	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Category = input.Category
	product.CountInStock = input.CountInStock
	if input.Image != "" {
		product.Image = input.Image
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Insert(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("name", input.Name).Msg("failed to create product")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("product_id", product.ID.Hex()).
		Str("owner", input.Principal.ID.Hex()).
		Msg("product created")

	return &CreateProductOutput{Product: product}, nil
}

// Update applies a partial update to a product. Existence is checked
// before ownership, then the merged document is revalidated and persisted.
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*UpdateProductOutput, error) {
	product, err := s.findProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !input.Principal.CanMutate(product.UserID) {
		return nil, domain.ErrNotOwner
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.CountInStock != nil {
		product.CountInStock = *input.CountInStock
	}
	product.UpdatedAt = time.Now().UTC()

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product_id", input.ID).Msg("failed to update product")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &UpdateProductOutput{Product: product}, nil
}

// Delete removes a product after existence and ownership checks,
// cascading to its reviews.
func (s *ProductService) Delete(ctx context.Context, input DeleteProductInput) error {
	product, err := s.findProduct(ctx, input.ID)
	if err != nil {
		return err
	}

	if !input.Principal.CanMutate(product.UserID) {
		return domain.ErrNotOwner
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return domain.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product_id", input.ID).Msg("failed to delete product")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("product_id", input.ID).Msg("product deleted")
	return nil
}

// UploadPhoto stores an uploaded product photo and records its path on
// the product.
func (s *ProductService) UploadPhoto(ctx context.Context, input UploadPhotoInput) (*UploadPhotoOutput, error) {
	product, err := s.findProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !input.Principal.CanMutate(product.UserID) {
		return nil, domain.ErrNotOwner
	}

	if !strings.HasPrefix(input.ContentType, "image/") {
		return nil, domain.ErrNotAnImage
	}
	if input.Size > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}

	name := fmt.Sprintf("photo_%s%s", uuid.NewString(), filepath.Ext(input.Filename))
	path, err := s.uploads.Store(ctx, input.Reader, name, input.Size)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", input.ID).Msg("failed to store photo")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	product.Image = path
	product.UpdatedAt = time.Now().UTC()
	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", input.ID).Msg("failed to record photo path")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &UploadPhotoOutput{Path: path}, nil
}

// findProduct resolves a string ID and fetches the product. A malformed
// ID is reported as not found, matching the id-lookup contract.
func (s *ProductService) findProduct(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}

	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, domain.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return product, nil
}

// populateOwners attaches the reduced owner shape to each product.
// Population failures are logged and skipped; listing still succeeds.
func (s *ProductService) populateOwners(ctx context.Context, products []*domain.Product) {
	cache := make(map[primitive.ObjectID]*domain.UserRef)
	for _, p := range products {
		if p.UserID.IsZero() {
			continue
		}
		if ref, ok := cache[p.UserID]; ok {
			p.Owner = ref
			continue
		}
		user, err := s.userRepo.FindByID(ctx, p.UserID)
		if err != nil {
			s.logger.Debug().Err(err).Str("user_id", p.UserID.Hex()).Msg("owner lookup failed")
			cache[p.UserID] = nil
			continue
		}
		ref := &domain.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
		cache[p.UserID] = ref
		p.Owner = ref
	}
}
