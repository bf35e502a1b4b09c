package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/repository"
)

// KnowledgeBaseService handles knowledge base operations.
type KnowledgeBaseService struct {
	kbRepo repository.KnowledgeBaseRepository
	logger zerolog.Logger
}

// NewKnowledgeBaseService creates a new KnowledgeBaseService.
func NewKnowledgeBaseService(
	kbRepo repository.KnowledgeBaseRepository,
	logger zerolog.Logger,
) *KnowledgeBaseService {
	return &KnowledgeBaseService{
		kbRepo: kbRepo,
		logger: logger.With().Str("service", "knowledge_base").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// ListArticlesInput contains the query options for listing items.
type ListArticlesInput struct {
	Options *query.Options
}

// ListArticlesOutput contains a page of items with pagination metadata.
type ListArticlesOutput struct {
	Items      []*domain.KnowledgeBaseItem
	Count      int
	Pagination query.Pagination
}

// GetArticleInput identifies an item to fetch.
type GetArticleInput struct {
	ID string
}

// GetArticleOutput contains the fetched item.
type GetArticleOutput struct {
	Item *domain.KnowledgeBaseItem
}

// CreateArticleInput contains the data needed to create an item.
type CreateArticleInput struct {
	Principal   domain.Principal
	Title       string
	Description string
	Content     string
	Category    domain.ArticleCategory
	Type        domain.ArticleType
	Level       domain.ArticleLevel
	Duration    string
	IsOffline   bool
	Thumbnail   string
	Tags        []string
}

// CreateArticleOutput contains the created item.
type CreateArticleOutput struct {
	Item *domain.KnowledgeBaseItem
}

// UpdateArticleInput contains the partial update for an item.
// Nil fields are left unchanged.
type UpdateArticleInput struct {
	Principal   domain.Principal
	ID          string
	Title       *string
	Description *string
	Content     *string
	Category    *domain.ArticleCategory
	Type        *domain.ArticleType
	Level       *domain.ArticleLevel
	Duration    *string
	IsOffline   *bool
	Thumbnail   *string
	Tags        []string
}

// UpdateArticleOutput contains the post-update item.
type UpdateArticleOutput struct {
	Item *domain.KnowledgeBaseItem
}

// DeleteArticleInput identifies an item to delete.
type DeleteArticleInput struct {
	Principal domain.Principal
	ID        string
}

// SearchArticlesInput carries the full-text search term.
type SearchArticlesInput struct {
	Term string
}

// SearchArticlesOutput contains search results ordered by relevance.
type SearchArticlesOutput struct {
	Items []*domain.KnowledgeBaseItem
	Count int
}

// =============================================================================
// Service Methods
// =============================================================================

// List returns a page of items matching the query options.
func (s *KnowledgeBaseService) List(ctx context.Context, input ListArticlesInput) (*ListArticlesOutput, error) {
	opts := input.Options
	if opts == nil {
		defaults, _ := query.Parse(nil)
		opts = defaults
	}

	items, err := s.kbRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list knowledge base items")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	total, err := s.kbRepo.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count knowledge base items")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &ListArticlesOutput{
		Items:      items,
		Count:      len(items),
		Pagination: opts.Pagination(total),
	}, nil
}

// Get retrieves a single item by ID.
func (s *KnowledgeBaseService) Get(ctx context.Context, input GetArticleInput) (*GetArticleOutput, error) {
	item, err := s.findItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetArticleOutput{Item: item}, nil
}

// Create validates and persists a new item, stamping the acting principal
// as its creator.
func (s *KnowledgeBaseService) Create(ctx context.Context, input CreateArticleInput) (*CreateArticleOutput, error) {
	item := domain.NewKnowledgeBaseItem(input.Principal.ID)
	item.Title = input.Title
	item.Description = input.Description
	item.Content = input.Content
	item.Category = input.Category
	item.Type = input.Type
	item.Level = input.Level
	item.Duration = input.Duration
	item.IsOffline = input.IsOffline
	item.Tags = input.Tags
	if input.Thumbnail != "" {
		item.Thumbnail = input.Thumbnail
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.kbRepo.Insert(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("title", input.Title).Msg("failed to create knowledge base item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("item_id", item.ID.Hex()).
		Str("creator", input.Principal.ID.Hex()).
		Msg("knowledge base item created")

	return &CreateArticleOutput{Item: item}, nil
}

// Update applies a partial update to an item. Existence is checked before
// ownership, then the merged document is revalidated and persisted.
func (s *KnowledgeBaseService) Update(ctx context.Context, input UpdateArticleInput) (*UpdateArticleOutput, error) {
	item, err := s.findItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if !input.Principal.CanMutate(item.CreatedBy) {
		return nil, domain.ErrNotOwner
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Content != nil {
		item.Content = *input.Content
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Level != nil {
		item.Level = *input.Level
	}
	if input.Duration != nil {
		item.Duration = *input.Duration
	}
	if input.IsOffline != nil {
		item.IsOffline = *input.IsOffline
	}
	if input.Thumbnail != nil {
		item.Thumbnail = *input.Thumbnail
	}
	if input.Tags != nil {
		item.Tags = input.Tags
	}
	item.UpdatedAt = time.Now().UTC()

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.kbRepo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		s.logger.Error().Err(err).Str("item_id", input.ID).Msg("failed to update knowledge base item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &UpdateArticleOutput{Item: item}, nil
}

// Delete removes an item after existence and ownership checks.
func (s *KnowledgeBaseService) Delete(ctx context.Context, input DeleteArticleInput) error {
	item, err := s.findItem(ctx, input.ID)
	if err != nil {
		return err
	}

	if !input.Principal.CanMutate(item.CreatedBy) {
		return domain.ErrNotOwner
	}

	if err := s.kbRepo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return domain.ErrArticleNotFound
		}
		s.logger.Error().Err(err).Str("item_id", input.ID).Msg("failed to delete knowledge base item")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("item_id", input.ID).Msg("knowledge base item deleted")
	return nil
}

// Search runs a full-text relevance query. A missing term fails before
// any store access.
func (s *KnowledgeBaseService) Search(ctx context.Context, input SearchArticlesInput) (*SearchArticlesOutput, error) {
	if input.Term == "" {
		return nil, domain.ErrSearchTermRequired
	}

	items, err := s.kbRepo.Search(ctx, input.Term)
	if err != nil {
		s.logger.Error().Err(err).Str("term", input.Term).Msg("failed to search knowledge base")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return &SearchArticlesOutput{
		Items: items,
		Count: len(items),
	}, nil
}

// findItem resolves a string ID and fetches the item. A malformed ID is
// reported as not found.
func (s *KnowledgeBaseService) findItem(ctx context.Context, id string) (*domain.KnowledgeBaseItem, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	item, err := s.kbRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to get knowledge base item")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return item, nil
}
