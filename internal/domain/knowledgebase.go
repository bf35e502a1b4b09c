package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArticleCategory is the fixed set of knowledge base categories.
type ArticleCategory string

const (
	ArticleCropManagement  ArticleCategory = "Crop Management"
	ArticleSmartIrrigation ArticleCategory = "Smart Irrigation"
	ArticleMobileLearning  ArticleCategory = "Mobile Learning"
	ArticleMarketAccess    ArticleCategory = "Market Access"
	ArticleCommunity       ArticleCategory = "Community"
)

// ArticleCategories lists every valid knowledge base category.
var ArticleCategories = []ArticleCategory{
	ArticleCropManagement,
	ArticleSmartIrrigation,
	ArticleMobileLearning,
	ArticleMarketAccess,
	ArticleCommunity,
}

// ArticleType is the fixed set of knowledge base content types.
type ArticleType string

const (
	TypeGuide     ArticleType = "guide"
	TypeVideo     ArticleType = "video"
	TypeArticle   ArticleType = "article"
	TypeCommunity ArticleType = "community"
)

// ArticleTypes lists every valid content type.
var ArticleTypes = []ArticleType{TypeGuide, TypeVideo, TypeArticle, TypeCommunity}

// ArticleLevel is the fixed set of difficulty levels.
type ArticleLevel string

const (
	LevelBeginner     ArticleLevel = "Beginner"
	LevelIntermediate ArticleLevel = "Intermediate"
	LevelAdvanced     ArticleLevel = "Advanced"
	LevelAll          ArticleLevel = "All"
)

// ArticleLevels lists every valid difficulty level.
var ArticleLevels = []ArticleLevel{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAll}

// ValidateArticleCategory checks the category against the enumerated set.
func ValidateArticleCategory(c ArticleCategory) error {
	for _, valid := range ArticleCategories {
		if c == valid {
			return nil
		}
	}
	return ErrInvalidArticleCategory
}

// ValidateArticleType checks the content type against the enumerated set.
func ValidateArticleType(t ArticleType) error {
	for _, valid := range ArticleTypes {
		if t == valid {
			return nil
		}
	}
	return ErrInvalidArticleType
}

// ValidateArticleLevel checks the difficulty level against the enumerated set.
func ValidateArticleLevel(l ArticleLevel) error {
	for _, valid := range ArticleLevels {
		if l == valid {
			return nil
		}
	}
	return ErrInvalidArticleLevel
}

// DefaultArticleThumbnail is used when an item has no thumbnail.
const DefaultArticleThumbnail = "/uploads/knowledge-base/default.jpg"

// KnowledgeBaseItem represents a knowledge base article, guide or video.
// A compound text index over title/description/content/tags backs search.
type KnowledgeBaseItem struct {
	// ID is the unique identifier for the item.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Title of the item. Constraints: required, at most 100 characters.
	Title string `bson:"title" json:"title"`

	// Description is a short summary. Constraints: required, at most
	// 1000 characters.
	Description string `bson:"description" json:"description"`

	// Content is the full body. Required.
	Content string `bson:"content" json:"content"`

	// Category must be one of ArticleCategories.
	Category ArticleCategory `bson:"category" json:"category"`

	// Type must be one of ArticleTypes.
	Type ArticleType `bson:"type" json:"type"`

	// Level must be one of ArticleLevels.
	Level ArticleLevel `bson:"level" json:"level"`

	// Duration is the estimated reading/viewing duration. Required.
	Duration string `bson:"duration" json:"duration"`

	// IsOffline marks content available without connectivity.
	IsOffline bool `bson:"is_offline" json:"isOffline"`

	// Thumbnail is the preview image path.
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`

	// Tags are free-form search keywords.
	Tags []string `bson:"tags,omitempty" json:"tags,omitempty"`

	// CreatedBy references the user who created the item.
	// Stamped at creation and never changed afterwards.
	CreatedBy primitive.ObjectID `bson:"created_by" json:"createdBy"`

	// Score is the text-search relevance score. Populated only on search
	// results, never persisted.
	Score float64 `bson:"score,omitempty" json:"score,omitempty"`

	// CreatedAt is the timestamp when the item was created.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// UpdatedAt is the timestamp when the item was last updated.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewKnowledgeBaseItem creates an item with default values, owned by userID.
func NewKnowledgeBaseItem(userID primitive.ObjectID) *KnowledgeBaseItem {
	now := time.Now().UTC()
	return &KnowledgeBaseItem{
		Thumbnail: DefaultArticleThumbnail,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the item's field constraints and enumerations.
func (k *KnowledgeBaseItem) Validate() error {
	if k.Title == "" {
		return ErrArticleTitleRequired
	}
	if len(k.Title) > 100 {
		return ErrArticleTitleLength
	}
	if k.Description == "" {
		return ErrArticleDescriptionRequired
	}
	if len(k.Description) > 1000 {
		return ErrArticleDescriptionLength
	}
	if k.Content == "" {
		return ErrArticleContentRequired
	}
	if k.Duration == "" {
		return ErrArticleDurationRequired
	}
	if err := ValidateArticleCategory(k.Category); err != nil {
		return err
	}
	if err := ValidateArticleType(k.Type); err != nil {
		return err
	}
	return ValidateArticleLevel(k.Level)
}
