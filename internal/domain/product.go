package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCategory is the fixed set of marketplace product categories.
type ProductCategory string

const (
	CategoryFertilizers ProductCategory = "Fertilizers"
	CategoryIrrigation  ProductCategory = "Irrigation"
	CategorySeeds       ProductCategory = "Seeds"
	CategoryTools       ProductCategory = "Tools"
	CategoryOthers      ProductCategory = "Others"
)

// ProductCategories lists every valid product category.
var ProductCategories = []ProductCategory{
	CategoryFertilizers,
	CategoryIrrigation,
	CategorySeeds,
	CategoryTools,
	CategoryOthers,
}

// ValidateProductCategory checks the category against the enumerated set.
func ValidateProductCategory(c ProductCategory) error {
	for _, valid := range ProductCategories {
		if c == valid {
			return nil
		}
	}
	return ErrInvalidProductCategory
}

// DefaultProductImage is used when a product has no uploaded photo.
const DefaultProductImage = "/uploads/example.jpg"

// Product represents a marketplace product.
type Product struct {
	// ID is the unique identifier for the product.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Name is the product name. Constraints: required, at most 100 characters.
	Name string `bson:"name" json:"name"`

	// Price is the unit price. Defaults to 0, never negative.
	Price float64 `bson:"price" json:"price"`

	// Description is the product description. Constraints: required,
	// at most 1000 characters.
	Description string `bson:"description" json:"description"`

	// Image is the photo path, DefaultProductImage until one is uploaded.
	Image string `bson:"image" json:"image"`

	// Category must be one of ProductCategories.
	Category ProductCategory `bson:"category" json:"category"`

	// Rating is the average review rating.
	Rating float64 `bson:"rating" json:"rating"`

	// NumReviews is the number of reviews.
	NumReviews int `bson:"num_reviews" json:"numReviews"`

	// CountInStock is the available stock quantity.
	CountInStock int `bson:"count_in_stock" json:"countInStock"`

	// UserID references the user who created the product.
	// Stamped at creation and never changed afterwards.
	UserID primitive.ObjectID `bson:"user" json:"user"`

	// Owner carries the populated user name/email on read paths.
	// Never persisted.
	Owner *UserRef `bson:"-" json:"owner,omitempty"`

	// CreatedAt is the timestamp when the product was created.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// UpdatedAt is the timestamp when the product was last updated.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// NewProduct creates a Product with default values, owned by userID.
func NewProduct(userID primitive.ObjectID) *Product {
	now := time.Now().UTC()
	return &Product{
		Image:     DefaultProductImage,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the product's field constraints and enumerations.
// Create and update paths consult it uniformly before persisting.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrProductNameRequired
	}
	if len(p.Name) > 100 {
		return ErrProductNameLength
	}
	if p.Description == "" {
		return ErrProductDescriptionRequired
	}
	if len(p.Description) > 1000 {
		return ErrProductDescriptionLength
	}
	if p.Price < 0 {
		return ErrProductPriceNegative
	}
	return ValidateProductCategory(p.Category)
}
