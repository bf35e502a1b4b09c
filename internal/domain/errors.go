// Package domain contains the core business entities for the Fieldworks API.
package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user with the same email already exists.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRole indicates the role is outside the allowed set.
	ErrInvalidRole = errors.New("role must be one of: user, publisher, admin")

	// ===========================================
	// Product Errors
	// ===========================================

	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductNameRequired indicates the product name is missing.
	ErrProductNameRequired = errors.New("please provide product name")

	// ErrProductNameLength indicates the product name exceeds 100 characters.
	ErrProductNameLength = errors.New("name cannot be more than 100 characters")

	// ErrProductDescriptionRequired indicates the description is missing.
	ErrProductDescriptionRequired = errors.New("please provide product description")

	// ErrProductDescriptionLength indicates the description exceeds 1000 characters.
	ErrProductDescriptionLength = errors.New("description cannot be more than 1000 characters")

	// ErrProductPriceNegative indicates a negative price.
	ErrProductPriceNegative = errors.New("price cannot be negative")

	// ErrInvalidProductCategory indicates a category outside the enumerated set.
	ErrInvalidProductCategory = errors.New("category is not supported")

	// ===========================================
	// Knowledge Base Errors
	// ===========================================

	// ErrArticleNotFound indicates the requested knowledge base item does not exist.
	ErrArticleNotFound = errors.New("resource not found")

	// ErrArticleTitleRequired indicates the title is missing.
	ErrArticleTitleRequired = errors.New("please provide a title")

	// ErrArticleTitleLength indicates the title exceeds 100 characters.
	ErrArticleTitleLength = errors.New("title cannot be more than 100 characters")

	// ErrArticleDescriptionRequired indicates the description is missing.
	ErrArticleDescriptionRequired = errors.New("please provide a description")

	// ErrArticleDescriptionLength indicates the description exceeds 1000 characters.
	ErrArticleDescriptionLength = errors.New("description cannot be more than 1000 characters")

	// ErrArticleContentRequired indicates the content is missing.
	ErrArticleContentRequired = errors.New("please provide the content")

	// ErrArticleDurationRequired indicates the estimated duration is missing.
	ErrArticleDurationRequired = errors.New("please provide estimated duration")

	// ErrInvalidArticleCategory indicates a category outside the enumerated set.
	ErrInvalidArticleCategory = errors.New("category is not a supported category")

	// ErrInvalidArticleType indicates a content type outside the enumerated set.
	ErrInvalidArticleType = errors.New("type is not a supported content type")

	// ErrInvalidArticleLevel indicates a difficulty level outside the enumerated set.
	ErrInvalidArticleLevel = errors.New("level is not a supported difficulty level")

	// ErrSearchTermRequired indicates the search endpoint was called without a term.
	ErrSearchTermRequired = errors.New("please provide a search term")

	// ===========================================
	// Order Errors
	// ===========================================

	// ErrOrderNotFound indicates the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrNoOrderItems indicates order creation with an empty line-item list.
	ErrNoOrderItems = errors.New("no order items")

	// ===========================================
	// Authorization Errors
	// ===========================================

	// ErrNotOwner indicates the principal is neither the owner nor an admin.
	ErrNotOwner = errors.New("not authorized to modify this resource")

	// ===========================================
	// Upload Errors
	// ===========================================

	// ErrFileTooLarge indicates the uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("uploaded file is too large")

	// ErrNotAnImage indicates the uploaded file is not an image.
	ErrNotAnImage = errors.New("please upload an image file")

	// ===========================================
	// Weather Errors
	// ===========================================

	// ErrWeatherUnavailable indicates the upstream weather provider failed.
	ErrWeatherUnavailable = errors.New("failed to fetch weather data")
)

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., a document ID).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
