// Package handler provides HTTP handlers for the Fieldworks API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/service"
)

// Envelope is the common wrapper around successful JSON responses:
// { success, count?, pagination?, data }. Every resource family uses it,
// orders included.
type Envelope struct {
	Success    bool              `json:"success"`
	Count      *int              `json:"count,omitempty"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       interface{}       `json:"data"`
}

// ErrorEnvelope is the common wrapper around error responses. Stack is
// populated only outside production.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Responder shapes and writes JSON responses. All handler failures are
// forwarded here; it logs the error and produces the error envelope.
type Responder struct {
	logger       zerolog.Logger
	includeStack bool
}

// NewResponder creates a Responder. includeStack controls whether error
// responses carry a stack trace (never in production).
func NewResponder(logger zerolog.Logger, includeStack bool) *Responder {
	return &Responder{
		logger:       logger.With().Str("component", "responder").Logger(),
		includeStack: includeStack,
	}
}

// Data writes a success envelope around a single document.
func (rs *Responder) Data(w http.ResponseWriter, status int, data interface{}) {
	rs.write(w, status, Envelope{Success: true, Data: data})
}

// List writes a success envelope around a collection, with its count and
// optional pagination descriptors.
func (rs *Responder) List(w http.ResponseWriter, data interface{}, count int, pagination query.Pagination) {
	env := Envelope{Success: true, Count: &count, Data: data}
	if !pagination.IsZero() {
		env.Pagination = &pagination
	}
	rs.write(w, http.StatusOK, env)
}

// Error logs the failure and writes the error envelope with the status
// derived from the error's kind, defaulting to 500.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		rs.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		if !rs.includeStack {
			// Do not leak internals in production.
			if errors.Is(err, domain.ErrWeatherUnavailable) {
				message = domain.ErrWeatherUnavailable.Error()
			} else {
				message = service.ErrInternalError.Error()
			}
		}
	} else {
		rs.logger.Warn().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request rejected")
	}

	env := ErrorEnvelope{Success: false, Message: message}
	if rs.includeStack {
		env.Stack = string(debug.Stack())
	}
	rs.write(w, status, env)
}

// write serializes the payload; serialization failures are logged, the
// status line has already been committed by then.
func (rs *Responder) write(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.logger.Error().Err(err).Msg("failed to encode response")
	}
}

// statusFor maps errors to HTTP statuses: validation 400, not found 404,
// unauthorized 401, forbidden 403, everything else 500.
func statusFor(err error) int {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest
	case isNotFoundError(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbiddenRole):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// validationErrors are surfaced as 400 with their field-level message.
var validationErrors = []error{
	query.ErrBadFilter,
	domain.ErrProductNameRequired,
	domain.ErrProductNameLength,
	domain.ErrProductDescriptionRequired,
	domain.ErrProductDescriptionLength,
	domain.ErrProductPriceNegative,
	domain.ErrInvalidProductCategory,
	domain.ErrArticleTitleRequired,
	domain.ErrArticleTitleLength,
	domain.ErrArticleDescriptionRequired,
	domain.ErrArticleDescriptionLength,
	domain.ErrArticleContentRequired,
	domain.ErrArticleDurationRequired,
	domain.ErrInvalidArticleCategory,
	domain.ErrInvalidArticleType,
	domain.ErrInvalidArticleLevel,
	domain.ErrSearchTermRequired,
	domain.ErrNoOrderItems,
	domain.ErrEmailTaken,
	domain.ErrInvalidRole,
	domain.ErrNotAnImage,
	domain.ErrFileTooLarge,
	service.ErrInvalidID,
	service.ErrPasswordTooShort,
	service.ErrNameRequired,
	service.ErrEmailRequired,
	errBadRequestBody,
}

// notFoundErrors are surfaced as 404.
var notFoundErrors = []error{
	domain.ErrProductNotFound,
	domain.ErrOrderNotFound,
	domain.ErrArticleNotFound,
	domain.ErrUserNotFound,
}

func isValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	for _, v := range notFoundErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// errBadRequestBody indicates an unparsable JSON request body.
var errBadRequestBody = errors.New("invalid request body")

// decodeBody parses a JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequestBody
	}
	return nil
}
