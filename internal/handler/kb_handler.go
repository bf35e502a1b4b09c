package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fieldworks/fieldworks-api/internal/auth"
	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/query"
	"github.com/fieldworks/fieldworks-api/internal/service"
)

// KnowledgeBaseHandler serves the knowledge base endpoints.
type KnowledgeBaseHandler struct {
	articles  *service.KnowledgeBaseService
	responder *Responder
	logger    zerolog.Logger
}

// NewKnowledgeBaseHandler creates a new KnowledgeBaseHandler.
func NewKnowledgeBaseHandler(articles *service.KnowledgeBaseService, responder *Responder, logger zerolog.Logger) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{
		articles:  articles,
		responder: responder,
		logger:    logger.With().Str("handler", "knowledge_base").Logger(),
	}
}

// articleRequest is the JSON body for create and update.
type articleRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Content     *string                 `json:"content"`
	Category    *domain.ArticleCategory `json:"category"`
	Type        *domain.ArticleType     `json:"type"`
	Level       *domain.ArticleLevel    `json:"level"`
	Duration    *string                 `json:"duration"`
	IsOffline   *bool                   `json:"isOfflineAvailable"`
	Thumbnail   *string                 `json:"thumbnail"`
	Tags        []string                `json:"tags"`
}

// List handles GET /api/knowledge-base.
func (h *KnowledgeBaseHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := query.Parse(r.URL.Query())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.articles.List(r.Context(), service.ListArticlesInput{Options: opts})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.List(w, out.Items, out.Count, out.Pagination)
}

// Get handles GET /api/knowledge-base/{id}.
func (h *KnowledgeBaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.Get(r.Context(), service.GetArticleInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Item)
}

// Search handles GET /api/knowledge-base/search?q=term. Results come back
// ordered by text relevance.
func (h *KnowledgeBaseHandler) Search(w http.ResponseWriter, r *http.Request) {
	out, err := h.articles.Search(r.Context(), service.SearchArticlesInput{
		Term: r.URL.Query().Get("q"),
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.List(w, out.Items, out.Count, query.Pagination{})
}

// Create handles POST /api/knowledge-base.
func (h *KnowledgeBaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req articleRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	input := service.CreateArticleInput{Principal: principal, Tags: req.Tags}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Content != nil {
		input.Content = *req.Content
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.Type != nil {
		input.Type = *req.Type
	}
	if req.Level != nil {
		input.Level = *req.Level
	}
	if req.Duration != nil {
		input.Duration = *req.Duration
	}
	if req.IsOffline != nil {
		input.IsOffline = *req.IsOffline
	}
	if req.Thumbnail != nil {
		input.Thumbnail = *req.Thumbnail
	}

	out, err := h.articles.Create(r.Context(), input)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusCreated, out.Item)
}

// Update handles PUT /api/knowledge-base/{id}.
func (h *KnowledgeBaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req articleRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.articles.Update(r.Context(), service.UpdateArticleInput{
		Principal:   principal,
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Type:        req.Type,
		Level:       req.Level,
		Duration:    req.Duration,
		IsOffline:   req.IsOffline,
		Thumbnail:   req.Thumbnail,
		Tags:        req.Tags,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Item)
}

// Delete handles DELETE /api/knowledge-base/{id}.
func (h *KnowledgeBaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	err := h.articles.Delete(r.Context(), service.DeleteArticleInput{
		Principal: principal,
		ID:        chi.URLParam(r, "id"),
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, struct{}{})
}
