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

// ProductHandler serves the marketplace product endpoints.
type ProductHandler struct {
	products  *service.ProductService
	responder *Responder
	logger    zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *service.ProductService, responder *Responder, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products:  products,
		responder: responder,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// productRequest is the JSON body for create and update. Pointer fields
// distinguish "absent" from "zero" on partial updates.
type productRequest struct {
	Name         *string                 `json:"name"`
	Price        *float64                `json:"price"`
	Description  *string                 `json:"description"`
	Image        *string                 `json:"image"`
	Category     *domain.ProductCategory `json:"category"`
	CountInStock *int                    `json:"countInStock"`
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := query.Parse(r.URL.Query())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.products.List(r.Context(), service.ListProductsInput{Options: opts})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.List(w, out.Products, out.Count, out.Pagination)
}

// Get handles GET /api/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.products.Get(r.Context(), service.GetProductInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	input := service.CreateProductInput{Principal: principal}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Price != nil {
		input.Price = *req.Price
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Image != nil {
		input.Image = *req.Image
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.CountInStock != nil {
		input.CountInStock = *req.CountInStock
	}

	out, err := h.products.Create(r.Context(), input)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusCreated, out.Product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req productRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.products.Update(r.Context(), service.UpdateProductInput{
		Principal:    principal,
		ID:           chi.URLParam(r, "id"),
		Name:         req.Name,
		Price:        req.Price,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	err := h.products.Delete(r.Context(), service.DeleteProductInput{
		Principal: principal,
		ID:        chi.URLParam(r, "id"),
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, struct{}{})
}

// UploadPhoto handles PUT /api/products/{id}/photo. The photo arrives as
// multipart form data under the "file" field.
func (h *ProductHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.responder.Error(w, r, errBadRequestBody)
		return
	}
	defer file.Close()

	out, err := h.products.UploadPhoto(r.Context(), service.UploadPhotoInput{
		Principal:   principal,
		ID:          chi.URLParam(r, "id"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, map[string]string{"image": out.Path})
}
