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

// OrderHandler serves the order endpoints.
type OrderHandler struct {
	orders    *service.OrderService
	responder *Responder
	logger    zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService, responder *Responder, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		responder: responder,
		logger:    logger.With().Str("handler", "order").Logger(),
	}
}

// orderItemRequest is a client line item. The id field carries the
// client's temporary reference to the product.
type orderItemRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Image string  `json:"image"`
	Price float64 `json:"price"`
}

// createOrderRequest is the JSON body for order creation.
type createOrderRequest struct {
	OrderItems      []orderItemRequest     `json:"orderItems"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	TaxPrice        float64                `json:"taxPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

// payOrderRequest is the payment provider confirmation payload.
type payOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		items = append(items, service.OrderItemInput{
			ID:    item.ID,
			Name:  item.Name,
			Qty:   item.Qty,
			Image: item.Image,
			Price: item.Price,
		})
	}

	out, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		Principal:       principal,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusCreated, out.Order)
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.orders.Get(r.Context(), service.GetOrderInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Order)
}

// ListMine handles GET /api/orders/myorders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	out, err := h.orders.ListMine(r.Context(), service.ListMyOrdersInput{Principal: principal})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.List(w, out.Orders, out.Count, query.Pagination{})
}

// ListAll handles GET /api/orders.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.orders.ListAll(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.List(w, out.Orders, out.Count, query.Pagination{})
}

// Pay handles PUT /api/orders/{id}/pay.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payOrderRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	out, err := h.orders.Pay(r.Context(), service.PayOrderInput{
		ID: chi.URLParam(r, "id"),
		PaymentResult: domain.PaymentResult{
			ID:           req.ID,
			Status:       req.Status,
			UpdateTime:   req.UpdateTime,
			EmailAddress: req.EmailAddress,
		},
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Order)
}

// Deliver handles PUT /api/orders/{id}/deliver.
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	out, err := h.orders.Deliver(r.Context(), service.DeliverOrderInput{ID: chi.URLParam(r, "id")})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, out.Order)
}

// UpdateStock handles PUT /api/orders/{id}/updatestock.
func (h *OrderHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.UpdateStock(r.Context(), service.UpdateStockInput{ID: chi.URLParam(r, "id")}); err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		h.responder.Error(w, r, auth.ErrMissingToken)
		return
	}

	err := h.orders.Delete(r.Context(), service.DeleteOrderInput{
		Principal: principal,
		ID:        chi.URLParam(r, "id"),
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	h.responder.Data(w, http.StatusOK, struct{}{})
}
