package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fieldworks/fieldworks-api/internal/domain"
	"github.com/fieldworks/fieldworks-api/internal/repository"
)

// OrderService handles order operations.
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// =============================================================================
// Input/Output Structs
// =============================================================================

// OrderItemInput is a client-supplied line item. ID is the client's
// temporary identifier referencing the product; it is substituted with the
// product's true identifier and never persisted as a line-item id.
type OrderItemInput struct {
	ID    string
	Name  string
	Qty   int
	Image string
	Price float64
}

// CreateOrderInput contains the data needed to create an order.
type CreateOrderInput struct {
	Principal       domain.Principal
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
}

// CreateOrderOutput contains the created order.
type CreateOrderOutput struct {
	Order *domain.Order
}

// GetOrderInput identifies an order to fetch.
type GetOrderInput struct {
	ID string
}

// GetOrderOutput contains the fetched order with its user populated.
type GetOrderOutput struct {
	Order *domain.Order
}

// ListMyOrdersInput identifies the requesting principal.
type ListMyOrdersInput struct {
	Principal domain.Principal
}

// ListOrdersOutput contains a list of orders.
type ListOrdersOutput struct {
	Orders []*domain.Order
	Count  int
}

// PayOrderInput marks an order paid with the provider's confirmation.
type PayOrderInput struct {
	ID            string
	PaymentResult domain.PaymentResult
}

// OrderFlagOutput contains the order after a flag mutation.
type OrderFlagOutput struct {
	Order *domain.Order
}

// DeliverOrderInput marks an order delivered.
type DeliverOrderInput struct {
	ID string
}

// UpdateStockInput identifies the order whose line items adjust stock.
type UpdateStockInput struct {
	ID string
}

// DeleteOrderInput identifies an order to delete.
type DeleteOrderInput struct {
	Principal domain.Principal
	ID        string
}

// =============================================================================
// Service Methods
// =============================================================================

// Create validates and persists a new order on behalf of the principal.
// An empty line-item list is rejected before anything is persisted; each
// line item's client-supplied identifier is replaced by the referenced
// product's true identifier.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrNoOrderItems
	}

	now := time.Now().UTC()
	order := &domain.Order{
		UserID:          input.Principal.ID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, item := range input.Items {
		productID, err := primitive.ObjectIDFromHex(item.ID)
		if err != nil {
			return nil, domain.ErrProductNotFound
		}
		order.OrderItems = append(order.OrderItems, domain.OrderItem{
			Name:      item.Name,
			Qty:       item.Qty,
			Image:     item.Image,
			Price:     item.Price,
			ProductID: productID,
		})
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Insert(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("user", input.Principal.ID.Hex()).
		Int("items", len(order.OrderItems)).
		Msg("order created")

	return &CreateOrderOutput{Order: order}, nil
}

// Get retrieves a single order by ID with its user name/email populated.
func (s *OrderService) Get(ctx context.Context, input GetOrderInput) (*GetOrderOutput, error) {
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	s.populateUsers(ctx, []*domain.Order{order})
	return &GetOrderOutput{Order: order}, nil
}

// ListMine returns the principal's own orders.
func (s *OrderService) ListMine(ctx context.Context, input ListMyOrdersInput) (*ListOrdersOutput, error) {
	orders, err := s.orderRepo.FindByUser(ctx, input.Principal.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list user orders")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return &ListOrdersOutput{Orders: orders, Count: len(orders)}, nil
}

// ListAll returns every order with user names populated.
func (s *OrderService) ListAll(ctx context.Context) (*ListOrdersOutput, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	s.populateUsers(ctx, orders)
	return &ListOrdersOutput{Orders: orders, Count: len(orders)}, nil
}

// Pay marks an order paid, recording the payment timestamp and the
// provider's confirmation. IsPaid is independent of IsDelivered.
func (s *OrderService) Pay(ctx context.Context, input PayOrderInput) (*OrderFlagOutput, error) {
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	order.MarkPaid(time.Now().UTC(), input.PaymentResult)

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", input.ID).Msg("failed to mark order paid")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("order_id", input.ID).Msg("order marked paid")
	return &OrderFlagOutput{Order: order}, nil
}

// Deliver marks an order delivered, recording the delivery timestamp.
func (s *OrderService) Deliver(ctx context.Context, input DeliverOrderInput) (*OrderFlagOutput, error) {
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	order.MarkDelivered(time.Now().UTC())

	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", input.ID).Msg("failed to mark order delivered")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("order_id", input.ID).Msg("order marked delivered")
	return &OrderFlagOutput{Order: order}, nil
}

// UpdateStock decrements each referenced product's stock by the ordered
// quantity, persisting each product individually. A product deleted since
// the order was placed is skipped without aborting the remaining items.
// There is no transactional envelope across line items.
func (s *OrderService) UpdateStock(ctx context.Context, input UpdateStockInput) error {
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return err
	}

	for _, item := range order.OrderItems {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				s.logger.Warn().
					Str("order_id", input.ID).
					Str("product_id", item.ProductID.Hex()).
					Msg("product missing during stock update, skipping")
				continue
			}
			s.logger.Error().Err(err).Str("order_id", input.ID).Msg("failed to load product for stock update")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}

		product.CountInStock -= item.Qty
		product.UpdatedAt = time.Now().UTC()
		if err := s.productRepo.Update(ctx, product); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", input.ID).
				Str("product_id", item.ProductID.Hex()).
				Msg("failed to persist stock decrement")
			return fmt.Errorf("%w: %v", ErrInternalError, err)
		}
	}

	s.logger.Info().Str("order_id", input.ID).Msg("order stock updated")
	return nil
}

// Delete removes an order after existence and ownership checks.
func (s *OrderService) Delete(ctx context.Context, input DeleteOrderInput) error {
	order, err := s.findOrder(ctx, input.ID)
	if err != nil {
		return err
	}

	if !input.Principal.CanMutate(order.UserID) {
		return domain.ErrNotOwner
	}

	if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return domain.ErrOrderNotFound
		}
		s.logger.Error().Err(err).Str("order_id", input.ID).Msg("failed to delete order")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("order_id", input.ID).Msg("order deleted")
	return nil
}

// findOrder resolves a string ID and fetches the order. A malformed ID is
// reported as not found.
func (s *OrderService) findOrder(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return order, nil
}

// populateUsers attaches the reduced user shape to each order.
// Population failures are logged and skipped.
func (s *OrderService) populateUsers(ctx context.Context, orders []*domain.Order) {
	cache := make(map[primitive.ObjectID]*domain.UserRef)
	for _, o := range orders {
		if o.UserID.IsZero() {
			continue
		}
		if ref, ok := cache[o.UserID]; ok {
			o.OrderedBy = ref
			continue
		}
		user, err := s.userRepo.FindByID(ctx, o.UserID)
		if err != nil {
			s.logger.Debug().Err(err).Str("user_id", o.UserID.Hex()).Msg("user lookup failed")
			cache[o.UserID] = nil
			continue
		}
		ref := &domain.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
		cache[o.UserID] = ref
		o.OrderedBy = ref
	}
}
