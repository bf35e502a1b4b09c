package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a single line item referencing a product and a quantity.
type OrderItem struct {
	// Name is the product name captured at order time.
	Name string `bson:"name" json:"name"`

	// Qty is the ordered quantity.
	Qty int `bson:"qty" json:"qty"`

	// Image is the product image captured at order time.
	Image string `bson:"image" json:"image"`

	// Price is the unit price captured at order time.
	Price float64 `bson:"price" json:"price"`

	// ProductID references the ordered product.
	ProductID primitive.ObjectID `bson:"product" json:"product"`
}

// ShippingAddress is the order's delivery destination.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult holds the payment provider's confirmation details.
type PaymentResult struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"`
	UpdateTime   string `bson:"update_time,omitempty" json:"update_time,omitempty"`
	EmailAddress string `bson:"email_address,omitempty" json:"email_address,omitempty"`
}

// Order represents a customer order.
//
// IsPaid and IsDelivered are independent completion flags, not a single
// state machine: an order can be delivered before it is paid, or never
// reach either state.
type Order struct {
	// ID is the unique identifier for the order.
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// OrderItems is the ordered list of line items. Never empty.
	OrderItems []OrderItem `bson:"order_items" json:"orderItems"`

	// UserID references the user who placed the order.
	// Stamped at creation and never changed afterwards.
	UserID primitive.ObjectID `bson:"user" json:"user"`

	// OrderedBy carries the populated user name/email on read paths.
	// Never persisted.
	OrderedBy *UserRef `bson:"-" json:"orderedBy,omitempty"`

	// ShippingAddress is the delivery destination.
	ShippingAddress ShippingAddress `bson:"shipping_address" json:"shippingAddress"`

	// PaymentMethod names the payment method (e.g. "M-Pesa", "PayPal").
	PaymentMethod string `bson:"payment_method" json:"paymentMethod"`

	// PaymentResult holds provider confirmation details once paid.
	PaymentResult PaymentResult `bson:"payment_result,omitempty" json:"paymentResult,omitempty"`

	// Computed price fields, supplied by the client at creation.
	ItemsPrice    float64 `bson:"items_price" json:"itemsPrice"`
	TaxPrice      float64 `bson:"tax_price" json:"taxPrice"`
	ShippingPrice float64 `bson:"shipping_price" json:"shippingPrice"`
	TotalPrice    float64 `bson:"total_price" json:"totalPrice"`

	// IsPaid marks the order paid; PaidAt is set alongside it.
	IsPaid bool       `bson:"is_paid" json:"isPaid"`
	PaidAt *time.Time `bson:"paid_at,omitempty" json:"paidAt,omitempty"`

	// IsDelivered marks the order delivered; DeliveredAt is set alongside it.
	IsDelivered bool       `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt *time.Time `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`

	// CreatedAt is the timestamp when the order was created.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// UpdatedAt is the timestamp when the order was last updated.
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRef is the reduced user shape populated onto resource reads.
type UserRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// Validate checks the order's invariants.
func (o *Order) Validate() error {
	if len(o.OrderItems) == 0 {
		return ErrNoOrderItems
	}
	return nil
}

// MarkPaid sets the paid flag, its timestamp and the payment result.
func (o *Order) MarkPaid(at time.Time, result PaymentResult) {
	o.IsPaid = true
	o.PaidAt = &at
	o.PaymentResult = result
	o.UpdatedAt = at
}

// MarkDelivered sets the delivered flag and its timestamp.
func (o *Order) MarkDelivered(at time.Time) {
	o.IsDelivered = true
	o.DeliveredAt = &at
	o.UpdatedAt = at
}
