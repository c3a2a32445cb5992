package models

import (
	"time"

	"gorm.io/gorm"
)

// Order types
const (
	OrderTypeSimple = "simple" // cart checkout of catalog items
	OrderTypeCustom = "custom" // bespoke cake request priced by staff
)

// Order statuses
const (
	StatusNotConfirmed   = "not confirmed"
	StatusPaymentPending = "payment pending"
	StatusConfirmed      = "confirmed"
	StatusPreparing      = "preparing"
	StatusOutForDelivery = "out for delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment methods
const (
	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"
)

// MinChargeableAmount is the smallest amount the payment gateway accepts.
// A fully discounted order still charges this instead of failing checkout.
const MinChargeableAmount = 1.0

// statusTransitions is the authoritative transition table. It is the single
// source of truth for status legality; handlers must not carry their own copy.
var statusTransitions = map[string][]string{
	StatusNotConfirmed:   {StatusPaymentPending, StatusCancelled},
	StatusPaymentPending: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// IsValidTransition reports whether an order may move from current to next.
func IsValidTransition(current, next string) bool {
	for _, allowed := range statusTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next statuses for the given status.
func AllowedTransitions(current string) []string {
	allowed := statusTransitions[current]
	out := make([]string, len(allowed))
	copy(out, allowed)
	return out
}

// OrderError represents an order state error with a stable code
type OrderError struct {
	Code    string
	Message string
}

func (e *OrderError) Error() string {
	return e.Message
}

// Order represents a bakery order, either a cart checkout of catalog items
// (simple) or a bespoke cake request (custom)
type Order struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"not null;index" json:"type"` // simple or custom

	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `gorm:"not null" json:"customer_email"`
	CustomerPhone string `gorm:"not null;index" json:"customer_phone"` // durable lookup key for "my orders"

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // simple orders only, snapshot at creation

	// Custom order fields
	Occasion     string     `json:"occasion,omitempty"`
	CakeSize     string     `json:"cake_size,omitempty"`
	Flavor       string     `json:"flavor,omitempty"`
	Description  string     `gorm:"type:text" json:"description,omitempty"`
	ImageKey     *string    `json:"image_key,omitempty"`                 // S3 key of the reference image
	ImageURL     *string    `gorm:"-" json:"image_url,omitempty"`        // computed, presigned URL
	RequiredDate *time.Time `json:"required_date,omitempty"`

	Total *float64 `json:"total"` // pre-discount subtotal, nil for custom orders until priced
	Price *float64 `json:"price"` // amount to charge, nil for custom orders until staff set it

	DiscountAmount      float64  `json:"discount_amount"`
	CouponCode          *string  `json:"coupon_code,omitempty"` // applied coupon snapshot
	CouponDiscountType  *string  `json:"coupon_discount_type,omitempty"`
	CouponDiscountValue *float64 `json:"coupon_discount_value,omitempty"`
	FinalAmount         float64  `json:"final_amount"` // amount actually charged, never negative

	Status        string `gorm:"not null;default:'not confirmed';index" json:"status"`
	PaymentStatus string `gorm:"not null;default:'pending'" json:"payment_status"`

	PaymentID        *string  `json:"payment_id,omitempty"` // immutable once payment status is paid
	PaymentAmount    *float64 `json:"payment_amount,omitempty"`
	PaymentMethod    *string  `json:"payment_method,omitempty"`
	PaymentSignature *string  `json:"payment_signature,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Notes   string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeliveryDate *time.Time     `json:"delivery_date,omitempty"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable snapshot of a catalog product at purchase time.
// Later product edits or deletes never alter historical orders.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"-"`
	Name     string  `gorm:"not null" json:"name"`
	Quantity int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price    float64 `gorm:"not null" json:"price"` // unit price at purchase time
	ImageKey *string `json:"image_key,omitempty"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// CustomerDetails carries the customer identity captured at checkout
type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// ShippingDetails carries the delivery address captured before payment
type ShippingDetails struct {
	Address string
	City    string
	State   string
	Pincode string
}

// NewSimpleOrder builds a catalog order. Simple orders require items and a
// known total at creation and are born at payment pending (or confirmed when
// payment is already known good, which the caller signals via paid).
func NewSimpleOrder(customer CustomerDetails, items []OrderItem, total, discountAmount float64, paid bool) (*Order, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &OrderError{Code: "VALIDATION_ERROR", Message: "A simple order requires at least one item"}
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, &OrderError{Code: "VALIDATION_ERROR", Message: "Item quantity must be at least 1"}
		}
		if item.Price < 0 {
			return nil, &OrderError{Code: "VALIDATION_ERROR", Message: "Item price must not be negative"}
		}
	}
	if total < 0 || discountAmount < 0 {
		return nil, &OrderError{Code: "VALIDATION_ERROR", Message: "Amounts must not be negative"}
	}

	final := ChargeableAmount(total, discountAmount)
	status := StatusPaymentPending
	paymentStatus := PaymentStatusPending
	if paid {
		status = StatusConfirmed
		paymentStatus = PaymentStatusPaid
	}

	t := total
	p := final
	return &Order{
		Type:           OrderTypeSimple,
		CustomerName:   customer.Name,
		CustomerEmail:  customer.Email,
		CustomerPhone:  customer.Phone,
		Items:          items,
		Total:          &t,
		Price:          &p,
		DiscountAmount: discountAmount,
		FinalAmount:    final,
		Status:         status,
		PaymentStatus:  paymentStatus,
	}, nil
}

// NewCustomOrder builds a bespoke cake order. Custom orders are created
// unpriced and cannot leave "not confirmed" until staff set a price.
func NewCustomOrder(customer CustomerDetails, occasion, cakeSize, flavor, description string, requiredDate *time.Time) (*Order, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if occasion == "" || cakeSize == "" || flavor == "" {
		return nil, &OrderError{Code: "VALIDATION_ERROR", Message: "Occasion, cake size and flavor are required for custom orders"}
	}

	return &Order{
		Type:          OrderTypeCustom,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Occasion:      occasion,
		CakeSize:      cakeSize,
		Flavor:        flavor,
		Description:   description,
		RequiredDate:  requiredDate,
		Status:        StatusNotConfirmed,
		PaymentStatus: PaymentStatusPending,
	}, nil
}

func validateCustomer(customer CustomerDetails) error {
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return &OrderError{Code: "VALIDATION_ERROR", Message: "Customer name, email and phone are required"}
	}
	return nil
}

// ChargeableAmount computes the amount to charge for a given gross amount and
// discount. The floor exists because the gateway rejects zero and negative
// charges.
func ChargeableAmount(amount, discount float64) float64 {
	final := amount - discount
	if final < MinChargeableAmount {
		return MinChargeableAmount
	}
	return final
}

// Transition moves the order to next, enforcing the transition table.
// The order is left unchanged on an illegal edge.
func (o *Order) Transition(next string) error {
	if !IsValidTransition(o.Status, next) {
		return &OrderError{
			Code:    "INVALID_TRANSITION",
			Message: "Invalid status transition from " + o.Status + " to " + next,
		}
	}
	o.Status = next
	return nil
}

// CanConfirmPayment reports whether the order may move to confirmed on a
// successful payment. Simple orders may always confirm on payment regardless
// of the transition table: they legitimately jump from payment pending to
// confirmed with no intermediate state. Custom orders must pass the table.
func (o *Order) CanConfirmPayment() bool {
	if o.Type == OrderTypeSimple {
		return true
	}
	return IsValidTransition(o.Status, StatusConfirmed)
}

// ApplyPrice sets the staff price. Setting a custom order's price for the
// first time while it is not confirmed advances it to payment pending as part
// of the same change. The final amount is recomputed against any applied
// discount.
func (o *Order) ApplyPrice(price float64) error {
	if price < 0 {
		return &OrderError{Code: "VALIDATION_ERROR", Message: "Price must not be negative"}
	}
	if o.Status != StatusNotConfirmed && o.Status != StatusPaymentPending {
		return &OrderError{Code: "INVALID_TRANSITION", Message: "Price can only be set before the order is confirmed"}
	}

	firstPrice := o.Price == nil
	p := price
	o.Price = &p
	o.FinalAmount = ChargeableAmount(price, o.DiscountAmount)

	if firstPrice && o.Status == StatusNotConfirmed {
		o.Status = StatusPaymentPending
	}
	return nil
}

// AmountToPay returns the amount the gateway should charge for this order.
// An unpriced custom order fails with PRICE_NOT_SET: payment must never be
// attempted against an unset amount.
func (o *Order) AmountToPay() (float64, error) {
	if o.Type == OrderTypeCustom && o.Price == nil {
		return 0, &OrderError{Code: "PRICE_NOT_SET", Message: "Order price has not been set yet"}
	}
	if o.FinalAmount > 0 {
		return ChargeableAmount(o.FinalAmount, 0), nil
	}
	if o.Price != nil {
		return ChargeableAmount(*o.Price, o.DiscountAmount), nil
	}
	if o.Total != nil {
		return ChargeableAmount(*o.Total, o.DiscountAmount), nil
	}
	return 0, &OrderError{Code: "PRICE_NOT_SET", Message: "Order has no chargeable amount"}
}
