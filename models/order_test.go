package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testCustomer = CustomerDetails{
	Name:  "Anita Rao",
	Email: "anita@example.com",
	Phone: "9876543210",
}

func TestIsValidTransition(t *testing.T) {
	allStatuses := []string{
		StatusNotConfirmed,
		StatusPaymentPending,
		StatusConfirmed,
		StatusPreparing,
		StatusOutForDelivery,
		StatusDelivered,
		StatusCancelled,
	}

	// The allowed edges, exhaustively. Everything not listed must be rejected.
	allowed := map[string]map[string]bool{
		StatusNotConfirmed:   {StatusPaymentPending: true, StatusCancelled: true},
		StatusPaymentPending: {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed:      {StatusPreparing: true, StatusCancelled: true},
		StatusPreparing:      {StatusOutForDelivery: true, StatusCancelled: true},
		StatusOutForDelivery: {StatusDelivered: true, StatusCancelled: true},
		StatusDelivered:      {},
		StatusCancelled:      {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			expected := allowed[from][to]
			assert.Equal(t, expected, IsValidTransition(from, to),
				"transition %q -> %q", from, to)
		}
	}
}

func TestIsValidTransitionUnknownStatus(t *testing.T) {
	assert.False(t, IsValidTransition("bogus", StatusConfirmed))
	assert.False(t, IsValidTransition(StatusConfirmed, "bogus"))
	assert.False(t, IsValidTransition("", ""))
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t, []string{StatusConfirmed, StatusCancelled}, AllowedTransitions(StatusPaymentPending))
	assert.Empty(t, AllowedTransitions(StatusDelivered))
	assert.Empty(t, AllowedTransitions(StatusCancelled))
	assert.Empty(t, AllowedTransitions("bogus"))
}

func TestTransition(t *testing.T) {
	order := &Order{Status: StatusConfirmed}

	err := order.Transition(StatusPreparing)
	assert.NoError(t, err)
	assert.Equal(t, StatusPreparing, order.Status)

	// Illegal edge leaves the order untouched
	err = order.Transition(StatusConfirmed)
	assert.Error(t, err)
	var orderErr *OrderError
	assert.ErrorAs(t, err, &orderErr)
	assert.Equal(t, "INVALID_TRANSITION", orderErr.Code)
	assert.Equal(t, StatusPreparing, order.Status)
}

func TestTransitionCancelFromAnyActiveStatus(t *testing.T) {
	for _, from := range []string{
		StatusNotConfirmed,
		StatusPaymentPending,
		StatusConfirmed,
		StatusPreparing,
		StatusOutForDelivery,
	} {
		order := &Order{Status: from}
		assert.NoError(t, order.Transition(StatusCancelled), "cancel from %q", from)
		assert.Equal(t, StatusCancelled, order.Status)
	}

	for _, terminal := range []string{StatusDelivered, StatusCancelled} {
		order := &Order{Status: terminal}
		assert.Error(t, order.Transition(StatusCancelled), "cancel from %q", terminal)
	}
}

func TestNewSimpleOrder(t *testing.T) {
	items := []OrderItem{
		{Name: "Chocolate Truffle", Quantity: 1, Price: 500},
		{Name: "Red Velvet Cupcake", Quantity: 2, Price: 300},
	}

	order, err := NewSimpleOrder(testCustomer, items, 1100, 110, false)
	assert.NoError(t, err)
	assert.Equal(t, OrderTypeSimple, order.Type)
	assert.Equal(t, StatusPaymentPending, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, 1100.0, *order.Total)
	assert.Equal(t, 110.0, order.DiscountAmount)
	assert.Equal(t, 990.0, order.FinalAmount)
	assert.Equal(t, "9876543210", order.CustomerPhone)
	assert.Len(t, order.Items, 2)
}

func TestNewSimpleOrderPaid(t *testing.T) {
	items := []OrderItem{{Name: "Chocolate Truffle", Quantity: 1, Price: 500}}

	order, err := NewSimpleOrder(testCustomer, items, 500, 0, true)
	assert.NoError(t, err)
	assert.Equal(t, StatusConfirmed, order.Status)
	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)
}

func TestNewSimpleOrderValidation(t *testing.T) {
	items := []OrderItem{{Name: "Chocolate Truffle", Quantity: 1, Price: 500}}

	tests := []struct {
		name     string
		customer CustomerDetails
		items    []OrderItem
		total    float64
		discount float64
	}{
		{"missing customer name", CustomerDetails{Email: "a@b.com", Phone: "1"}, items, 500, 0},
		{"missing customer email", CustomerDetails{Name: "A", Phone: "1"}, items, 500, 0},
		{"missing customer phone", CustomerDetails{Name: "A", Email: "a@b.com"}, items, 500, 0},
		{"no items", testCustomer, nil, 500, 0},
		{"zero quantity", testCustomer, []OrderItem{{Name: "X", Quantity: 0, Price: 10}}, 500, 0},
		{"negative price", testCustomer, []OrderItem{{Name: "X", Quantity: 1, Price: -10}}, 500, 0},
		{"negative total", testCustomer, items, -1, 0},
		{"negative discount", testCustomer, items, 500, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimpleOrder(tt.customer, tt.items, tt.total, tt.discount, false)
			assert.Error(t, err)
			var orderErr *OrderError
			assert.ErrorAs(t, err, &orderErr)
			assert.Equal(t, "VALIDATION_ERROR", orderErr.Code)
		})
	}
}

func TestNewCustomOrder(t *testing.T) {
	required := time.Now().AddDate(0, 0, 7)
	order, err := NewCustomOrder(testCustomer, "Birthday", "1kg", "Chocolate", "Photo cake with blue frosting", &required)
	assert.NoError(t, err)
	assert.Equal(t, OrderTypeCustom, order.Type)
	assert.Equal(t, StatusNotConfirmed, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.Nil(t, order.Price)
	assert.Nil(t, order.Total)
}

func TestNewCustomOrderValidation(t *testing.T) {
	_, err := NewCustomOrder(testCustomer, "", "1kg", "Chocolate", "", nil)
	assert.Error(t, err)
	_, err = NewCustomOrder(testCustomer, "Birthday", "", "Chocolate", "", nil)
	assert.Error(t, err)
	_, err = NewCustomOrder(testCustomer, "Birthday", "1kg", "", "", nil)
	assert.Error(t, err)
}

func TestChargeableAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		discount float64
		expected float64
	}{
		{"no discount", 1100, 0, 1100},
		{"partial discount", 1100, 110, 990},
		{"discount equals amount", 500, 500, MinChargeableAmount},
		{"discount exceeds amount", 500, 2000, MinChargeableAmount},
		{"just above the floor", 500, 498.5, 1.5},
		{"exactly the floor", 500, 499, MinChargeableAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChargeableAmount(tt.amount, tt.discount))
		})
	}
}

func TestApplyPriceAutoAdvance(t *testing.T) {
	order, err := NewCustomOrder(testCustomer, "Birthday", "1kg", "Chocolate", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, StatusNotConfirmed, order.Status)

	// First price on an unconfirmed custom order advances it to payment pending
	err = order.ApplyPrice(1500)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, *order.Price)
	assert.Equal(t, 1500.0, order.FinalAmount)
	assert.Equal(t, StatusPaymentPending, order.Status)

	// A revised price does not move the status again
	err = order.ApplyPrice(1800)
	assert.NoError(t, err)
	assert.Equal(t, 1800.0, *order.Price)
	assert.Equal(t, StatusPaymentPending, order.Status)
}

func TestApplyPriceRecomputesAgainstDiscount(t *testing.T) {
	order, err := NewCustomOrder(testCustomer, "Birthday", "1kg", "Chocolate", "", nil)
	assert.NoError(t, err)
	order.DiscountAmount = 200

	assert.NoError(t, order.ApplyPrice(1500))
	assert.Equal(t, 1300.0, order.FinalAmount)
}

func TestApplyPriceRejections(t *testing.T) {
	order, err := NewCustomOrder(testCustomer, "Birthday", "1kg", "Chocolate", "", nil)
	assert.NoError(t, err)

	assert.Error(t, order.ApplyPrice(-1))

	order.Status = StatusConfirmed
	err = order.ApplyPrice(1500)
	assert.Error(t, err)
	var orderErr *OrderError
	assert.ErrorAs(t, err, &orderErr)
	assert.Equal(t, "INVALID_TRANSITION", orderErr.Code)
}

func TestCanConfirmPayment(t *testing.T) {
	// Simple orders may always confirm on payment, whatever their status
	simple := &Order{Type: OrderTypeSimple, Status: StatusNotConfirmed}
	assert.True(t, simple.CanConfirmPayment())
	simple.Status = StatusPaymentPending
	assert.True(t, simple.CanConfirmPayment())

	// Custom orders must pass the transition table
	custom := &Order{Type: OrderTypeCustom, Status: StatusNotConfirmed}
	assert.False(t, custom.CanConfirmPayment())
	custom.Status = StatusPaymentPending
	assert.True(t, custom.CanConfirmPayment())
	custom.Status = StatusDelivered
	assert.False(t, custom.CanConfirmPayment())
}

func TestAmountToPay(t *testing.T) {
	// Unpriced custom order must never be chargeable
	custom, err := NewCustomOrder(testCustomer, "Birthday", "1kg", "Chocolate", "", nil)
	assert.NoError(t, err)
	_, err = custom.AmountToPay()
	assert.Error(t, err)
	var orderErr *OrderError
	assert.ErrorAs(t, err, &orderErr)
	assert.Equal(t, "PRICE_NOT_SET", orderErr.Code)

	// Once priced it charges the final amount
	assert.NoError(t, custom.ApplyPrice(1500))
	amount, err := custom.AmountToPay()
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, amount)

	// Simple orders charge the discounted total
	items := []OrderItem{{Name: "Chocolate Truffle", Quantity: 1, Price: 500}}
	simple, err := NewSimpleOrder(testCustomer, items, 500, 50, false)
	assert.NoError(t, err)
	amount, err = simple.AmountToPay()
	assert.NoError(t, err)
	assert.Equal(t, 450.0, amount)
}
