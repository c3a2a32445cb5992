package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleCart() Cart {
	cart := Cart{}
	_ = cart.AddItem(CartItem{ProductID: 1, Name: "Chocolate Truffle", Price: 500, Quantity: 1})
	_ = cart.AddItem(CartItem{ProductID: 2, Name: "Red Velvet Cupcake", Price: 300, Quantity: 2})
	return cart
}

func tenPercentCoupon() *Coupon {
	return &Coupon{
		Code:          "SWEET10",
		DiscountType:  DiscountTypePercentage,
		DiscountValue: 10,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
		IsActive:      true,
	}
}

func TestCartAddItemMergesByProduct(t *testing.T) {
	cart := Cart{}
	assert.NoError(t, cart.AddItem(CartItem{ProductID: 1, Name: "Chocolate Truffle", Price: 500, Quantity: 1}))
	assert.NoError(t, cart.AddItem(CartItem{ProductID: 1, Name: "Chocolate Truffle", Price: 500, Quantity: 2}))

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1500.0, cart.Subtotal())
}

func TestCartAddItemRejectsZeroQuantity(t *testing.T) {
	cart := Cart{}
	err := cart.AddItem(CartItem{ProductID: 1, Name: "Chocolate Truffle", Price: 500, Quantity: 0})
	assert.Error(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := sampleCart()

	assert.NoError(t, cart.UpdateQuantity(2, 5))
	assert.Equal(t, 5, cart.Items[1].Quantity)

	// Quantity never drops below 1 through an update
	assert.Error(t, cart.UpdateQuantity(2, 0))
	assert.Equal(t, 5, cart.Items[1].Quantity)

	assert.Error(t, cart.UpdateQuantity(99, 2))
}

func TestCartRemoveItem(t *testing.T) {
	cart := sampleCart()

	assert.NoError(t, cart.RemoveItem(1))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, uint(2), cart.Items[0].ProductID)

	assert.Error(t, cart.RemoveItem(1))
}

func TestCartClear(t *testing.T) {
	cart := sampleCart()
	cart.ApplyCoupon(tenPercentCoupon())

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Coupon)
	assert.Equal(t, 0.0, cart.Subtotal())
}

func TestCartTotalsWithPercentageCoupon(t *testing.T) {
	// ₹500 + ₹300 x 2 with a 10% coupon
	cart := sampleCart()
	cart.ApplyCoupon(tenPercentCoupon())

	assert.Equal(t, 1100.0, cart.Subtotal())
	assert.Equal(t, 110.0, cart.DiscountAmount())
	assert.Equal(t, 990.0, cart.FinalTotal())
}

func TestCartDiscountRecomputedAfterMutation(t *testing.T) {
	cart := sampleCart()
	cart.ApplyCoupon(tenPercentCoupon())
	assert.Equal(t, 110.0, cart.DiscountAmount())

	// Dropping an item shrinks the discount with it; nothing stale survives
	assert.NoError(t, cart.RemoveItem(2))
	assert.Equal(t, 500.0, cart.Subtotal())
	assert.Equal(t, 50.0, cart.DiscountAmount())
	assert.Equal(t, 450.0, cart.FinalTotal())

	cart.RemoveCoupon()
	assert.Equal(t, 0.0, cart.DiscountAmount())
	assert.Equal(t, 500.0, cart.FinalTotal())
}

func TestCartFinalTotalFloorsAtGatewayMinimum(t *testing.T) {
	cart := Cart{}
	assert.NoError(t, cart.AddItem(CartItem{ProductID: 1, Name: "Chocolate Truffle", Price: 500, Quantity: 1}))
	cart.ApplyCoupon(&Coupon{
		Code:          "BIGFIXED",
		DiscountType:  DiscountTypeFixed,
		DiscountValue: 2000,
		IsActive:      true,
	})

	// A fixed ₹2000 discount on a ₹500 cart still charges the minimum
	assert.Equal(t, 2000.0, cart.DiscountAmount())
	assert.Equal(t, MinChargeableAmount, cart.FinalTotal())
}

func TestCartOrderItems(t *testing.T) {
	cart := sampleCart()

	items := cart.OrderItems()
	assert.Len(t, items, 2)
	assert.Equal(t, "Chocolate Truffle", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 500.0, items[0].Price)
	assert.Equal(t, "Red Velvet Cupcake", items[1].Name)
	assert.Equal(t, 2, items[1].Quantity)
}

func TestCouponDiscountFor(t *testing.T) {
	percentage := &Coupon{DiscountType: DiscountTypePercentage, DiscountValue: 25}
	assert.Equal(t, 250.0, percentage.DiscountFor(1000))

	fixed := &Coupon{DiscountType: DiscountTypeFixed, DiscountValue: 150}
	assert.Equal(t, 150.0, fixed.DiscountFor(1000))
	// The clamp happens at the total, not here
	assert.Equal(t, 150.0, fixed.DiscountFor(100))
}
