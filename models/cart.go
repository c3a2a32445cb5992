package models

// CartItem is a product snapshot held in a checkout session
type CartItem struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"min=0"` // unit price
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	ImageKey  *string `json:"image_key,omitempty"`
}

// Cart is a transient checkout session: product snapshots plus an optionally
// applied coupon. It is an explicit value passed to the checkout flow, not
// ambient state. All totals are recomputed on demand so a stale discount can
// never survive a mutation.
type Cart struct {
	Items  []CartItem `json:"items"`
	Coupon *Coupon    `json:"coupon,omitempty"`
}

// AddItem adds a product snapshot to the cart, merging by product id
func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return &OrderError{Code: "VALIDATION_ERROR", Message: "Quantity must be at least 1"}
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateQuantity sets the quantity of an item. Quantity never drops below 1
// here; removal is an explicit, separate call.
func (c *Cart) UpdateQuantity(productID uint, quantity int) error {
	if quantity < 1 {
		return &OrderError{Code: "VALIDATION_ERROR", Message: "Quantity must be at least 1; remove the item instead"}
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return &OrderError{Code: "NOT_FOUND", Message: "Item not found in cart"}
}

// RemoveItem removes an item from the cart
func (c *Cart) RemoveItem(productID uint) error {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return &OrderError{Code: "NOT_FOUND", Message: "Item not found in cart"}
}

// Clear empties the cart and drops any applied coupon
func (c *Cart) Clear() {
	c.Items = nil
	c.Coupon = nil
}

// ApplyCoupon attaches a validated coupon to the cart. The caller is expected
// to have validated it against the current subtotal.
func (c *Cart) ApplyCoupon(coupon *Coupon) {
	c.Coupon = coupon
}

// RemoveCoupon drops the applied coupon
func (c *Cart) RemoveCoupon() {
	c.Coupon = nil
}

// Subtotal is the pre-discount sum over all items
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// DiscountAmount is the coupon discount against the current subtotal
func (c *Cart) DiscountAmount() float64 {
	if c.Coupon == nil {
		return 0
	}
	return c.Coupon.DiscountFor(c.Subtotal())
}

// FinalTotal is the amount to charge, floored at the gateway minimum
func (c *Cart) FinalTotal() float64 {
	return ChargeableAmount(c.Subtotal(), c.DiscountAmount())
}

// OrderItems converts the cart contents into order item snapshots
func (c *Cart) OrderItems() []OrderItem {
	items := make([]OrderItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			ImageKey: item.ImageKey,
		})
	}
	return items
}
