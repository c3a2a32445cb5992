package controllers

import (
	"net/http"
	"testing"

	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/priya-bakes/sugarplum-bakery-api/services"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.StoreStatus{},
		&models.PaymentTask{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func sampleCartItems() []map[string]interface{} {
	return []map[string]interface{}{
		{"product_id": 1, "name": "Chocolate Truffle", "price": 500, "quantity": 1},
		{"product_id": 2, "name": "Red Velvet Cupcake", "price": 300, "quantity": 2},
	}
}

func TestQuoteCheckout(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)
	activeTestCoupon(db)

	router := setupTestRouter()
	router.POST("/checkout/quote", QuoteCheckout)

	w := postJSON(router, "/checkout/quote", map[string]interface{}{
		"items":       sampleCartItems(),
		"coupon_code": "SWEET10",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 1100.0, data["subtotal"])
	assert.Equal(t, 110.0, data["discount_amount"])
	assert.Equal(t, 990.0, data["final_total"])
	assert.NotNil(t, data["coupon"])
}

func TestQuoteCheckoutWithoutCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/checkout/quote", QuoteCheckout)

	w := postJSON(router, "/checkout/quote", map[string]interface{}{
		"items": sampleCartItems(),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, 1100.0, data["subtotal"])
	assert.Equal(t, 0.0, data["discount_amount"])
	assert.Equal(t, 1100.0, data["final_total"])
	assert.Nil(t, data["coupon"])
}

func TestQuoteCheckoutStoreOffline(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)
	db.Create(&models.StoreStatus{IsOnline: false})

	router := setupTestRouter()
	router.POST("/checkout/quote", QuoteCheckout)

	w := postJSON(router, "/checkout/quote", map[string]interface{}{
		"items": sampleCartItems(),
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	errData := decodeBody(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "STORE_OFFLINE", errData["code"])
}

func TestQuoteCheckoutRejectsBadCoupon(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/checkout/quote", QuoteCheckout)

	w := postJSON(router, "/checkout/quote", map[string]interface{}{
		"items":       sampleCartItems(),
		"coupon_code": "NOSUCHCODE",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	errData := decodeBody(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "COUPON_NOT_FOUND", errData["code"])
}

func TestQuoteCheckoutValidation(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/checkout/quote", QuoteCheckout)

	// An empty cart has nothing to quote
	w := postJSON(router, "/checkout/quote", map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func confirmCheckoutBody(mock *services.MockRazorpayService) map[string]interface{} {
	body := map[string]interface{}{
		"customer":    validCustomerPayload(),
		"items":       sampleCartItems(),
		"coupon_code": "SWEET10",
		"address":     "12 Rose Lane",
		"city":        "Bengaluru",
		"state":       "Karnataka",
		"pincode":     "560001",
		"intent_id":   "order_mock_1",
		"payment_id":  "pay_cart_1",
	}
	if mock != nil {
		body["signature"] = mock.Sign("order_mock_1", "pay_cart_1")
	}
	return body
}

func TestConfirmCheckout(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)
	activeTestCoupon(db)

	mock := services.NewMockRazorpayService("test_secret")
	mock.SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/checkout/confirm", ConfirmCheckout)

	w := postJSON(router, "/checkout/confirm", confirmCheckoutBody(mock))

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "simple", data["type"])
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, "paid", data["payment_status"])
	assert.Equal(t, "pay_cart_1", data["payment_id"])
	assert.Equal(t, 1100.0, data["total"])
	assert.Equal(t, 110.0, data["discount_amount"])
	assert.Equal(t, 990.0, data["final_amount"])
	assert.Equal(t, "SWEET10", data["coupon_code"])

	// The outbox task was written and completed as part of the flow
	var task models.PaymentTask
	assert.NoError(t, db.Where("payment_id = ?", "pay_cart_1").First(&task).Error)
	assert.False(t, task.Pending())
}

func TestConfirmCheckoutTamperedSignature(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)
	activeTestCoupon(db)

	mock := services.NewMockRazorpayService("test_secret")
	mock.SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/checkout/confirm", ConfirmCheckout)

	body := confirmCheckoutBody(mock)
	body["signature"] = mock.Sign("order_mock_1", "pay_cart_1") + "00"
	w := postJSON(router, "/checkout/confirm", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Nothing durable happened
	var orders int64
	db.Model(&models.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
	var tasks int64
	db.Model(&models.PaymentTask{}).Count(&tasks)
	assert.Equal(t, int64(0), tasks)
}

func TestConfirmCheckoutValidation(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/checkout/confirm", ConfirmCheckout)

	// Shipping details are required before anything is charged against
	body := confirmCheckoutBody(nil)
	delete(body, "address")
	delete(body, "coupon_code")
	w := postJSON(router, "/checkout/confirm", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmCheckoutIdempotent(t *testing.T) {
	db := setupCheckoutTestDB(t)
	config.SetDB(db)
	activeTestCoupon(db)

	mock := services.NewMockRazorpayService("test_secret")
	mock.SetAsMockForTesting()

	router := setupTestRouter()
	router.POST("/checkout/confirm", ConfirmCheckout)

	w := postJSON(router, "/checkout/confirm", confirmCheckoutBody(mock))
	assert.Equal(t, http.StatusCreated, w.Code)
	firstID := decodeBody(t, w)["data"].(map[string]interface{})["id"]

	// A client retry of the same callback returns the order already made
	w = postJSON(router, "/checkout/confirm", confirmCheckoutBody(mock))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, firstID, decodeBody(t, w)["data"].(map[string]interface{})["id"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
