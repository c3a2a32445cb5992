package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/priya-bakes/sugarplum-bakery-api/config"
	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNoteTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.OrderNote{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedNoteFixtures(t *testing.T, db *gorm.DB) (customer models.User, admin models.User, order *models.Order) {
	customer = models.User{
		Auth0ID: "auth0|customer",
		Name:    "Anita Rao",
		Email:   "anita@example.com",
		Phone:   "9876543210",
		Role:    models.RoleCustomer,
	}
	db.Create(&customer)

	admin = models.User{
		Auth0ID: "auth0|staff",
		Name:    "Priya",
		Email:   "priya@example.com",
		Phone:   "9000000000",
		Role:    models.RoleAdmin,
	}
	db.Create(&admin)

	var err error
	order, err = models.NewCustomOrder(models.CustomerDetails{
		Name: customer.Name, Email: customer.Email, Phone: customer.Phone,
	}, "Birthday", "1kg", "Chocolate", "", nil)
	assert.NoError(t, err)
	db.Create(order)

	return customer, admin, order
}

func TestSendOrderNote(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	customer, _, order := seedNoteFixtures(t, db)

	router := setupTestRouter()
	router.POST("/orders/:id/notes",
		mockAuthMiddleware(customer.Auth0ID, customer.Role, "mock-token"),
		SendOrderNote)

	w := postJSON(router, fmt.Sprintf("/orders/%d/notes", order.ID), map[string]interface{}{
		"text": "Please write Happy Birthday Meera on top",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Please write Happy Birthday Meera on top", data["text"])
	author := data["author"].(map[string]interface{})
	assert.Equal(t, customer.Email, author["email"])
}

func TestSendOrderNoteAsAdmin(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	_, admin, order := seedNoteFixtures(t, db)

	router := setupTestRouter()
	router.POST("/orders/:id/notes",
		mockAuthMiddleware(admin.Auth0ID, admin.Role, "mock-token"),
		SendOrderNote)

	// Admins can note on any order, even ones placed with another phone
	w := postJSON(router, fmt.Sprintf("/orders/%d/notes", order.ID), map[string]interface{}{
		"text": "We can do the blue frosting, price updated",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSendOrderNoteForbiddenForOtherCustomer(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	_, _, order := seedNoteFixtures(t, db)

	stranger := models.User{
		Auth0ID: "auth0|stranger",
		Name:    "Raj",
		Email:   "raj@example.com",
		Phone:   "1112223334", // does not match the order's phone
		Role:    models.RoleCustomer,
	}
	db.Create(&stranger)

	router := setupTestRouter()
	router.POST("/orders/:id/notes",
		mockAuthMiddleware(stranger.Auth0ID, stranger.Role, "mock-token"),
		SendOrderNote)

	w := postJSON(router, fmt.Sprintf("/orders/%d/notes", order.ID), map[string]interface{}{
		"text": "Sneaky note",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	db.Model(&models.OrderNote{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSendOrderNoteOrderNotFound(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	customer, _, _ := seedNoteFixtures(t, db)

	router := setupTestRouter()
	router.POST("/orders/:id/notes",
		mockAuthMiddleware(customer.Auth0ID, customer.Role, "mock-token"),
		SendOrderNote)

	w := postJSON(router, "/orders/999/notes", map[string]interface{}{"text": "Hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderNotes(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	customer, admin, order := seedNoteFixtures(t, db)

	db.Create(&models.OrderNote{OrderID: order.ID, AuthorID: customer.ID, Text: "Can you add a photo topper?"})
	db.Create(&models.OrderNote{OrderID: order.ID, AuthorID: admin.ID, Text: "Yes, send us the photo"})

	router := setupTestRouter()
	router.GET("/orders/:id/notes",
		mockAuthMiddleware(customer.Auth0ID, customer.Role, "mock-token"),
		GetOrderNotes)

	w := getJSON(router, fmt.Sprintf("/orders/%d/notes", order.ID))
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, data, 2)
	// Oldest first, conversation order
	assert.Equal(t, "Can you add a photo topper?", data[0].(map[string]interface{})["text"])
	assert.Equal(t, "Yes, send us the photo", data[1].(map[string]interface{})["text"])
}

func TestGetOrderNotesForbiddenForOtherCustomer(t *testing.T) {
	db := setupNoteTestDB(t)
	config.SetDB(db)
	_, _, order := seedNoteFixtures(t, db)

	stranger := models.User{
		Auth0ID: "auth0|stranger",
		Name:    "Raj",
		Email:   "raj@example.com",
		Phone:   "1112223334",
		Role:    models.RoleCustomer,
	}
	db.Create(&stranger)

	router := setupTestRouter()
	router.GET("/orders/:id/notes",
		mockAuthMiddleware(stranger.Auth0ID, stranger.Role, "mock-token"),
		GetOrderNotes)

	w := getJSON(router, fmt.Sprintf("/orders/%d/notes", order.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
