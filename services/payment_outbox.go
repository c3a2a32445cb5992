package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/priya-bakes/sugarplum-bakery-api/models"
	"gorm.io/gorm"
)

// Payment error codes
const (
	PaymentIntentFailed           = "PAYMENT_INTENT_FAILED"
	PersistenceAfterPaymentFailed = "PERSISTENCE_AFTER_PAYMENT_FAILED"
)

// PaymentError represents a payment flow failure with a stable code
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return e.Message
}

// supportMessage is shown when funds are captured but the order write keeps
// failing. The payment id must always be in it so support can reconcile.
func supportMessage(paymentID string) string {
	return fmt.Sprintf("Payment succeeded but the order could not be recorded. Please contact support with payment ID: %s", paymentID)
}

// EnqueuePaymentTask durably records "payment succeeded, order write pending"
// before the order write is attempted. Enqueueing the same payment id twice
// returns the existing task, so a retried confirmation can never duplicate
// work or charges.
func EnqueuePaymentTask(db *gorm.DB, paymentID string, amount float64, orderID *uint, orderPayload interface{}, signature *string) (*models.PaymentTask, error) {
	var existing models.PaymentTask
	err := db.Where("payment_id = ?", paymentID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("payment task lookup failed: %w", err)
	}

	var payload string
	if orderPayload != nil {
		raw, err := json.Marshal(orderPayload)
		if err != nil {
			return nil, fmt.Errorf("marshal order payload: %w", err)
		}
		payload = string(raw)
	}

	task := models.PaymentTask{
		PaymentID:    paymentID,
		Amount:       amount,
		OrderID:      orderID,
		OrderPayload: payload,
		Signature:    signature,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("enqueue payment task: %w", err)
	}
	return &task, nil
}

// ConfirmOrderPayment reconciles a verified gateway success against an
// existing order: record the task, apply the payment, complete the task.
// If the apply fails the task stays pending and the caller gets the
// highest-severity error with the support message.
func ConfirmOrderPayment(db *gorm.DB, orderID uint, paymentID string, amount float64, signature *string) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.OrderError{Code: "NOT_FOUND", Message: "Order not found"}
		}
		return nil, fmt.Errorf("order lookup failed: %w", err)
	}

	// Fail fast before any durable state: payment must never be attempted
	// against an unset amount, and a paid order's payment id is immutable.
	if order.Type == models.OrderTypeCustom && order.Price == nil {
		return nil, &models.OrderError{Code: "PRICE_NOT_SET", Message: "Order price has not been set yet"}
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		if order.PaymentID != nil && *order.PaymentID == paymentID {
			return &order, nil // already reconciled, idempotent
		}
		return nil, &models.OrderError{Code: "INVALID_TRANSITION", Message: "Order has already been paid"}
	}
	if !order.CanConfirmPayment() {
		return nil, &models.OrderError{
			Code:    "INVALID_TRANSITION",
			Message: "Invalid status transition from " + order.Status + " to " + models.StatusConfirmed,
		}
	}

	task, err := EnqueuePaymentTask(db, paymentID, amount, &order.ID, nil, signature)
	if err != nil {
		return nil, err
	}
	if !task.Pending() {
		return &order, nil // a previous confirmation already finished
	}

	if err := applyPaymentToOrder(db, &order, paymentID, amount, signature); err != nil {
		recordTaskFailure(db, task, err)
		return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(paymentID)}
	}

	if err := completePaymentTask(db, task); err != nil {
		// The order is written; a stale pending task only costs a no-op replay.
		log.Printf("warning: failed to complete payment task %d: %v", task.ID, err)
	}
	return &order, nil
}

// ConfirmCartCheckout reconciles a verified gateway success for a cart
// checkout that has no persisted order yet. The full order payload is put in
// the task before the create, so a failed write can be replayed without
// another gateway call.
func ConfirmCartCheckout(db *gorm.DB, order *models.Order, paymentID string, amount float64, signature *string) (*models.Order, error) {
	attachPayment(order, paymentID, amount, signature)

	task, err := EnqueuePaymentTask(db, paymentID, amount, nil, order, signature)
	if err != nil {
		return nil, err
	}
	if !task.Pending() {
		// A previous attempt completed the write; find the order it made.
		var existing models.Order
		if err := db.Where("payment_id = ?", paymentID).First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(paymentID)}
	}

	if err := db.Create(order).Error; err != nil {
		recordTaskFailure(db, task, err)
		return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(paymentID)}
	}

	task.OrderID = &order.ID
	if err := completePaymentTask(db, task); err != nil {
		log.Printf("warning: failed to complete payment task %d: %v", task.ID, err)
	}
	return order, nil
}

// ReplayPaymentTask retries the order write owed by a pending task. It never
// talks to the gateway: the funds were captured before the task was written.
func ReplayPaymentTask(db *gorm.DB, taskID uint) (*models.Order, error) {
	var task models.PaymentTask
	if err := db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.OrderError{Code: "NOT_FOUND", Message: "Payment task not found"}
		}
		return nil, fmt.Errorf("payment task lookup failed: %w", err)
	}
	if !task.Pending() {
		var order models.Order
		if task.OrderID != nil {
			if err := db.First(&order, *task.OrderID).Error; err == nil {
				return &order, nil
			}
		}
		return nil, nil
	}

	if task.OrderID != nil {
		var order models.Order
		if err := db.First(&order, *task.OrderID).Error; err != nil {
			return nil, fmt.Errorf("order lookup failed: %w", err)
		}
		if order.PaymentStatus != models.PaymentStatusPaid {
			if err := applyPaymentToOrder(db, &order, task.PaymentID, task.Amount, task.Signature); err != nil {
				recordTaskFailure(db, &task, err)
				return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(task.PaymentID)}
			}
		}
		if err := completePaymentTask(db, &task); err != nil {
			log.Printf("warning: failed to complete payment task %d: %v", task.ID, err)
		}
		return &order, nil
	}

	// Cart checkout: the order to create travels with the task.
	var order models.Order
	if err := json.Unmarshal([]byte(task.OrderPayload), &order); err != nil {
		recordTaskFailure(db, &task, err)
		return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(task.PaymentID)}
	}
	order.ID = 0

	// A prior attempt may have created the order before failing to complete
	// the task; keyed by payment id this stays idempotent.
	var existing models.Order
	if err := db.Where("payment_id = ?", task.PaymentID).First(&existing).Error; err == nil {
		task.OrderID = &existing.ID
		if err := completePaymentTask(db, &task); err != nil {
			log.Printf("warning: failed to complete payment task %d: %v", task.ID, err)
		}
		return &existing, nil
	}

	if err := db.Create(&order).Error; err != nil {
		recordTaskFailure(db, &task, err)
		return nil, &PaymentError{Code: PersistenceAfterPaymentFailed, Message: supportMessage(task.PaymentID)}
	}

	task.OrderID = &order.ID
	if err := completePaymentTask(db, &task); err != nil {
		log.Printf("warning: failed to complete payment task %d: %v", task.ID, err)
	}
	return &order, nil
}

// PendingPaymentTasks lists tasks whose order write is still owed
func PendingPaymentTasks(db *gorm.DB) ([]models.PaymentTask, error) {
	var tasks []models.PaymentTask
	if err := db.Where("completed_at IS NULL").Order("created_at asc").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list payment tasks: %w", err)
	}
	return tasks, nil
}

// applyPaymentToOrder flips the order to paid and confirmed in one update
func applyPaymentToOrder(db *gorm.DB, order *models.Order, paymentID string, amount float64, signature *string) error {
	attachPayment(order, paymentID, amount, signature)
	order.Status = models.StatusConfirmed
	return db.Save(order).Error
}

func attachPayment(order *models.Order, paymentID string, amount float64, signature *string) {
	method := models.PaymentMethodOnline
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentID = &paymentID
	order.PaymentAmount = &amount
	order.PaymentMethod = &method
	order.PaymentSignature = signature
}

func completePaymentTask(db *gorm.DB, task *models.PaymentTask) error {
	now := time.Now()
	task.CompletedAt = &now
	return db.Save(task).Error
}

func recordTaskFailure(db *gorm.DB, task *models.PaymentTask, cause error) {
	msg := cause.Error()
	task.Attempts++
	task.LastError = &msg
	if err := db.Save(task).Error; err != nil {
		// Never mask the original failure; the pending task is still on disk.
		log.Printf("warning: failed to record payment task failure: %v", err)
	}
}
