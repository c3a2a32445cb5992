package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// MockRazorpayService is a mock implementation of the gateway for testing
type MockRazorpayService struct {
	keySecret   string
	intents     map[string]*PaymentIntent
	FailIntents bool // when set, CreateIntent returns an error
	mu          sync.RWMutex
	counter     int
}

// NewMockRazorpayService creates a new mock gateway with the given secret
func NewMockRazorpayService(keySecret string) *MockRazorpayService {
	return &MockRazorpayService{
		keySecret: keySecret,
		intents:   make(map[string]*PaymentIntent),
	}
}

// SetAsMockForTesting sets this mock as the global gateway instance
func (m *MockRazorpayService) SetAsMockForTesting() {
	SetRazorpayService(m)
}

// KeyID returns a mock public key
func (m *MockRazorpayService) KeyID() string {
	return "rzp_test_mock"
}

// CreateIntent simulates creating a payment order on the gateway
func (m *MockRazorpayService) CreateIntent(amount float64) (*PaymentIntent, error) {
	if m.FailIntents {
		return nil, fmt.Errorf("mock gateway rejected intent")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	intent := &PaymentIntent{
		ID:       fmt.Sprintf("order_mock_%d", m.counter),
		Amount:   int64(amount * 100),
		Currency: "INR",
	}
	m.intents[intent.ID] = intent
	return intent, nil
}

// VerifySignature checks a signature the same way the real gateway does
func (m *MockRazorpayService) VerifySignature(intentID, paymentID, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(m.Sign(intentID, paymentID)), []byte(signature))
}

// Sign produces a valid signature for an intent and payment id pair, so tests
// can fabricate successful gateway callbacks
func (m *MockRazorpayService) Sign(intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(m.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// IntentCount returns how many intents have been created (for asserting that
// a replay never hits the gateway again)
func (m *MockRazorpayService) IntentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counter
}
