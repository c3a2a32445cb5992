package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/priya-bakes/sugarplum-bakery-api/config"
)

// PaymentIntent is a payment order created on the gateway. The client-side
// checkout widget completes it out of band and calls back with a payment id
// and signature.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // in paise
	Currency string `json:"currency"`
}

// RazorpayInterface defines the gateway operations the checkout flow needs
type RazorpayInterface interface {
	// CreateIntent creates a remote payment order for the given rupee amount
	CreateIntent(amount float64) (*PaymentIntent, error)

	// VerifySignature checks the gateway callback signature for an intent and
	// payment id pair
	VerifySignature(intentID, paymentID, signature string) bool

	// KeyID returns the public key the client-side widget needs
	KeyID() string
}

// RazorpayService talks to the Razorpay REST API
type RazorpayService struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
}

var razorpayServiceInstance RazorpayInterface

// InitRazorpayService initializes the gateway client from configuration
func InitRazorpayService() RazorpayInterface {
	cfg := config.GetConfig()
	razorpayServiceInstance = &RazorpayService{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   "https://api.razorpay.com",
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpayKeySecret,
	}
	return razorpayServiceInstance
}

// GetRazorpayService returns the initialized gateway client instance
func GetRazorpayService() RazorpayInterface {
	return razorpayServiceInstance
}

// SetRazorpayService sets the gateway client instance (primarily for testing)
func SetRazorpayService(service RazorpayInterface) {
	razorpayServiceInstance = service
}

// KeyID returns the public Razorpay key
func (s *RazorpayService) KeyID() string {
	return s.keyID
}

// CreateIntent creates a Razorpay order for the given rupee amount. The
// gateway expects the amount in paise.
func (s *RazorpayService) CreateIntent(amount float64) (*PaymentIntent, error) {
	payload := map[string]interface{}{
		"amount":          int64(math.Round(amount * 100)),
		"currency":        "INR",
		"receipt":         fmt.Sprintf("order_%d", time.Now().UnixNano()),
		"payment_capture": 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal intent payload: %w", err)
	}

	req, err := http.NewRequest("POST", s.baseURL+"/v1/orders", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var intent PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}

	return &intent, nil
}

// VerifySignature recomputes the HMAC-SHA256 of "intentID|paymentID" with the
// key secret and compares it to the signature from the gateway callback.
// A mismatch fails closed.
func (s *RazorpayService) VerifySignature(intentID, paymentID, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
