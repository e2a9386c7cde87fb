package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// Client talks to the Paystack REST API for transaction initialization
// and verification. Amounts cross the wire in the currency's minor unit.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Metadata is attached to every transaction so the verification callback
// can be reconciled back to the local payment row.
type Metadata struct {
	PaymentID string `json:"payment_id"`
}

type Transaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifiedTransaction struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Metadata  Metadata `json:"metadata"`
}

type initializeRequest struct {
	Email    string   `json:"email"`
	Amount   int64    `json:"amount"`
	Metadata Metadata `json:"metadata"`
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// MinorUnits converts a major-unit amount to the gateway's minor-unit
// convention (kobo for NGN: 1 naira = 100 kobo).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// InitializeTransaction creates a hosted-checkout transaction and returns
// the redirect URL the client completes payment on.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount int64, paymentID string) (*Transaction, error) {
	body, err := json.Marshal(initializeRequest{
		Email:    email,
		Amount:   amount,
		Metadata: Metadata{PaymentID: paymentID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}

	var tx Transaction
	if err := c.do(req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// VerifyTransaction looks up the settlement status of a transaction by
// its gateway reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifiedTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}

	var tx VerifiedTransaction
	if err := c.do(req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ValidSignature reports whether an incoming webhook body matches its
// X-Paystack-Signature header (HMAC-SHA512 with the secret key).
func (c *Client) ValidSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		return fmt.Errorf("paystack returned status %d: %s", resp.StatusCode, env.Message)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode paystack data: %w", err)
	}
	return nil
}
