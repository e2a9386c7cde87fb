package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(500000), MinorUnits(5000))
	assert.Equal(t, int64(1050), MinorUnits(10.50))
	assert.Equal(t, int64(1), MinorUnits(0.005))
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth string
	var gotBody initializeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example.com/x1","access_code":"x1","reference":"ref_42"}}`)
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	tx, err := client.InitializeTransaction(context.Background(), "ada@example.com", 500000, "pay-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "ada@example.com", gotBody.Email)
	assert.Equal(t, int64(500000), gotBody.Amount)
	assert.Equal(t, "pay-123", gotBody.Metadata.PaymentID)
	assert.Equal(t, "https://checkout.example.com/x1", tx.AuthorizationURL)
	assert.Equal(t, "ref_42", tx.Reference)
}

func TestVerifyTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transaction/verify/ref_42", r.URL.Path)
		fmt.Fprint(w, `{"status":true,"message":"Verification successful","data":{"status":"success","reference":"ref_42","amount":500000,"metadata":{"payment_id":"pay-123"}}}`)
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	tx, err := client.VerifyTransaction(context.Background(), "ref_42")
	require.NoError(t, err)

	assert.Equal(t, "success", tx.Status)
	assert.Equal(t, "pay-123", tx.Metadata.PaymentID)
	assert.Equal(t, int64(500000), tx.Amount)
}

func TestGatewayErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":false,"message":"Invalid key"}`)
	}))
	defer server.Close()

	client := NewClient("sk_test_bad", server.URL)
	_, err := client.VerifyTransaction(context.Background(), "ref_42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestValidSignature(t *testing.T) {
	client := NewClient("sk_test_secret", "")
	body := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.ValidSignature(body, valid))
	assert.False(t, client.ValidSignature(body, "deadbeef"))
	assert.False(t, client.ValidSignature([]byte("tampered"), valid))
}
