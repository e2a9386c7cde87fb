package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/paystack"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeGateway mimics the two Paystack endpoints the service touches. The
// initialize handler captures the metadata payment_id so the verify
// handler can echo it back, the way the real gateway does.
type fakeGateway struct {
	server        *httptest.Server
	lastPaymentID string
	verifyStatus  string
	initFails     bool
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	fg := &fakeGateway{verifyStatus: "success"}

	mux := http.NewServeMux()
	mux.HandleFunc("/transaction/initialize", func(w http.ResponseWriter, r *http.Request) {
		if fg.initFails {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"status":false,"message":"gateway down"}`)
			return
		}
		var req struct {
			Email    string            `json:"email"`
			Amount   int64             `json:"amount"`
			Metadata paystack.Metadata `json:"metadata"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		fg.lastPaymentID = req.Metadata.PaymentID
		fmt.Fprint(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.example.com/abc123","access_code":"abc123","reference":"ref_123"}}`)
	})
	mux.HandleFunc("/transaction/verify/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"status":true,"message":"Verification successful","data":{"status":%q,"reference":"ref_123","amount":500000,"metadata":{"payment_id":%q}}}`,
			fg.verifyStatus, fg.lastPaymentID)
	})

	fg.server = httptest.NewServer(mux)
	t.Cleanup(fg.server.Close)
	return fg
}

func newPaymentFixture(t *testing.T) (*PaymentService, *fakeGateway, *gorm.DB, *models.Booking) {
	t.Helper()
	db := newTestDB(t)
	fg := newFakeGateway(t)
	svc := NewPaymentService(db, paystack.NewClient("sk_test_x", fg.server.URL))

	booking, err := NewBookingService(db).Create(&dto.CreateBookingRequest{
		ClientID:  uuid.New(),
		ArtisanID: uuid.New(),
		Date:      "2024-06-01",
		Time:      "14:00",
	})
	require.NoError(t, err)
	return svc, fg, db, booking
}

func initiateReq(booking *models.Booking) *dto.InitiatePaymentRequest {
	return &dto.InitiatePaymentRequest{
		BookingID: booking.ID,
		ClientID:  booking.ClientID,
		Amount:    5000,
		Email:     "ada@example.com",
	}
}

func TestInitiateCreatesUnpaidPayment(t *testing.T) {
	svc, fg, db, booking := newPaymentFixture(t)

	payment, authURL, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/abc123", authURL)
	assert.Equal(t, models.PaymentUnpaid, payment.Status)
	assert.Equal(t, "ref_123", payment.Reference)
	assert.Equal(t, payment.ID.String(), fg.lastPaymentID)

	var stored models.Payment
	require.NoError(t, db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentUnpaid, stored.Status)
}

func TestInitiateUnknownBooking(t *testing.T) {
	svc, _, _, booking := newPaymentFixture(t)

	req := initiateReq(booking)
	req.BookingID = uuid.New()
	_, _, err := svc.Initiate(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestInitiateGatewayFailureMarksPaymentFailed(t *testing.T) {
	svc, fg, db, booking := newPaymentFixture(t)
	fg.initFails = true

	_, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	assert.ErrorIs(t, err, ErrGatewayUnavailable)

	// The row must be discoverable as failed, not lingering unpaid.
	var stored models.Payment
	require.NoError(t, db.First(&stored, "booking_id = ?", booking.ID).Error)
	assert.Equal(t, models.PaymentFailed, stored.Status)
}

func TestVerifySuccessConfirmsBooking(t *testing.T) {
	svc, _, db, booking := newPaymentFixture(t)

	payment, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)

	require.NoError(t, svc.Verify(context.Background(), "ref_123"))

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentPaid, storedPayment.Status)

	var storedBooking models.Booking
	require.NoError(t, db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, storedBooking.Status)

	// Re-verification is an idempotent success.
	require.NoError(t, svc.Verify(context.Background(), "ref_123"))
}

func TestVerifyFailedStatusLeavesStateUntouched(t *testing.T) {
	svc, fg, db, booking := newPaymentFixture(t)

	payment, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)

	fg.verifyStatus = "failed"
	err = svc.Verify(context.Background(), "ref_123")
	assert.ErrorIs(t, err, ErrVerificationFailed)

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentUnpaid, storedPayment.Status)

	var storedBooking models.Booking
	require.NoError(t, db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPending, storedBooking.Status)
}

func TestVerifyUnresolvablePaymentIsReconciliationError(t *testing.T) {
	svc, fg, _, booking := newPaymentFixture(t)

	_, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)

	fg.lastPaymentID = uuid.New().String()
	err = svc.Verify(context.Background(), "ref_123")
	assert.ErrorIs(t, err, ErrReconciliation)

	fg.lastPaymentID = "not-a-uuid"
	err = svc.Verify(context.Background(), "ref_123")
	assert.ErrorIs(t, err, ErrReconciliation)
}

func TestSettleOnlyTransitionsUnpaidPayments(t *testing.T) {
	svc, _, db, booking := newPaymentFixture(t)

	payment, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)
	require.NoError(t, db.Model(payment).Update("status", models.PaymentFailed).Error)

	// Settling is a no-op for a row that already left the unpaid state.
	require.NoError(t, svc.HandleChargeSuccess(payment.ID.String(), "ref_123"))

	var storedPayment models.Payment
	require.NoError(t, db.First(&storedPayment, "id = ?", payment.ID).Error)
	assert.Equal(t, models.PaymentFailed, storedPayment.Status)

	var storedBooking models.Booking
	require.NoError(t, db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingPending, storedBooking.Status)
}

func TestHandleChargeSuccessWebhookPath(t *testing.T) {
	svc, _, db, booking := newPaymentFixture(t)

	payment, _, err := svc.Initiate(context.Background(), initiateReq(booking))
	require.NoError(t, err)

	require.NoError(t, svc.HandleChargeSuccess(payment.ID.String(), "ref_123"))

	var storedBooking models.Booking
	require.NoError(t, db.First(&storedBooking, "id = ?", booking.ID).Error)
	assert.Equal(t, models.BookingConfirmed, storedBooking.Status)
}
