package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/paystack"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrGatewayUnavailable = errors.New("payment gateway request failed")
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrReconciliation means the gateway reported a successful charge
	// whose metadata does not resolve to any local payment row.
	ErrReconciliation = errors.New("verified payment could not be reconciled")
)

type PaymentService struct {
	db      *gorm.DB
	gateway *paystack.Client
}

func NewPaymentService(db *gorm.DB, gateway *paystack.Client) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// Initiate records an unpaid payment for an existing booking, then asks
// the gateway for a hosted checkout. A failed gateway call flips the row
// to failed rather than leaving an unreconcilable unpaid payment behind.
func (s *PaymentService) Initiate(ctx context.Context, req *dto.InitiatePaymentRequest) (*models.Payment, string, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", req.BookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBookingNotFound
		}
		return nil, "", fmt.Errorf("failed to fetch booking: %w", err)
	}

	payment := models.Payment{
		ID:        uuid.New(),
		BookingID: req.BookingID,
		ClientID:  req.ClientID,
		Amount:    req.Amount,
		Status:    models.PaymentUnpaid,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create payment: %w", err)
	}

	tx, err := s.gateway.InitializeTransaction(ctx, req.Email, paystack.MinorUnits(req.Amount), payment.ID.String())
	if err != nil {
		if updateErr := s.db.Model(&payment).Update("status", models.PaymentFailed).Error; updateErr != nil {
			slog.Error("failed to mark payment as failed", "payment_id", payment.ID, "error", updateErr)
		}
		slog.Error("gateway initialization failed", "payment_id", payment.ID, "error", err)
		return nil, "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if err := s.db.Model(&payment).Update("reference", tx.Reference).Error; err != nil {
		return nil, "", fmt.Errorf("failed to store gateway reference: %w", err)
	}
	payment.Reference = tx.Reference

	return &payment, tx.AuthorizationURL, nil
}

// Verify asks the gateway for the settlement status of a reference and,
// on success, flips the payment to paid and the linked booking to
// confirmed in one transaction. Re-verifying an already-paid payment is
// an idempotent success. A non-success gateway status mutates nothing.
func (s *PaymentService) Verify(ctx context.Context, reference string) error {
	verified, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	if verified.Status != "success" {
		return ErrVerificationFailed
	}

	return s.settle(verified.Metadata.PaymentID, reference)
}

// HandleChargeSuccess reconciles a charge.success webhook event through
// the same path as client-initiated verification.
func (s *PaymentService) HandleChargeSuccess(paymentID, reference string) error {
	return s.settle(paymentID, reference)
}

func (s *PaymentService) settle(paymentID, reference string) error {
	id, err := uuid.Parse(paymentID)
	if err != nil {
		slog.Error("payment reconciliation failed: bad metadata", "reference", reference, "payment_id", paymentID)
		return ErrReconciliation
	}

	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("payment reconciliation failed: no matching payment", "reference", reference, "payment_id", paymentID)
			return ErrReconciliation
		}
		return fmt.Errorf("failed to fetch payment: %w", err)
	}

	if payment.Status == models.PaymentPaid {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", payment.ID, models.PaymentUnpaid).
			Update("status", models.PaymentPaid)
		if result.Error != nil {
			return fmt.Errorf("failed to mark payment paid: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// A concurrent verification settled the row first, or it is
			// not in a settleable state. Nothing to confirm.
			return nil
		}
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			Update("status", models.BookingConfirmed).Error; err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		return nil
	})
}
