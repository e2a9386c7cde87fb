package dto

import (
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/google/uuid"
)

type InitiatePaymentRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	ClientID  uuid.UUID `json:"client_id" validate:"required"`
	Amount    float64   `json:"amount" validate:"required,gt=0"`
	Email     string    `json:"email" validate:"required,email"`
}

type InitiatePaymentResponse struct {
	Payment          *models.Payment `json:"payment"`
	AuthorizationURL string          `json:"authorization_url"`
}
