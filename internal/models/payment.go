package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

// Payment links a booking to a gateway transaction. Reference is the
// gateway-issued identifier returned at initialization and used for
// verification. A payment whose gateway call failed is marked failed so
// the row stays discoverable instead of lingering as a phantom unpaid.
type Payment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID uuid.UUID     `gorm:"type:uuid;not null;index" json:"booking_id"`
	ClientID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	Amount    float64       `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"size:20;not null;default:'unpaid'" json:"status"`
	Reference string        `gorm:"size:100;index" json:"reference,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
