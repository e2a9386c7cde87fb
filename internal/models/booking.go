package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is one appointment slot: (artisan_id, date, time). The partial
// unique index is what prevents double booking — two concurrent requests
// for the same slot cannot both insert, and cancelled rows don't block
// the slot from being rebooked.
type Booking struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	ArtisanID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_slot,where:status <> 'cancelled'" json:"artisan_id"`
	Date      string        `gorm:"size:10;not null;uniqueIndex:idx_bookings_slot" json:"date"`
	Time      string        `gorm:"size:5;not null;uniqueIndex:idx_bookings_slot" json:"time"`
	Status    BookingStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
