package dto

import "github.com/google/uuid"

type CreateBookingRequest struct {
	ClientID  uuid.UUID `json:"client_id" validate:"required"`
	ArtisanID uuid.UUID `json:"artisan_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string    `json:"time" validate:"required,datetime=15:04"`
}
