package services

import (
	"errors"
	"fmt"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSlotTaken = errors.New("artisan not available at this time")

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// Create inserts a pending booking. Slot exclusivity is enforced by the
// partial unique index on (artisan_id, date, time), so two concurrent
// requests for the same slot cannot both succeed; the losing insert
// comes back as a translated duplicate-key error.
func (s *BookingService) Create(req *dto.CreateBookingRequest) (*models.Booking, error) {
	booking := models.Booking{
		ID:        uuid.New(),
		ClientID:  req.ClientID,
		ArtisanID: req.ArtisanID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.BookingPending,
	}

	if err := s.db.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return &booking, nil
}

func (s *BookingService) ListByClient(clientID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.Where("client_id = ?", clientID).Order("date, time").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Get(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}
