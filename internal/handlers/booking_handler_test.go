package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/craftlink/craftlink-backend/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBookingApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Booking{}))

	handler := NewBookingHandler(services.NewBookingService(db))
	app := fiber.New()
	app.Post("/api/bookings", handler.Create)
	app.Get("/api/bookings/:client_id", handler.ListByClient)
	return app
}

func postBooking(t *testing.T, app *fiber.App, payload string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/bookings", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateBookingEndpoint(t *testing.T) {
	app := newBookingApp(t)
	payload := fmt.Sprintf(`{"client_id":%q,"artisan_id":%q,"date":"2024-06-01","time":"14:00"}`,
		uuid.New(), uuid.New())

	assert.Equal(t, fiber.StatusCreated, postBooking(t, app, payload))

	// The identical request hits the slot conflict.
	assert.Equal(t, fiber.StatusBadRequest, postBooking(t, app, payload))
}

func TestCreateBookingValidation(t *testing.T) {
	app := newBookingApp(t)

	cases := []struct {
		name    string
		payload string
	}{
		{"missing artisan", fmt.Sprintf(`{"client_id":%q,"date":"2024-06-01","time":"14:00"}`, uuid.New())},
		{"bad date format", fmt.Sprintf(`{"client_id":%q,"artisan_id":%q,"date":"01-06-2024","time":"14:00"}`, uuid.New(), uuid.New())},
		{"bad time format", fmt.Sprintf(`{"client_id":%q,"artisan_id":%q,"date":"2024-06-01","time":"2pm"}`, uuid.New(), uuid.New())},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postBooking(t, app, tc.payload))
		})
	}
}

func TestListBookingsEndpoint(t *testing.T) {
	app := newBookingApp(t)
	clientID := uuid.New()

	payload := fmt.Sprintf(`{"client_id":%q,"artisan_id":%q,"date":"2024-06-01","time":"09:00"}`,
		clientID, uuid.New())
	require.Equal(t, fiber.StatusCreated, postBooking(t, app, payload))

	req := httptest.NewRequest("GET", "/api/bookings/"+clientID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var bookings []models.Booking
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, clientID, bookings[0].ClientID)

	req = httptest.NewRequest("GET", "/api/bookings/not-a-uuid", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
