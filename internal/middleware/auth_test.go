package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/craftlink/craftlink-backend/internal/config"
	"github.com/craftlink/craftlink-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newProtectedApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Get("/me", JWTProtected(cfg), RequireUser(db), func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"id": user.ID})
	})
	return app, db
}

func signTestToken(t *testing.T, userID uuid.UUID, typ string, expiry time.Duration, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "ada@example.com",
		"typ":   typ,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func seedUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		FullName: "Ada Obi",
		Email:    "ada@example.com",
		Role:     models.RoleClient,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestProtectedRouteWithValidToken(t *testing.T) {
	app, db := newProtectedApp(t)
	user := seedUser(t, db)

	token := signTestToken(t, user.ID, "access", time.Hour, testSecret)
	assert.Equal(t, fiber.StatusOK, request(t, app, token))
}

func TestMissingAndMalformedTokens(t *testing.T) {
	app, _ := newProtectedApp(t)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, "not-a-jwt"))
}

func TestExpiredTokenUnauthorized(t *testing.T) {
	app, db := newProtectedApp(t)
	user := seedUser(t, db)

	// Signature is valid; only the expiry has passed.
	token := signTestToken(t, user.ID, "access", -time.Minute, testSecret)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}

func TestWrongSignatureUnauthorized(t *testing.T) {
	app, db := newProtectedApp(t)
	user := seedUser(t, db)

	token := signTestToken(t, user.ID, "access", time.Hour, "other-secret")
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}

func TestDeletedUserUnauthorized(t *testing.T) {
	app, db := newProtectedApp(t)
	user := seedUser(t, db)

	token := signTestToken(t, user.ID, "access", time.Hour, testSecret)
	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}

func TestRefreshTokenRejectedOnProtectedRoute(t *testing.T) {
	app, db := newProtectedApp(t)
	user := seedUser(t, db)

	token := signTestToken(t, user.ID, "refresh", time.Hour, testSecret)
	assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
}
