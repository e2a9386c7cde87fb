package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

const stateCookie = "oauth_state"

type OAuthHandler struct {
	oauthService *services.OAuthService
	authService  *services.AuthService
}

func NewOAuthHandler(oauthService *services.OAuthService, authService *services.AuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService, authService: authService}
}

// Redirect sends the client to the provider's consent page, pinning a
// random state in a short-lived cookie for the callback to check.
func (h *OAuthHandler) Redirect(provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := randomState()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		c.Cookie(&fiber.Cookie{
			Name:     stateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			SameSite: "Lax",
		})

		url, err := h.oauthService.AuthURL(provider, state)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Unknown provider",
			})
		}
		return c.Redirect(url, fiber.StatusTemporaryRedirect)
	}
}

// Callback validates state, exchanges the code for a profile, and issues
// a token pair for the matched or newly created account.
func (h *OAuthHandler) Callback(provider string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := c.Query("state")
		expected := c.Cookies(stateCookie)
		if state == "" || expected == "" ||
			subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid oauth state",
			})
		}
		c.ClearCookie(stateCookie)

		code := c.Query("code")
		if code == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Missing authorization code",
			})
		}

		user, err := h.oauthService.Exchange(c.Context(), provider, code)
		if err != nil {
			slog.Error("oauth exchange failed", "provider", provider, "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "OAuth sign-in failed",
			})
		}

		resp, err := h.authService.TokenPair(user, providerMessage(provider))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}
		return c.JSON(resp)
	}
}

func providerMessage(provider string) string {
	if provider == services.ProviderFacebook {
		return "Facebook login successful"
	}
	return "Google login successful"
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
