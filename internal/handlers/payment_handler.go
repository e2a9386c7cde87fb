package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/craftlink/craftlink-backend/internal/dto"
	"github.com/craftlink/craftlink-backend/internal/paystack"
	"github.com/craftlink/craftlink-backend/internal/services"
	"github.com/craftlink/craftlink-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	gateway        *paystack.Client
}

func NewPaymentHandler(paymentService *services.PaymentService, gateway *paystack.Client) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, gateway: gateway}
}

func (h *PaymentHandler) Initiate(c *fiber.Ctx) error {
	var req dto.InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if err := validation.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	payment, authURL, err := h.paymentService.Initiate(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrGatewayUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Error initializing payment",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Error initializing payment",
			})
		}
	}

	return c.JSON(dto.InitiatePaymentResponse{
		Payment:          payment,
		AuthorizationURL: authURL,
	})
}

func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Missing reference",
		})
	}

	if err := h.paymentService.Verify(c.Context(), reference); err != nil {
		switch {
		case errors.Is(err, services.ErrVerificationFailed):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Payment verification failed",
			})
		case errors.Is(err, services.ErrReconciliation):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Payment record not found for verified transaction",
			})
		case errors.Is(err, services.ErrGatewayUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: "Error verifying payment",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Error verifying payment",
			})
		}
	}

	return c.JSON(fiber.Map{"message": "Payment verified successfully"})
}

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string            `json:"reference"`
		Metadata  paystack.Metadata `json:"metadata"`
	} `json:"data"`
}

// Webhook handles Paystack charge events. The raw body is authenticated
// against the X-Paystack-Signature header before any parsing.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	body := c.Body()
	if !h.gateway.ValidSignature(body, c.Get("X-Paystack-Signature")) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if event.Event != "charge.success" {
		return c.JSON(fiber.Map{"received": true})
	}

	if err := h.paymentService.HandleChargeSuccess(event.Data.Metadata.PaymentID, event.Data.Reference); err != nil {
		slog.Error("webhook processing failed", "event", event.Event, "reference", event.Data.Reference, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event", event.Event, "reference", event.Data.Reference)
	return c.JSON(fiber.Map{"received": true})
}
