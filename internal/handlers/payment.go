package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/services"
)

// PaymentHandler forwards payment requests to the external payment
// service. Pure pass-through: upstream status and body are returned
// verbatim.
type PaymentHandler struct {
	proxy *services.PaymentProxy
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(proxy *services.PaymentProxy) *PaymentHandler {
	return &PaymentHandler{proxy: proxy}
}

func (h *PaymentHandler) forward(c *fiber.Ctx, method, path string, body []byte) error {
	status, respBody, err := h.proxy.Forward(method, path, body)
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Status(status).Send(respBody)
}

// AddPaymentAccount proxies payment account creation.
func (h *PaymentHandler) AddPaymentAccount(c *fiber.Ctx) error {
	return h.forward(c, fiber.MethodPost, "/payment_accounts", c.Body())
}

// GetPaymentAccounts proxies the account listing for a user.
func (h *PaymentHandler) GetPaymentAccounts(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("customer_id")
	if err != nil || customerID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid customer id",
		})
	}
	return h.forward(c, fiber.MethodGet,
		fmt.Sprintf("/users/%d/payment_accounts", customerID), nil)
}

// DeletePaymentAccount proxies account deletion.
func (h *PaymentHandler) DeletePaymentAccount(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("account_id")
	if err != nil || accountID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid account id",
		})
	}
	return h.forward(c, fiber.MethodDelete,
		fmt.Sprintf("/payment_accounts/%d", accountID), nil)
}

// VerifyAccount proxies account verification initiation.
func (h *PaymentHandler) VerifyAccount(c *fiber.Ctx) error {
	return h.forward(c, fiber.MethodPost, "/verify_account", c.Body())
}

// VerificationStatus proxies a verification status check.
func (h *PaymentHandler) VerificationStatus(c *fiber.Ctx) error {
	verificationID, err := c.ParamsInt("verification_id")
	if err != nil || verificationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid verification id",
		})
	}
	return h.forward(c, fiber.MethodGet,
		fmt.Sprintf("/verification_status/%d", verificationID), nil)
}

// CreatePayout proxies payout creation.
func (h *PaymentHandler) CreatePayout(c *fiber.Ctx) error {
	return h.forward(c, fiber.MethodPost, "/create_payout", c.Body())
}

// PayoutStatus proxies a payout status check.
func (h *PaymentHandler) PayoutStatus(c *fiber.Ctx) error {
	payoutID, err := c.ParamsInt("payout_id")
	if err != nil || payoutID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payout id",
		})
	}
	return h.forward(c, fiber.MethodGet,
		fmt.Sprintf("/payout_status/%d", payoutID), nil)
}
