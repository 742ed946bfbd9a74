package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/utils"
)

// AuthHandler handles OTP-gated login and registration.
type AuthHandler struct {
	otp       *services.OTPService
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(otp *services.OTPService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		otp:       otp,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RequestLoginOTP issues a login OTP for an existing user.
func (h *AuthHandler) RequestLoginOTP(c *fiber.Ctx) error {
	var req struct {
		MobileNumber string `json:"mobile_number"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.MobileNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Mobile number is required",
		})
	}

	session, receipt, err := h.otp.IssueLogin(req.MobileNumber)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			// Signal the caller to register instead.
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message":     "User not found. Please register first.",
				"is_new_user": true,
			})
		}
		return fail(c, err)
	}

	log.Printf("login OTP generated for mobile: %s", req.MobileNumber)

	return c.JSON(fiber.Map{
		"message":          "OTP sent successfully",
		"session_id":       session.SessionID,
		"is_new_user":      false,
		"delivery_methods": receipt,
	})
}

// RequestRegisterOTP issues a registration OTP for a new mobile/email
// pair.
func (h *AuthHandler) RequestRegisterOTP(c *fiber.Ctx) error {
	var req struct {
		MobileNumber string `json:"mobile_number"`
		Email        string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.MobileNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Mobile number is required",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required for registration",
		})
	}

	session, receipt, err := h.otp.IssueRegister(req.MobileNumber, req.Email)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("registration OTP generated for mobile: %s", req.MobileNumber)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":          "OTP sent successfully",
		"session_id":       session.SessionID,
		"is_new_user":      true,
		"delivery_methods": receipt,
	})
}

// VerifyLoginOTP completes a login session.
func (h *AuthHandler) VerifyLoginOTP(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
		OTP       string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SessionID == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID and OTP are required",
		})
	}

	user, err := h.otp.Verify(req.SessionID, req.OTP, models.OTPActionLogin, nil)
	if err != nil {
		return fail(c, err)
	}

	token, err := utils.GenerateToken(h.jwtSecret, user.CustomerID, user.MobileNumber, h.tokenTTL)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "Login successful",
		"customer_id": user.CustomerID,
		"name":        user.Name,
		"email":       user.Email,
		"kyc_status":  user.KYCStatus,
		"token":       token,
	})
}

// VerifyRegisterOTP completes a register session and creates the user.
func (h *AuthHandler) VerifyRegisterOTP(c *fiber.Ctx) error {
	var req struct {
		SessionID string           `json:"session_id"`
		OTP       string           `json:"otp"`
		Name      string           `json:"name"`
		Addresses []models.Address `json:"addresses"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SessionID == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID and OTP are required",
		})
	}

	details := &services.RegistrationDetails{
		Name:      req.Name,
		Addresses: req.Addresses,
	}
	user, err := h.otp.Verify(req.SessionID, req.OTP, models.OTPActionRegister, details)
	if err != nil {
		return fail(c, err)
	}

	token, err := utils.GenerateToken(h.jwtSecret, user.CustomerID, user.MobileNumber, h.tokenTTL)
	if err != nil {
		return fail(c, err)
	}

	log.Printf("new user registered with mobile: %s", user.MobileNumber)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Registration successful",
		"customer_id": user.CustomerID,
		"name":        user.Name,
		"email":       user.Email,
		"kyc_status":  user.KYCStatus,
		"token":       token,
	})
}

// ResendOTP replaces the session's code and redispatches it.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session ID is required",
		})
	}

	session, receipt, err := h.otp.Resend(req.SessionID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":          "OTP resent successfully",
		"session_id":       session.SessionID,
		"delivery_methods": receipt,
	})
}
