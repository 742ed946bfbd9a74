package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/services"
)

var errInvalidCustomerID = errors.New("Invalid customer id")

// statusFor maps domain errors onto HTTP status codes. Anything
// unrecognized is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrSlotNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrPincodeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateMobile),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrAlreadyVerified):
		return fiber.StatusConflict
	case errors.Is(err, errInvalidCustomerID),
		errors.Is(err, services.ErrWrongSessionKind),
		errors.Is(err, services.ErrOwnListing),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrPreconditionFailed),
		errors.Is(err, services.ErrInvalidSlotTime):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrInvalidCode):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes the standard error body. Internal errors are masked so
// persistence detail never leaks to the caller.
func fail(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == fiber.StatusInternalServerError {
		message = "internal server error"
	}
	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
