package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

// UserHandler handles user profile requests.
type UserHandler struct {
	store storage.Store
}

// NewUserHandler creates a new user handler.
func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

func (h *UserHandler) getUser(c *fiber.Ctx) (*models.User, error) {
	customerID, err := c.ParamsInt("customer_id")
	if err != nil || customerID <= 0 {
		return nil, errInvalidCustomerID
	}

	user, err := h.store.GetUser(uint(customerID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUser retrieves a user profile.
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.getUser(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpdateUser updates the mutable profile fields.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	user, err := h.getUser(c)
	if err != nil {
		return fail(c, err)
	}

	var req models.UserUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Addresses != nil {
		user.Addresses = *req.Addresses
	}
	if req.KYCStatus != nil {
		user.KYCStatus = *req.KYCStatus
	}

	if err := h.store.UpdateUser(user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return fail(c, services.ErrDuplicateEmail)
		}
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// GetUserListings returns all listings created by a user (lender
// dashboard).
func (h *UserHandler) GetUserListings(c *fiber.Ctx) error {
	user, err := h.getUser(c)
	if err != nil {
		return fail(c, err)
	}

	listings, err := h.store.GetListingsByUser(user.CustomerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"customer_id": user.CustomerID,
		"listings":    listings,
		"count":       len(listings),
	})
}

// GetUserOrders returns a user's orders on both sides of the market.
func (h *UserHandler) GetUserOrders(c *fiber.Ctx) error {
	user, err := h.getUser(c)
	if err != nil {
		return fail(c, err)
	}

	borrowed, err := h.store.GetOrdersByBorrower(user.CustomerID)
	if err != nil {
		return fail(c, err)
	}
	lent, err := h.store.GetOrdersByLender(user.CustomerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"customer_id":     user.CustomerID,
		"borrowed_orders": borrowed,
		"lent_orders":     lent,
		"total_orders":    len(borrowed) + len(lent),
	})
}
