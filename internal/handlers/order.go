package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

const datetimeLayout = "2006-01-02 15:04:05"

// OrderHandler handles order lifecycle and delivery slot requests.
type OrderHandler struct {
	store  storage.Store
	orders *services.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(store storage.Store, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{store: store, orders: orders}
}

// CreateOrder places a new order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req services.OrderInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.ListingID == 0 || req.BorrowerID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Listing ID and borrower ID are required",
		})
	}

	order, err := h.orders.CreateOrder(&req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order created successfully",
		"order_id": order.OrderID,
	})
}

// GetOrder retrieves one order.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("order_id")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}

	order, err := h.store.GetOrder(uint(orderID))
	if err != nil {
		return fail(c, services.ErrOrderNotFound)
	}

	return c.JSON(order)
}

// UpdateOrder updates an order's pricing fields, recomputing tax when
// any fee changes.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("order_id")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}

	var req services.PricingUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := h.orders.UpdatePricing(uint(orderID), &req)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order updated successfully",
		"order":   order,
	})
}

// UpdateOrderStatus moves an order through the status workflow.
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		OrderID uint   `json:"order_id"`
		Status  string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.OrderID == 0 || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID and status are required",
		})
	}

	order, err := h.orders.UpdateStatus(req.OrderID, models.OrderStatus(req.Status))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"order":   order,
	})
}

// ScheduleDeliverySlot books the order's delivery window.
func (h *OrderHandler) ScheduleDeliverySlot(c *fiber.Ctx) error {
	var req struct {
		OrderID      uint   `json:"order_id"`
		SlotDatetime string `json:"slot_datetime"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.OrderID == 0 || req.SlotDatetime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order ID and slot datetime are required",
		})
	}

	slotTime, err := time.Parse(datetimeLayout, req.SlotDatetime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid datetime format. Use YYYY-MM-DD HH:MM:SS",
		})
	}

	slot, err := h.orders.ScheduleDeliverySlot(req.OrderID, slotTime)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Delivery slot scheduled successfully",
		"order_id":      req.OrderID,
		"slot_datetime": slot.SlotDatetime.Format(datetimeLayout),
		"status":        slot.Status,
	})
}

// GetDeliverySlot returns the delivery slot for an order.
func (h *OrderHandler) GetDeliverySlot(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("order_id")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}

	slot, err := h.store.GetDeliverySlotByOrder(uint(orderID))
	if err != nil {
		return fail(c, services.ErrSlotNotFound)
	}

	return c.JSON(slot)
}

// UpdateDeliverySlot changes a slot's status; completing a slot marks
// the parent order Delivered.
func (h *OrderHandler) UpdateDeliverySlot(c *fiber.Ctx) error {
	var req struct {
		SlotID uint   `json:"slot_id"`
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.SlotID == 0 || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Slot ID and status are required",
		})
	}
	if !models.IsValidSlotStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown slot status",
		})
	}

	slot, err := h.orders.UpdateDeliverySlotStatus(req.SlotID, req.Status)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Delivery slot status updated successfully",
		"slot_id": slot.SlotID,
		"status":  slot.Status,
	})
}
