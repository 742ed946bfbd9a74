package services

import (
	"errors"
	"time"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

// OrderInput carries the fields needed to place an order. Fee fields
// are optional; tax is derived from whichever are present.
type OrderInput struct {
	ListingID           uint     `json:"listing_id"`
	BorrowerID          uint     `json:"borrower_id"`
	RentalPricePerMonth *float64 `json:"rental_price_per_month"`
	TotalRentalPrice    *float64 `json:"total_rental_price"`
	PlatformFee         *float64 `json:"platform_fee"`
	LogisticsFee        *float64 `json:"logistics_fee"`
	AncillaryServiceFee *float64 `json:"ancillary_service_fee"`
}

// PricingUpdate carries optional pricing field changes for an existing
// order. Nil means "leave unchanged".
type PricingUpdate struct {
	RentalPricePerMonth *float64 `json:"rental_price_per_month"`
	TotalRentalPrice    *float64 `json:"total_rental_price"`
	PlatformFee         *float64 `json:"platform_fee"`
	LogisticsFee        *float64 `json:"logistics_fee"`
	AncillaryServiceFee *float64 `json:"ancillary_service_fee"`
}

// OrderService drives the order status workflow and delivery slot
// scheduling.
type OrderService struct {
	store storage.Store
	now   func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{store: store, now: time.Now}
}

// CreateOrder places a new order in status Confirmed. The borrower
// must exist and may not be the listing's owner.
func (s *OrderService) CreateOrder(input *OrderInput) (*models.Order, error) {
	listing, err := s.store.GetListing(input.ListingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	if _, err := s.store.GetUser(input.BorrowerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if listing.CustomerID == input.BorrowerID {
		return nil, ErrOwnListing
	}

	order := &models.Order{
		ListingID:           input.ListingID,
		BorrowerID:          input.BorrowerID,
		Status:              models.OrderStatusConfirmed,
		RentalPricePerMonth: input.RentalPricePerMonth,
		TotalRentalPrice:    input.TotalRentalPrice,
		PlatformFee:         input.PlatformFee,
		LogisticsFee:        input.LogisticsFee,
		AncillaryServiceFee: input.AncillaryServiceFee,
	}
	order.RecalculateTax()

	return s.store.CreateOrder(order)
}

// UpdatePricing applies pricing field changes and recomputes tax when
// any fee changed.
func (s *OrderService) UpdatePricing(orderID uint, update *PricingUpdate) (*models.Order, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if update.RentalPricePerMonth != nil {
		order.RentalPricePerMonth = update.RentalPricePerMonth
	}
	if update.TotalRentalPrice != nil {
		order.TotalRentalPrice = update.TotalRentalPrice
	}

	feeChanged := false
	if update.PlatformFee != nil {
		order.PlatformFee = update.PlatformFee
		feeChanged = true
	}
	if update.LogisticsFee != nil {
		order.LogisticsFee = update.LogisticsFee
		feeChanged = true
	}
	if update.AncillaryServiceFee != nil {
		order.AncillaryServiceFee = update.AncillaryServiceFee
		feeChanged = true
	}
	if feeChanged {
		order.RecalculateTax()
	}

	if err := s.store.UpdateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves the order to a new workflow state. Transitions not
// in the table are rejected. Moving to KYC Done stamps the KYC fields;
// moving to Payment Made stamps the payment time.
func (s *OrderService) UpdateStatus(orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, ErrInvalidTransition
	}

	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	order.Status = status
	switch status {
	case models.OrderStatusKYCDone:
		now := s.now()
		order.KYCCompletedAt = &now
		order.KYCStatus = true
	case models.OrderStatusPaymentMade:
		now := s.now()
		order.PaymentDatetime = &now
	}

	if err := s.store.UpdateOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ScheduleDeliverySlot books or rebooks the order's single delivery
// window. KYC and payment must be complete, and the slot must be
// strictly in the future.
func (s *OrderService) ScheduleDeliverySlot(orderID uint, slotTime time.Time) (*models.DeliverySlot, error) {
	order, err := s.getOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.KYCStatus || order.PaymentDatetime == nil {
		return nil, ErrPreconditionFailed
	}
	// Rebooking an already scheduled order is fine; anything else must be
	// able to reach Awaiting Logistics, so a delivered order stays put.
	if order.Status != models.OrderStatusAwaitingLogistics &&
		!order.Status.CanTransitionTo(models.OrderStatusAwaitingLogistics) {
		return nil, ErrInvalidTransition
	}
	if !slotTime.After(s.now()) {
		return nil, ErrInvalidSlotTime
	}

	slot, err := s.store.GetDeliverySlotByOrder(orderID)
	switch {
	case err == nil:
		slot.SlotDatetime = slotTime
		slot.Status = models.SlotStatusScheduled
		if err := s.store.UpdateDeliverySlot(slot); err != nil {
			return nil, err
		}
	case errors.Is(err, storage.ErrNotFound):
		slot = &models.DeliverySlot{
			OrderID:      orderID,
			SlotDatetime: slotTime,
			Status:       models.SlotStatusScheduled,
		}
		if slot, err = s.store.CreateDeliverySlot(slot); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	order.Status = models.OrderStatusAwaitingLogistics
	order.LogisticSlot = &slotTime
	if err := s.store.UpdateOrder(order); err != nil {
		return nil, err
	}

	return slot, nil
}

// UpdateDeliverySlotStatus changes a slot's status. Marking a slot
// Completed cascades to the parent order, which becomes Delivered.
func (s *OrderService) UpdateDeliverySlotStatus(slotID uint, status string) (*models.DeliverySlot, error) {
	slot, err := s.store.GetDeliverySlot(slotID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	slot.Status = status
	if err := s.store.UpdateDeliverySlot(slot); err != nil {
		return nil, err
	}

	if status == models.SlotStatusCompleted {
		order, err := s.getOrder(slot.OrderID)
		if err == nil {
			order.Status = models.OrderStatusDelivered
			if err := s.store.UpdateOrder(order); err != nil {
				return nil, err
			}
		}
	}

	return slot, nil
}

func (s *OrderService) getOrder(orderID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
