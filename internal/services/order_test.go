package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

func f(v float64) *float64 { return &v }

func newTestOrderService(t *testing.T) (*OrderService, *storage.MemoryStore, *models.Listing, *models.User) {
	t.Helper()
	store := storage.NewMemoryStore()

	lender, err := store.CreateUser(&models.User{MobileNumber: "+911111111111", Email: "lender@example.com"})
	require.NoError(t, err)
	borrower, err := store.CreateUser(&models.User{MobileNumber: "+912222222222", Email: "borrower@example.com"})
	require.NoError(t, err)

	listing, err := store.CreateListing(&models.Listing{
		CustomerID:      lender.CustomerID,
		ProductType:     models.ProductSofa,
		PurchaseDate:    time.Now().AddDate(-1, 0, 0),
		InvoiceValue:    30000,
		Brand:           "Urban Ladder",
		LocationPincode: "560001",
		Status:          models.ListingStatusActive,
		LengthCm:        180,
		WidthCm:         90,
		HeightCm:        80,
		WeightKg:        60,
	})
	require.NoError(t, err)

	return NewOrderService(store), store, listing, borrower
}

func TestCreateOrderComputesTax(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{
		ListingID:           listing.ListingID,
		BorrowerID:          borrower.CustomerID,
		PlatformFee:         f(100),
		LogisticsFee:        f(50),
		AncillaryServiceFee: f(25),
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.NotNil(t, order.Tax)
	assert.Equal(t, 31.50, *order.Tax)
}

func TestCreateOrderTaxTreatsUnsetFeesAsZero(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{
		ListingID:    listing.ListingID,
		BorrowerID:   borrower.CustomerID,
		PlatformFee:  f(200),
		LogisticsFee: nil,
	})
	require.NoError(t, err)

	require.NotNil(t, order.Tax)
	assert.Equal(t, 36.00, *order.Tax)
}

func TestCreateOrderRejectsOwnListing(t *testing.T) {
	svc, _, listing, _ := newTestOrderService(t)

	_, err := svc.CreateOrder(&OrderInput{
		ListingID:  listing.ListingID,
		BorrowerID: listing.CustomerID,
	})
	assert.ErrorIs(t, err, ErrOwnListing)
}

func TestCreateOrderMissingReferences(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	_, err := svc.CreateOrder(&OrderInput{ListingID: 999, BorrowerID: borrower.CustomerID})
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: 999})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePricingRecomputesTax(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{
		ListingID:   listing.ListingID,
		BorrowerID:  borrower.CustomerID,
		PlatformFee: f(100),
	})
	require.NoError(t, err)

	updated, err := svc.UpdatePricing(order.OrderID, &PricingUpdate{
		LogisticsFee:        f(50),
		AncillaryServiceFee: f(25),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Tax)
	assert.Equal(t, 31.50, *updated.Tax)
}

func TestUpdatePricingWithoutFeeChangeKeepsTax(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{
		ListingID:   listing.ListingID,
		BorrowerID:  borrower.CustomerID,
		PlatformFee: f(100),
	})
	require.NoError(t, err)
	originalTax := *order.Tax

	updated, err := svc.UpdatePricing(order.OrderID, &PricingUpdate{
		RentalPricePerMonth: f(950),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.Tax)
	assert.Equal(t, originalTax, *updated.Tax)
}

func TestUpdateStatusStampsPaymentAndKYC(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)

	order, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	require.NotNil(t, order.PaymentDatetime)
	assert.Equal(t, now, *order.PaymentDatetime)
	assert.False(t, order.KYCStatus)

	order, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)
	assert.True(t, order.KYCStatus)
	require.NotNil(t, order.KYCCompletedAt)
	assert.Equal(t, now, *order.KYCCompletedAt)
}

func TestUpdateStatusRejectsUnknownAndOffTableTransitions(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(order.OrderID, "Shipped")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Confirmed cannot jump straight to Delivered.
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestScheduleDeliverySlotRequiresKYCAndPayment(t *testing.T) {
	svc, store, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)

	_, err = svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(48*time.Hour))
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// Order and slot state are untouched on the failure path.
	after, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, after.Status)
	assert.Nil(t, after.LogisticSlot)

	_, err = store.GetDeliverySlotByOrder(order.OrderID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestScheduleDeliverySlotRejectsPastSlot(t *testing.T) {
	svc, _, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)

	_, err = svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidSlotTime)
}

func TestScheduleDeliverySlotUpsertsAndMovesOrder(t *testing.T) {
	svc, store, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)

	first := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	slot, err := svc.ScheduleDeliverySlot(order.OrderID, first)
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusScheduled, slot.Status)

	after, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingLogistics, after.Status)
	require.NotNil(t, after.LogisticSlot)
	assert.Equal(t, first, *after.LogisticSlot)

	// Rescheduling reuses the order's single slot.
	second := first.Add(24 * time.Hour)
	rescheduled, err := svc.ScheduleDeliverySlot(order.OrderID, second)
	require.NoError(t, err)
	assert.Equal(t, slot.SlotID, rescheduled.SlotID)
	assert.Equal(t, second, rescheduled.SlotDatetime)
}

func TestCompletedSlotCascadesToDelivered(t *testing.T) {
	svc, store, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)

	slot, err := svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	updated, err := svc.UpdateDeliverySlotStatus(slot.SlotID, models.SlotStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusCompleted, updated.Status)

	after, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, after.Status)
}

func TestScheduleDeliverySlotRejectsDeliveredOrder(t *testing.T) {
	svc, store, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)

	slot, err := svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	_, err = svc.UpdateDeliverySlotStatus(slot.SlotID, models.SlotStatusCompleted)
	require.NoError(t, err)

	// Delivered is terminal; a new slot may not reopen the order.
	_, err = svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(48*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	after, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, after.Status)
}

func TestCancelledSlotDoesNotTouchOrder(t *testing.T) {
	svc, store, listing, borrower := newTestOrderService(t)

	order, err := svc.CreateOrder(&OrderInput{ListingID: listing.ListingID, BorrowerID: borrower.CustomerID})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusPaymentMade)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.OrderID, models.OrderStatusKYCDone)
	require.NoError(t, err)

	slot, err := svc.ScheduleDeliverySlot(order.OrderID, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	_, err = svc.UpdateDeliverySlotStatus(slot.SlotID, models.SlotStatusCancelled)
	require.NoError(t, err)

	after, err := store.GetOrder(order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingLogistics, after.Status)
}
