package models

import (
	"math"
	"time"
)

// OrderStatus is the order workflow state.
type OrderStatus string

const (
	OrderStatusConfirmed         OrderStatus = "Confirmed"
	OrderStatusPaymentMade       OrderStatus = "Payment Made"
	OrderStatusKYCDone           OrderStatus = "KYC Done"
	OrderStatusAwaitingLogistics OrderStatus = "Awaiting Logistics"
	OrderStatusDelivered         OrderStatus = "Delivered"
)

// TaxRate applied to the sum of platform, logistics and ancillary fees.
const TaxRate = 0.18

// orderTransitions is the allowed status transition table. Payment and
// KYC may complete in either sequence; logistics requires both, and
// Delivered is terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusConfirmed:         {OrderStatusPaymentMade, OrderStatusKYCDone},
	OrderStatusPaymentMade:       {OrderStatusKYCDone, OrderStatusAwaitingLogistics},
	OrderStatusKYCDone:           {OrderStatusPaymentMade, OrderStatusAwaitingLogistics},
	OrderStatusAwaitingLogistics: {OrderStatusDelivered},
	OrderStatusDelivered:         {},
}

// IsValidOrderStatus reports whether s names a known workflow state.
func IsValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition from -> to is allowed.
func (from OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a rental order placed by a borrower against a listing.
type Order struct {
	OrderID             uint        `json:"order_id" gorm:"primaryKey;autoIncrement"`
	ListingID           uint        `json:"listing_id" gorm:"not null;index"`
	BorrowerID          uint        `json:"borrower_id" gorm:"not null;index"`
	Status              OrderStatus `json:"status" gorm:"size:32"`
	RentalPricePerMonth *float64    `json:"rental_price_per_month"`
	TotalRentalPrice    *float64    `json:"total_rental_price"`
	PlatformFee         *float64    `json:"platform_fee"`
	LogisticsFee        *float64    `json:"logistics_fee"`
	AncillaryServiceFee *float64    `json:"ancillary_service_fee"`
	Tax                 *float64    `json:"tax"`
	KYCCompletedAt      *time.Time  `json:"kyc_completed_at"`
	KYCStatus           bool        `json:"kyc_status" gorm:"default:false"`
	PaymentDatetime     *time.Time  `json:"payment_datetime"`
	LogisticSlot        *time.Time  `json:"logistic_slot"`
	CreatedAt           time.Time   `json:"created_at"`
}

// RecalculateTax recomputes Tax as 18% of the three fees summed, with
// unset fees counting as zero. Call whenever any fee field changes.
func (o *Order) RecalculateTax() {
	total := feeOrZero(o.PlatformFee) + feeOrZero(o.LogisticsFee) + feeOrZero(o.AncillaryServiceFee)
	tax := math.Round(total*TaxRate*100) / 100
	o.Tax = &tax
}

func feeOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
