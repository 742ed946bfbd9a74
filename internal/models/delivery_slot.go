package models

import "time"

// Delivery slot status values.
const (
	SlotStatusScheduled = "Scheduled"
	SlotStatusCompleted = "Completed"
	SlotStatusCancelled = "Cancelled"
)

// DeliverySlot is the single scheduled delivery window for an order.
// The slot time must be strictly in the future at create or update
// time.
type DeliverySlot struct {
	SlotID       uint      `json:"slot_id" gorm:"primaryKey;autoIncrement"`
	OrderID      uint      `json:"order_id" gorm:"uniqueIndex;not null"`
	SlotDatetime time.Time `json:"slot_datetime" gorm:"not null"`
	Status       string    `json:"status" gorm:"size:16;default:Scheduled"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsValidSlotStatus reports whether s names a known slot status.
func IsValidSlotStatus(s string) bool {
	return s == SlotStatusScheduled || s == SlotStatusCompleted || s == SlotStatusCancelled
}
