package storage

import (
	"errors"

	"github.com/lalushbella/p2prental-backend/internal/models"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Implementations wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint (mobile number,
// email) would be violated.
var ErrDuplicate = errors.New("duplicate record")

var storeInstance Store

// SetStore sets the global store instance (call from main.go).
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance.
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations.
type Store interface {
	// OTP session operations
	CreateOTPSession(session *models.OTPSession) (*models.OTPSession, error)
	GetOTPSession(sessionID string) (*models.OTPSession, error)
	UpdateOTPSession(session *models.OTPSession) error

	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUser(customerID uint) (*models.User, error)
	GetUserByMobile(mobile string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error

	// Listing operations
	CreateListing(listing *models.Listing) (*models.Listing, error)
	GetListing(listingID uint) (*models.Listing, error)
	UpdateListing(listing *models.Listing) error
	SearchListings(filter *models.ListingFilter) ([]*models.Listing, int64, error)
	GetListingsByUser(customerID uint) ([]*models.Listing, error)

	// Order operations
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(orderID uint) (*models.Order, error)
	UpdateOrder(order *models.Order) error
	GetOrdersByBorrower(customerID uint) ([]*models.Order, error)
	GetOrdersByLender(customerID uint) ([]*models.Order, error)

	// Delivery slot operations
	CreateDeliverySlot(slot *models.DeliverySlot) (*models.DeliverySlot, error)
	GetDeliverySlot(slotID uint) (*models.DeliverySlot, error)
	GetDeliverySlotByOrder(orderID uint) (*models.DeliverySlot, error)
	UpdateDeliverySlot(slot *models.DeliverySlot) error

	// Pincode reference data
	GetPincode(pincode string) (*models.PincodeMaster, error)
	UpsertPincodes(rows []*models.PincodeMaster) error
	SearchPincodes(query string, limit int) ([]*models.PincodeMaster, error)
}
