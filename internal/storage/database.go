package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lalushbella/p2prental-backend/internal/models"
)

// DatabaseStore implements Store on top of gorm/PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given gorm connection.
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// translate maps gorm errors onto the storage sentinels.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", entity, ErrDuplicate)
	default:
		return err
	}
}

// OTP session operations

func (d *DatabaseStore) CreateOTPSession(session *models.OTPSession) (*models.OTPSession, error) {
	if err := d.db.Create(session).Error; err != nil {
		return nil, translate(err, "otp session")
	}
	return session, nil
}

func (d *DatabaseStore) GetOTPSession(sessionID string) (*models.OTPSession, error) {
	var session models.OTPSession
	if err := d.db.First(&session, "session_id = ?", sessionID).Error; err != nil {
		return nil, translate(err, "otp session")
	}
	return &session, nil
}

func (d *DatabaseStore) UpdateOTPSession(session *models.OTPSession) error {
	return translate(d.db.Save(session).Error, "otp session")
}

// User operations

func (d *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := d.db.Create(user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (d *DatabaseStore) GetUser(customerID uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "customer_id = ?", customerID).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByMobile(mobile string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "mobile_number = ?", mobile).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (d *DatabaseStore) UpdateUser(user *models.User) error {
	return translate(d.db.Save(user).Error, "user")
}

// Listing operations

func (d *DatabaseStore) CreateListing(listing *models.Listing) (*models.Listing, error) {
	if err := d.db.Create(listing).Error; err != nil {
		return nil, translate(err, "listing")
	}
	return listing, nil
}

func (d *DatabaseStore) GetListing(listingID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := d.db.First(&listing, "listing_id = ?", listingID).Error; err != nil {
		return nil, translate(err, "listing")
	}
	return &listing, nil
}

func (d *DatabaseStore) UpdateListing(listing *models.Listing) error {
	return translate(d.db.Save(listing).Error, "listing")
}

func (d *DatabaseStore) SearchListings(filter *models.ListingFilter) ([]*models.Listing, int64, error) {
	query := d.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive)

	if filter.ProductType != "" {
		query = query.Where("product_type = ?", filter.ProductType)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice > 0 {
		query = query.Where("invoice_value >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("invoice_value <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var listings []*models.Listing
	err := query.Order("listing_id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

func (d *DatabaseStore) GetListingsByUser(customerID uint) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := d.db.Where("customer_id = ?", customerID).Order("listing_id").Find(&listings).Error
	return listings, err
}

// Order operations

func (d *DatabaseStore) CreateOrder(order *models.Order) (*models.Order, error) {
	if err := d.db.Create(order).Error; err != nil {
		return nil, translate(err, "order")
	}
	return order, nil
}

func (d *DatabaseStore) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := d.db.First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (d *DatabaseStore) UpdateOrder(order *models.Order) error {
	return translate(d.db.Save(order).Error, "order")
}

func (d *DatabaseStore) GetOrdersByBorrower(customerID uint) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Where("borrower_id = ?", customerID).Order("order_id").Find(&orders).Error
	return orders, err
}

func (d *DatabaseStore) GetOrdersByLender(customerID uint) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.
		Joins("JOIN listings ON listings.listing_id = orders.listing_id").
		Where("listings.customer_id = ?", customerID).
		Order("orders.order_id").
		Find(&orders).Error
	return orders, err
}

// Delivery slot operations

func (d *DatabaseStore) CreateDeliverySlot(slot *models.DeliverySlot) (*models.DeliverySlot, error) {
	if err := d.db.Create(slot).Error; err != nil {
		return nil, translate(err, "delivery slot")
	}
	return slot, nil
}

func (d *DatabaseStore) GetDeliverySlot(slotID uint) (*models.DeliverySlot, error) {
	var slot models.DeliverySlot
	if err := d.db.First(&slot, "slot_id = ?", slotID).Error; err != nil {
		return nil, translate(err, "delivery slot")
	}
	return &slot, nil
}

func (d *DatabaseStore) GetDeliverySlotByOrder(orderID uint) (*models.DeliverySlot, error) {
	var slot models.DeliverySlot
	if err := d.db.First(&slot, "order_id = ?", orderID).Error; err != nil {
		return nil, translate(err, "delivery slot")
	}
	return &slot, nil
}

func (d *DatabaseStore) UpdateDeliverySlot(slot *models.DeliverySlot) error {
	return translate(d.db.Save(slot).Error, "delivery slot")
}

// Pincode reference data

func (d *DatabaseStore) GetPincode(pincode string) (*models.PincodeMaster, error) {
	var row models.PincodeMaster
	if err := d.db.First(&row, "pincode = ?", pincode).Error; err != nil {
		return nil, translate(err, "pincode")
	}
	return &row, nil
}

func (d *DatabaseStore) UpsertPincodes(rows []*models.PincodeMaster) error {
	if len(rows) == 0 {
		return nil
	}
	// Update-in-place semantics keyed by pincode, one transaction per batch.
	return d.db.Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Save(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *DatabaseStore) SearchPincodes(query string, limit int) ([]*models.PincodeMaster, error) {
	like := "%" + query + "%"
	var rows []*models.PincodeMaster
	err := d.db.
		Where("pincode LIKE ? OR district LIKE ? OR state_name LIKE ?", like, like, like).
		Order("pincode").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
