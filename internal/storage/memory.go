package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lalushbella/p2prental-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local runs.
type MemoryStore struct {
	sessions map[string]*models.OTPSession
	users    map[uint]*models.User
	listings map[uint]*models.Listing
	orders   map[uint]*models.Order
	slots    map[uint]*models.DeliverySlot
	pincodes map[string]*models.PincodeMaster

	mu sync.RWMutex

	// Counters for ID generation
	userCounter    uint
	listingCounter uint
	orderCounter   uint
	slotCounter    uint
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.OTPSession),
		users:    make(map[uint]*models.User),
		listings: make(map[uint]*models.Listing),
		orders:   make(map[uint]*models.Order),
		slots:    make(map[uint]*models.DeliverySlot),
		pincodes: make(map[string]*models.PincodeMaster),
	}
}

// OTP session operations

func (m *MemoryStore) CreateOTPSession(session *models.OTPSession) (*models.OTPSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	cp := *session
	m.sessions[session.SessionID] = &cp
	return session, nil
}

func (m *MemoryStore) GetOTPSession(sessionID string) (*models.OTPSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[sessionID]
	if !exists {
		return nil, fmt.Errorf("otp session: %w", ErrNotFound)
	}
	cp := *session
	return &cp, nil
}

func (m *MemoryStore) UpdateOTPSession(session *models.OTPSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.SessionID]; !exists {
		return fmt.Errorf("otp session: %w", ErrNotFound)
	}
	cp := *session
	m.sessions[session.SessionID] = &cp
	return nil
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.MobileNumber == user.MobileNumber {
			return nil, fmt.Errorf("mobile number: %w", ErrDuplicate)
		}
		if user.Email != "" && u.Email == user.Email {
			return nil, fmt.Errorf("email: %w", ErrDuplicate)
		}
	}

	m.userCounter++
	user.CustomerID = m.userCounter
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.CustomerID] = &cp
	return user, nil
}

func (m *MemoryStore) GetUser(customerID uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[customerID]
	if !exists {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

func (m *MemoryStore) GetUserByMobile(mobile string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.MobileNumber == mobile {
			cp := *user
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.CustomerID]; !exists {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	for id, u := range m.users {
		if id == user.CustomerID {
			continue
		}
		if u.MobileNumber == user.MobileNumber {
			return fmt.Errorf("mobile number: %w", ErrDuplicate)
		}
		if user.Email != "" && u.Email == user.Email {
			return fmt.Errorf("email: %w", ErrDuplicate)
		}
	}
	cp := *user
	m.users[user.CustomerID] = &cp
	return nil
}

// Listing operations

func (m *MemoryStore) CreateListing(listing *models.Listing) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listingCounter++
	listing.ListingID = m.listingCounter
	listing.CreatedAt = time.Now()
	cp := *listing
	m.listings[listing.ListingID] = &cp
	return listing, nil
}

func (m *MemoryStore) GetListing(listingID uint) (*models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	listing, exists := m.listings[listingID]
	if !exists {
		return nil, fmt.Errorf("listing: %w", ErrNotFound)
	}
	cp := *listing
	return &cp, nil
}

func (m *MemoryStore) UpdateListing(listing *models.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.listings[listing.ListingID]; !exists {
		return fmt.Errorf("listing: %w", ErrNotFound)
	}
	cp := *listing
	m.listings[listing.ListingID] = &cp
	return nil
}

func (m *MemoryStore) SearchListings(filter *models.ListingFilter) ([]*models.Listing, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*models.Listing
	for _, l := range m.listings {
		if l.Status != models.ListingStatusActive {
			continue
		}
		if filter.ProductType != "" && l.ProductType != filter.ProductType {
			continue
		}
		if filter.Brand != "" && l.Brand != filter.Brand {
			continue
		}
		if filter.MinPrice > 0 && l.InvoiceValue < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && l.InvoiceValue > filter.MaxPrice {
			continue
		}
		cp := *l
		matched = append(matched, &cp)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ListingID < matched[j].ListingID
	})

	total := int64(len(matched))
	page, perPage := filter.Page, filter.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) GetListingsByUser(customerID uint) ([]*models.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Listing
	for _, l := range m.listings {
		if l.CustomerID == customerID {
			cp := *l
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ListingID < result[j].ListingID
	})
	return result, nil
}

// Order operations

func (m *MemoryStore) CreateOrder(order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orderCounter++
	order.OrderID = m.orderCounter
	order.CreatedAt = time.Now()
	cp := *order
	m.orders[order.OrderID] = &cp
	return order, nil
}

func (m *MemoryStore) GetOrder(orderID uint) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, exists := m.orders[orderID]
	if !exists {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	cp := *order
	return &cp, nil
}

func (m *MemoryStore) UpdateOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.orders[order.OrderID]; !exists {
		return fmt.Errorf("order: %w", ErrNotFound)
	}
	cp := *order
	m.orders[order.OrderID] = &cp
	return nil
}

func (m *MemoryStore) GetOrdersByBorrower(customerID uint) ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Order
	for _, o := range m.orders {
		if o.BorrowerID == customerID {
			cp := *o
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderID < result[j].OrderID
	})
	return result, nil
}

func (m *MemoryStore) GetOrdersByLender(customerID uint) ([]*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.Order
	for _, o := range m.orders {
		listing, exists := m.listings[o.ListingID]
		if exists && listing.CustomerID == customerID {
			cp := *o
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderID < result[j].OrderID
	})
	return result, nil
}

// Delivery slot operations

func (m *MemoryStore) CreateDeliverySlot(slot *models.DeliverySlot) (*models.DeliverySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slotCounter++
	slot.SlotID = m.slotCounter
	slot.CreatedAt = time.Now()
	cp := *slot
	m.slots[slot.SlotID] = &cp
	return slot, nil
}

func (m *MemoryStore) GetDeliverySlot(slotID uint) (*models.DeliverySlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slot, exists := m.slots[slotID]
	if !exists {
		return nil, fmt.Errorf("delivery slot: %w", ErrNotFound)
	}
	cp := *slot
	return &cp, nil
}

func (m *MemoryStore) GetDeliverySlotByOrder(orderID uint) (*models.DeliverySlot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, slot := range m.slots {
		if slot.OrderID == orderID {
			cp := *slot
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("delivery slot: %w", ErrNotFound)
}

func (m *MemoryStore) UpdateDeliverySlot(slot *models.DeliverySlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slots[slot.SlotID]; !exists {
		return fmt.Errorf("delivery slot: %w", ErrNotFound)
	}
	cp := *slot
	m.slots[slot.SlotID] = &cp
	return nil
}

// Pincode reference data

func (m *MemoryStore) GetPincode(pincode string) (*models.PincodeMaster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, exists := m.pincodes[pincode]
	if !exists {
		return nil, fmt.Errorf("pincode: %w", ErrNotFound)
	}
	cp := *row
	return &cp, nil
}

func (m *MemoryStore) UpsertPincodes(rows []*models.PincodeMaster) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range rows {
		cp := *row
		m.pincodes[row.Pincode] = &cp
	}
	return nil
}

func (m *MemoryStore) SearchPincodes(query string, limit int) ([]*models.PincodeMaster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*models.PincodeMaster
	for _, row := range m.pincodes {
		if strings.Contains(row.Pincode, query) ||
			strings.Contains(row.District, query) ||
			strings.Contains(row.StateName, query) {
			cp := *row
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Pincode < result[j].Pincode
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
