package models

import "time"

// Product categories a listing may belong to.
const (
	ProductAC           = "AC"
	ProductTV           = "TV"
	ProductRefrigerator = "Refrigerator"
	ProductMicrowave    = "Microwave"
	ProductBed          = "Bed"
	ProductSofa         = "Sofa"
	ProductTable        = "Table"
	ProductChair        = "Chair"
	ProductPlayStation  = "PlayStation"
)

// Listing status values.
const (
	ListingStatusActive   = "Active"
	ListingStatusDraft    = "Draft"
	ListingStatusInactive = "Inactive"
)

// DefaultWeightKg is assumed when a listing is created without a weight.
const DefaultWeightKg = 100

// Listing is an item offered for rent, owned exclusively by the user
// who created it.
type Listing struct {
	ListingID       uint      `json:"listing_id" gorm:"primaryKey;autoIncrement"`
	CustomerID      uint      `json:"customer_id" gorm:"not null;index"`
	ProductType     string    `json:"product_type" gorm:"size:32;not null"`
	PurchaseDate    time.Time `json:"purchase_date" gorm:"not null"`
	InvoiceValue    float64   `json:"invoice_value" gorm:"not null"`
	Brand           string    `json:"brand" gorm:"size:100;not null"`
	ModelName       string    `json:"model_name" gorm:"size:100"`
	Images          []string  `json:"images" gorm:"serializer:json"`
	LocationPincode string    `json:"location_pincode" gorm:"size:10;not null"`
	Status          string    `json:"status" gorm:"size:16"`
	LengthCm        float64   `json:"length_cm" gorm:"not null"`
	WidthCm         float64   `json:"width_cm" gorm:"not null"`
	HeightCm        float64   `json:"height_cm" gorm:"not null"`
	WeightKg        float64   `json:"weight_kg" gorm:"default:100"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsValidProductType reports whether t is one of the closed product
// categories.
func IsValidProductType(t string) bool {
	switch t {
	case ProductAC, ProductTV, ProductRefrigerator, ProductMicrowave,
		ProductBed, ProductSofa, ProductTable, ProductChair, ProductPlayStation:
		return true
	}
	return false
}

// ListingFilter carries borrower-side search parameters.
type ListingFilter struct {
	ProductType string
	Brand       string
	MinPrice    float64
	MaxPrice    float64
	Page        int
	PerPage     int
}
