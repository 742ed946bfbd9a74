package handlers

import (
	"errors"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

const dateLayout = "2006-01-02"

// ListingHandler handles listing management requests.
type ListingHandler struct {
	store storage.Store
	geo   *services.GeoService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(store storage.Store, geo *services.GeoService) *ListingHandler {
	return &ListingHandler{store: store, geo: geo}
}

type listingRequest struct {
	CustomerID      uint     `json:"customer_id"`
	ProductType     string   `json:"product_type"`
	PurchaseDate    string   `json:"purchase_date"`
	InvoiceValue    float64  `json:"invoice_value"`
	Brand           string   `json:"brand"`
	ModelName       string   `json:"model_name"`
	Images          []string `json:"images"`
	LocationPincode string   `json:"location_pincode"`
	Status          string   `json:"status"`
	LengthCm        float64  `json:"length_cm"`
	WidthCm         float64  `json:"width_cm"`
	HeightCm        float64  `json:"height_cm"`
	WeightKg        float64  `json:"weight_kg"`
}

// CreateListing creates a new listing with dimensions.
func (h *ListingHandler) CreateListing(c *fiber.Ctx) error {
	var req listingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.CustomerID == 0 || req.ProductType == "" || req.PurchaseDate == "" ||
		req.InvoiceValue <= 0 || req.Brand == "" || req.LocationPincode == "" ||
		req.LengthCm <= 0 || req.WidthCm <= 0 || req.HeightCm <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "customer_id, product_type, purchase_date, invoice_value, brand, location_pincode and dimensions are required",
		})
	}

	if !models.IsValidProductType(req.ProductType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown product type",
		})
	}

	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid purchase_date format. Use YYYY-MM-DD",
		})
	}

	if _, err := h.store.GetUser(req.CustomerID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(c, services.ErrUserNotFound)
		}
		return fail(c, err)
	}

	status := req.Status
	if status == "" {
		status = models.ListingStatusActive
	}
	weight := req.WeightKg
	if weight == 0 {
		weight = models.DefaultWeightKg
	}

	listing := &models.Listing{
		CustomerID:      req.CustomerID,
		ProductType:     req.ProductType,
		PurchaseDate:    purchaseDate,
		InvoiceValue:    req.InvoiceValue,
		Brand:           req.Brand,
		ModelName:       req.ModelName,
		Images:          req.Images,
		LocationPincode: req.LocationPincode,
		Status:          status,
		LengthCm:        req.LengthCm,
		WidthCm:         req.WidthCm,
		HeightCm:        req.HeightCm,
		WeightKg:        weight,
	}

	if _, err := h.store.CreateListing(listing); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Listing created successfully",
		"listing_id": listing.ListingID,
	})
}

// GetListing retrieves one listing.
func (h *ListingHandler) GetListing(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listing_id")
	if err != nil || listingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing id",
		})
	}

	listing, err := h.store.GetListing(uint(listingID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(c, services.ErrListingNotFound)
		}
		return fail(c, err)
	}

	return c.JSON(listing)
}

// UpdateListing updates listing fields if provided.
func (h *ListingHandler) UpdateListing(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("listing_id")
	if err != nil || listingID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing id",
		})
	}

	listing, err := h.store.GetListing(uint(listingID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fail(c, services.ErrListingNotFound)
		}
		return fail(c, err)
	}

	var req struct {
		ProductType     *string   `json:"product_type"`
		PurchaseDate    *string   `json:"purchase_date"`
		InvoiceValue    *float64  `json:"invoice_value"`
		Brand           *string   `json:"brand"`
		ModelName       *string   `json:"model_name"`
		Images          *[]string `json:"images"`
		LocationPincode *string   `json:"location_pincode"`
		Status          *string   `json:"status"`
		LengthCm        *float64  `json:"length_cm"`
		WidthCm         *float64  `json:"width_cm"`
		HeightCm        *float64  `json:"height_cm"`
		WeightKg        *float64  `json:"weight_kg"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ProductType != nil {
		if !models.IsValidProductType(*req.ProductType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown product type",
			})
		}
		listing.ProductType = *req.ProductType
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := time.Parse(dateLayout, *req.PurchaseDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid purchase_date format. Use YYYY-MM-DD",
			})
		}
		listing.PurchaseDate = purchaseDate
	}
	if req.InvoiceValue != nil {
		listing.InvoiceValue = *req.InvoiceValue
	}
	if req.Brand != nil {
		listing.Brand = *req.Brand
	}
	if req.ModelName != nil {
		listing.ModelName = *req.ModelName
	}
	if req.Images != nil {
		listing.Images = *req.Images
	}
	if req.LocationPincode != nil {
		listing.LocationPincode = *req.LocationPincode
	}
	if req.Status != nil {
		listing.Status = *req.Status
	}
	if req.LengthCm != nil {
		listing.LengthCm = *req.LengthCm
	}
	if req.WidthCm != nil {
		listing.WidthCm = *req.WidthCm
	}
	if req.HeightCm != nil {
		listing.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		listing.WeightKg = *req.WeightKg
	}

	if err := h.store.UpdateListing(listing); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Listing updated successfully",
		"listing": listing,
	})
}

// SearchListings returns active listings matching borrower-side
// filters, with optional distance annotation and cutoff when a pincode
// is supplied.
func (h *ListingHandler) SearchListings(c *fiber.Ctx) error {
	filter := &models.ListingFilter{
		ProductType: c.Query("product_type"),
		Brand:       c.Query("brand"),
		MinPrice:    c.QueryFloat("min_price"),
		MaxPrice:    c.QueryFloat("max_price"),
		Page:        c.QueryInt("page", 1),
		PerPage:     c.QueryInt("per_page", 10),
	}

	listings, total, err := h.store.SearchListings(filter)
	if err != nil {
		return fail(c, err)
	}

	pincode := c.Query("pincode")
	maxDistance := c.QueryFloat("distance")

	type listingWithDistance struct {
		*models.Listing
		DistanceKm *float64 `json:"distance_km,omitempty"`
	}

	results := make([]listingWithDistance, 0, len(listings))
	for _, l := range listings {
		entry := listingWithDistance{Listing: l}
		if pincode != "" {
			if km, err := h.geo.DistanceBetweenPincodes(pincode, l.LocationPincode); err == nil {
				rounded := math.Round(km*100) / 100
				entry.DistanceKm = &rounded
				if maxDistance > 0 && km > maxDistance {
					continue
				}
			}
		}
		results = append(results, entry)
	}

	perPage := filter.PerPage
	if perPage < 1 {
		perPage = 10
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)

	return c.JSON(fiber.Map{
		"listings": results,
		"total":    total,
		"pages":    pages,
		"page":     filter.Page,
		"per_page": perPage,
	})
}
