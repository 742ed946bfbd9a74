package handlers

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

// PricingHandler handles rent, distance and logistics-cost estimation.
type PricingHandler struct {
	store  storage.Store
	geo    *services.GeoService
	vision *services.VisionClient
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(store storage.Store, geo *services.GeoService, vision *services.VisionClient) *PricingHandler {
	return &PricingHandler{store: store, geo: geo, vision: vision}
}

// CalculateDistance returns the distance between two pincodes.
func (h *PricingHandler) CalculateDistance(c *fiber.Ctx) error {
	pincode1 := c.Query("pincode1")
	pincode2 := c.Query("pincode2")
	if pincode1 == "" || pincode2 == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Both pincodes are required",
		})
	}

	distance, err := h.geo.DistanceBetweenPincodes(pincode1, pincode2)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"pincode1":    pincode1,
		"pincode2":    pincode2,
		"distance_km": math.Round(distance*100) / 100,
	})
}

// CalculateLogisticsCost estimates the delivery cost either from a
// listing and the borrower's pincode, or from a raw distance plus
// dimensions.
func (h *PricingHandler) CalculateLogisticsCost(c *fiber.Ctx) error {
	var req struct {
		ListingID       uint     `json:"listing_id"`
		BorrowerPincode string   `json:"borrower_pincode"`
		DistanceKm      *float64 `json:"distance_km"`
		LengthCm        *float64 `json:"length_cm"`
		WidthCm         *float64 `json:"width_cm"`
		HeightCm        *float64 `json:"height_cm"`
		WeightKg        *float64 `json:"weight_kg"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	switch {
	case req.ListingID != 0 && req.BorrowerPincode != "":
		listing, err := h.store.GetListing(req.ListingID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fail(c, services.ErrListingNotFound)
			}
			return fail(c, err)
		}

		distance, err := h.geo.DistanceBetweenPincodes(listing.LocationPincode, req.BorrowerPincode)
		if err != nil {
			return fail(c, err)
		}

		cost := services.EstimateLogisticsCost(distance,
			listing.LengthCm, listing.WidthCm, listing.HeightCm, listing.WeightKg)

		return c.JSON(fiber.Map{
			"listing_id":       listing.ListingID,
			"borrower_pincode": req.BorrowerPincode,
			"lender_pincode":   listing.LocationPincode,
			"distance_km":      math.Round(distance*100) / 100,
			"logistics_cost":   cost,
		})

	case req.DistanceKm != nil && req.LengthCm != nil && req.WidthCm != nil && req.HeightCm != nil:
		weight := 100.0
		if req.WeightKg != nil {
			weight = *req.WeightKg
		}
		cost := services.EstimateLogisticsCost(*req.DistanceKm,
			*req.LengthCm, *req.WidthCm, *req.HeightCm, weight)

		return c.JSON(fiber.Map{
			"distance_km":    *req.DistanceKm,
			"logistics_cost": cost,
		})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Provide either listing_id and borrower_pincode OR distance_km and dimensions",
		})
	}
}

// CalculateRent estimates a monthly rent, optionally conditioned on a
// vision assessment of a photo.
func (h *PricingHandler) CalculateRent(c *fiber.Ctx) error {
	var req struct {
		InvoiceValue float64 `json:"invoice_value"`
		PurchaseDate string  `json:"purchase_date"`
		ImageURL     string  `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.InvoiceValue <= 0 || req.PurchaseDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: invoice_value and purchase_date are required",
		})
	}

	purchaseDate, err := time.Parse(dateLayout, req.PurchaseDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid purchase_date format. Use YYYY-MM-DD",
		})
	}

	var cond *services.Condition
	if req.ImageURL != "" {
		log.Printf("analyzing image: %s", req.ImageURL)
		assessed := h.vision.AnalyzeImage(req.ImageURL)
		cond = &assessed
	}

	rent := services.EstimateMonthlyRent(req.InvoiceValue, purchaseDate, cond)

	response := fiber.Map{
		"monthly_rent":  rent,
		"invoice_value": req.InvoiceValue,
		"age_in_months": services.AgeInMonths(purchaseDate, time.Now()),
	}
	if cond != nil {
		response["condition_details"] = cond
	}

	return c.JSON(response)
}
