package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lalushbella/p2prental-backend/internal/services"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

// PincodeHandler handles the postal-code reference data.
type PincodeHandler struct {
	store storage.Store
}

// NewPincodeHandler creates a new pincode handler.
func NewPincodeHandler(store storage.Store) *PincodeHandler {
	return &PincodeHandler{store: store}
}

// ImportPincodeData bulk-upserts pincode records from an uploaded CSV.
func (h *PincodeHandler) ImportPincodeData(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file part",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not read uploaded file",
		})
	}
	defer file.Close()

	count, err := services.ImportPincodeCSV(h.store, file)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"message":           "Pincode data imported successfully",
		"records_processed": count,
	})
}

// SearchPincodes matches pincodes by code, district or state.
func (h *PincodeHandler) SearchPincodes(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit", 10)

	pincodes, err := h.store.SearchPincodes(query, limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"pincodes": pincodes,
		"count":    len(pincodes),
	})
}
