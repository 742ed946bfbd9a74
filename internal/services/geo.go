package services

import (
	"errors"
	"math"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

const earthRadiusKm = 6371.0

// GeoService resolves postal codes to coordinates and computes
// great-circle distances between them.
type GeoService struct {
	store storage.Store
}

// NewGeoService creates a new geo service.
func NewGeoService(store storage.Store) *GeoService {
	return &GeoService{store: store}
}

// DistanceBetweenPincodes returns the great-circle distance in km
// between the two postal codes. Fails with ErrPincodeNotFound when
// either code is missing from the reference table.
func (g *GeoService) DistanceBetweenPincodes(pincode1, pincode2 string) (float64, error) {
	loc1, err := g.lookup(pincode1)
	if err != nil {
		return 0, err
	}
	loc2, err := g.lookup(pincode2)
	if err != nil {
		return 0, err
	}

	return haversineKm(loc1.Latitude, loc1.Longitude, loc2.Latitude, loc2.Longitude), nil
}

func (g *GeoService) lookup(pincode string) (*models.PincodeMaster, error) {
	row, err := g.store.GetPincode(pincode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrPincodeNotFound
		}
		return nil, err
	}
	return row, nil
}

// haversineKm computes the great-circle distance between two lat/lon
// pairs in kilometers.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
