package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

func newTestGeoService(t *testing.T, rows ...*models.PincodeMaster) *GeoService {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.UpsertPincodes(rows))
	return NewGeoService(store)
}

func TestDistanceBetweenPincodesDelhiMumbai(t *testing.T) {
	svc := newTestGeoService(t,
		&models.PincodeMaster{Pincode: "110001", Latitude: 28.7041, Longitude: 77.1025, District: "New Delhi", StateName: "Delhi"},
		&models.PincodeMaster{Pincode: "400001", Latitude: 19.0760, Longitude: 72.8777, District: "Mumbai", StateName: "Maharashtra"},
	)

	km, err := svc.DistanceBetweenPincodes("110001", "400001")
	require.NoError(t, err)
	assert.InDelta(t, 1153, km, 10)
}

func TestDistanceOneDegreeAlongEquator(t *testing.T) {
	svc := newTestGeoService(t,
		&models.PincodeMaster{Pincode: "000001", Latitude: 0, Longitude: 0},
		&models.PincodeMaster{Pincode: "000002", Latitude: 0, Longitude: 1},
	)

	km, err := svc.DistanceBetweenPincodes("000001", "000002")
	require.NoError(t, err)
	assert.InDelta(t, 111.19, km, 0.05)
}

func TestDistanceSamePincodeIsZero(t *testing.T) {
	svc := newTestGeoService(t,
		&models.PincodeMaster{Pincode: "560001", Latitude: 12.9763, Longitude: 77.6033},
	)

	km, err := svc.DistanceBetweenPincodes("560001", "560001")
	require.NoError(t, err)
	assert.Equal(t, 0.0, km)
}

func TestDistanceUnknownPincode(t *testing.T) {
	svc := newTestGeoService(t,
		&models.PincodeMaster{Pincode: "560001", Latitude: 12.9763, Longitude: 77.6033},
	)

	_, err := svc.DistanceBetweenPincodes("560001", "999999")
	assert.ErrorIs(t, err, ErrPincodeNotFound)

	_, err = svc.DistanceBetweenPincodes("999999", "560001")
	assert.ErrorIs(t, err, ErrPincodeNotFound)
}
