package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalushbella/p2prental-backend/internal/storage"
)

func TestImportPincodeCSVSkipsHeaderAndBadRows(t *testing.T) {
	data := strings.Join([]string{
		"pincode,latitude,longitude,district,state",
		"110001,28.7041,77.1025,New Delhi,Delhi",
		"400001,19.0760,72.8777,Mumbai,Maharashtra",
		"560001", // short row
		"600001,not-a-number,80.2707,Chennai,Tamil Nadu", // bad latitude
		"560001,12.9763,77.6033,Bengaluru,Karnataka",
	}, "\n")

	store := storage.NewMemoryStore()
	count, err := ImportPincodeCSV(store, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	row, err := store.GetPincode("560001")
	require.NoError(t, err)
	assert.Equal(t, "Bengaluru", row.District)
	assert.Equal(t, 12.9763, row.Latitude)

	_, err = store.GetPincode("600001")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImportPincodeCSVReimportUpdatesExisting(t *testing.T) {
	store := storage.NewMemoryStore()

	first := "pincode,latitude,longitude,district,state\n110001,28.0,77.0,Old Delhi,Delhi\n"
	count, err := ImportPincodeCSV(store, strings.NewReader(first))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	second := "pincode,latitude,longitude,district,state\n110001,28.7041,77.1025,New Delhi,Delhi\n"
	count, err = ImportPincodeCSV(store, strings.NewReader(second))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	row, err := store.GetPincode("110001")
	require.NoError(t, err)
	assert.Equal(t, "New Delhi", row.District)
	assert.Equal(t, 28.7041, row.Latitude)
}

func TestImportPincodeCSVEmptyInput(t *testing.T) {
	store := storage.NewMemoryStore()

	count, err := ImportPincodeCSV(store, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
