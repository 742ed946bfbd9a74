package services

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/lalushbella/p2prental-backend/internal/models"
	"github.com/lalushbella/p2prental-backend/internal/storage"
)

// pincodeImportBatchSize bounds memory and transaction size during a
// bulk import.
const pincodeImportBatchSize = 1000

// ImportPincodeCSV bulk-upserts postal-code coordinate records from
// tabular input. The first row is treated as a header and skipped.
// Expected columns: pincode, latitude, longitude, district, state.
// Short or malformed rows are skipped; batches are committed every
// 1000 records. Returns the number of records processed.
func ImportPincodeCSV(store storage.Store, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, err
	}

	count := 0
	batch := make([]*models.PincodeMaster, 0, pincodeImportBatchSize)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(row) < 5 {
			continue
		}

		lat, latErr := strconv.ParseFloat(row[1], 64)
		lon, lonErr := strconv.ParseFloat(row[2], 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		batch = append(batch, &models.PincodeMaster{
			Pincode:   row[0],
			Latitude:  lat,
			Longitude: lon,
			District:  row[3],
			StateName: row[4],
		})
		count++

		if len(batch) >= pincodeImportBatchSize {
			if err := store.UpsertPincodes(batch); err != nil {
				return count - len(batch), err
			}
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := store.UpsertPincodes(batch); err != nil {
			return count - len(batch), err
		}
	}

	return count, nil
}
