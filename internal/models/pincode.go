package models

// PincodeMaster maps a postal code to its coordinates. Static
// reference data loaded in bulk, not a transactional entity.
type PincodeMaster struct {
	Pincode   string  `json:"pincode" gorm:"primaryKey;size:10"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Longitude float64 `json:"longitude" gorm:"not null"`
	District  string  `json:"district" gorm:"size:100"`
	StateName string  `json:"state_name" gorm:"size:100"`
}
