package models

import "time"

// Address is one delivery address on a user profile. Addresses used to
// be free-form JSON blobs; they are now validated records with named
// fields.
type Address struct {
	Label   string `json:"label"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// User is a marketplace customer (lender and/or borrower). Users are
// created only through a completed register-OTP verification, so an
// unverified registration never reaches this table.
type User struct {
	CustomerID   uint      `json:"customer_id" gorm:"primaryKey;autoIncrement"`
	MobileNumber string    `json:"mobile_number" gorm:"size:15;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:255"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex"`
	Addresses    []Address `json:"addresses" gorm:"serializer:json"`
	KYCStatus    bool      `json:"kyc_status" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserUpdate carries the mutable profile fields. Pointer fields
// distinguish "not supplied" from zero values.
type UserUpdate struct {
	Name      *string    `json:"name"`
	Email     *string    `json:"email"`
	Addresses *[]Address `json:"addresses"`
	KYCStatus *bool      `json:"kyc_status"`
}
