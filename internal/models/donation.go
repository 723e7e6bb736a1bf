package models

import (
	"time"

	"gorm.io/datatypes"
)

// PANNotProvided is stored when the donor leaves the tax id empty.
const PANNotProvided = "Not Provided"

// DefaultDonationAmount is substituted when the form omits the amount.
const DefaultDonationAmount = 100.00

// DonationRecord is the single persisted entity: one row per payment
// attempt. PaymentStatus only ever moves false -> true; there is no refund
// path. Unsettled rows are swept monthly by the cleanup worker.
type DonationRecord struct {
	ID            uint    `gorm:"primaryKey"`
	FullName      string  `gorm:"not null"`
	Email         string  `gorm:"not null"`
	PhoneNo       string  `gorm:"not null"`
	Address       string  `gorm:"not null"`
	DOB           string  `gorm:"not null"`
	Pincode       string  `gorm:"not null"`
	PAN           string  `gorm:"not null;default:'Not Provided'"`
	City          string  `gorm:"not null"`
	State         string  `gorm:"not null"`
	Country       string  `gorm:"not null"`
	Amount        float64 `gorm:"not null"`
	PaymentStatus bool    `gorm:"not null;default:false"`

	// OrderID correlates the record with one gateway transaction attempt.
	// Immutable once assigned; the unique index is the collision backstop.
	OrderID string `gorm:"uniqueIndex;not null"`

	// GatewayResponse keeps the verified callback payload for audit.
	GatewayResponse datatypes.JSON
	SettledAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DonationRecord) TableName() string { return "donation_records" }
