package model

import "time"

// WarrantyStatus classifies an asset's warranty relative to a point in time.
type WarrantyStatus string

const (
	WarrantyExpired      WarrantyStatus = "expired"
	WarrantyExpiringSoon WarrantyStatus = "expiring_soon"
	WarrantyActive       WarrantyStatus = "active"
	WarrantyUnknown      WarrantyStatus = "unknown"
)

// WarrantyExpiringWindow is how far ahead a warranty counts as expiring soon.
const WarrantyExpiringWindow = 30 * 24 * time.Hour

// Asset is a tracked piece of equipment or fixture in a home.
type Asset struct {
	ID                 int64      `json:"id" db:"id"`
	HomeID             int64      `json:"home_id" db:"home_id" validate:"gt=0"`
	CategoryID         *int64     `json:"category_id,omitempty" db:"category_id"`
	LocationID         *int64     `json:"location_id,omitempty" db:"location_id"`
	Name               string     `json:"name" db:"name" validate:"notblank"`
	Manufacturer       *string    `json:"manufacturer,omitempty" db:"manufacturer"`
	ModelNumber        *string    `json:"model_number,omitempty" db:"model_number"`
	SerialNumber       *string    `json:"serial_number,omitempty" db:"serial_number"`
	PurchaseDate       *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	InstallationDate   *time.Time `json:"installation_date,omitempty" db:"installation_date"`
	WarrantyExpiration *time.Time `json:"warranty_expiration,omitempty" db:"warranty_expiration"`
	Notes              string     `json:"notes" db:"notes"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// WarrantyStatusAt reports the warranty state as of now.
func (a Asset) WarrantyStatusAt(now time.Time) WarrantyStatus {
	if a.WarrantyExpiration == nil {
		return WarrantyUnknown
	}
	exp := *a.WarrantyExpiration
	switch {
	case exp.Before(now):
		return WarrantyExpired
	case !exp.After(now.Add(WarrantyExpiringWindow)):
		return WarrantyExpiringSoon
	default:
		return WarrantyActive
	}
}

// WarrantyStatus reports the warranty state as of the current time.
func (a Asset) WarrantyStatus() WarrantyStatus {
	return a.WarrantyStatusAt(time.Now())
}
