package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Common maintenance record types. Type is free text; these are the
// values offered by default.
const (
	RecordTypeRepair       = "repair"
	RecordTypeService      = "service"
	RecordTypeInspection   = "inspection"
	RecordTypeReplacement  = "replacement"
	RecordTypeInstallation = "installation"
	RecordTypeCleaning     = "cleaning"
)

// MaintenanceRecord logs a piece of work done on an asset.
// Cost is persisted as decimal text; an invalid NullDecimal means no
// cost was recorded.
type MaintenanceRecord struct {
	ID                int64               `json:"id" db:"id"`
	AssetID           int64               `json:"asset_id" db:"asset_id" validate:"gt=0"`
	ServiceProviderID *int64              `json:"service_provider_id,omitempty" db:"service_provider_id"`
	Date              time.Time           `json:"date" db:"date"`
	Type              string              `json:"type" db:"type" validate:"notblank"`
	Description       *string             `json:"description,omitempty" db:"description"`
	Cost              decimal.NullDecimal `json:"cost" db:"cost"`
	Notes             string              `json:"notes" db:"notes"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// CostOrZero returns the recorded cost, or zero when none was recorded.
func (r MaintenanceRecord) CostOrZero() decimal.Decimal {
	if !r.Cost.Valid {
		return decimal.Zero
	}
	return r.Cost.Decimal
}
