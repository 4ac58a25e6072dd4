package model

import "time"

// Attachment types.
const (
	AttachmentPhoto    = "photo"
	AttachmentManual   = "manual"
	AttachmentReceipt  = "receipt"
	AttachmentWarranty = "warranty"
	AttachmentInvoice  = "invoice"
	AttachmentOther    = "other"
)

// Attachment references a stored file belonging to an asset, a
// maintenance record, or both. RelativePath is resolved by the file store.
type Attachment struct {
	ID                  int64     `json:"id" db:"id"`
	AssetID             *int64    `json:"asset_id,omitempty" db:"asset_id" validate:"required_without=MaintenanceRecordID"`
	MaintenanceRecordID *int64    `json:"maintenance_record_id,omitempty" db:"maintenance_record_id" validate:"required_without=AssetID"`
	Type                string    `json:"type" db:"type" validate:"oneof=photo manual receipt warranty invoice other"`
	Filename            string    `json:"filename" db:"filename" validate:"notblank"`
	RelativePath        string    `json:"relative_path" db:"relative_path" validate:"notblank"`
	FileSize            *int64    `json:"file_size,omitempty" db:"file_size" validate:"omitempty,gte=0"`
	MimeType            string    `json:"mime_type" db:"mime_type"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}
