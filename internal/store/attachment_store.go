package store

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/homekeeper/internal/model"
)

var attachmentTable = table[model.Attachment]{
	name:   "attachments",
	entity: "attachment",
	columns: []string{
		"asset_id", "maintenance_record_id", "type", "filename",
		"relative_path", "file_size", "mime_type", "created_at", "updated_at",
	},
	id: func(a *model.Attachment) *int64 { return &a.ID },
	prepare: func(a *model.Attachment, now time.Time, creating bool) {
		a.Filename = strings.TrimSpace(a.Filename)
		a.RelativePath = strings.TrimSpace(a.RelativePath)
		a.MimeType = strings.TrimSpace(a.MimeType)
		if a.Type == "" {
			a.Type = model.AttachmentOther
		}
		stamp(&a.CreatedAt, &a.UpdatedAt, now, creating)
	},
}

// AttachmentStore persists attachment rows. It never touches the files
// they point at; see the file store for that.
type AttachmentStore struct {
	*Repository[model.Attachment]
}

// FindByAsset returns an asset's attachments in creation order.
func (s *AttachmentStore) FindByAsset(ctx context.Context, assetID int64) ([]model.Attachment, error) {
	return s.selectWhere(ctx, s.db, "asset_id = ?", "id", assetID)
}

// FindByMaintenanceRecord returns a record's attachments in creation order.
func (s *AttachmentStore) FindByMaintenanceRecord(ctx context.Context, recordID int64) ([]model.Attachment, error) {
	return s.selectWhere(ctx, s.db, "maintenance_record_id = ?", "id", recordID)
}

// FindByType returns every attachment of the given type.
func (s *AttachmentStore) FindByType(ctx context.Context, attachmentType string) ([]model.Attachment, error) {
	return s.selectWhere(ctx, s.db, "type = ?", "id", attachmentType)
}

// CountByPath returns how many rows reference relativePath.
func (s *AttachmentStore) CountByPath(ctx context.Context, relativePath string) (int, error) {
	return s.count(ctx, "relative_path = ?", relativePath)
}

// ReferencedPaths returns the set of relative paths any row references.
func (s *AttachmentStore) ReferencedPaths(ctx context.Context) (map[string]struct{}, error) {
	var paths []string
	if err := s.db.SelectContext(ctx, &paths, "SELECT DISTINCT relative_path FROM attachments"); err != nil {
		return nil, storageErr("listing attachment paths", err)
	}
	out := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		out[p] = struct{}{}
	}
	return out, nil
}
