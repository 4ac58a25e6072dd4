package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nhle/homekeeper/internal/filestore"
	"github.com/nhle/homekeeper/internal/model"
)

// AttachmentRows is the attachment table.
type AttachmentRows interface {
	Create(ctx context.Context, a model.Attachment) (model.Attachment, error)
	FindByID(ctx context.Context, id int64) (*model.Attachment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	CountByPath(ctx context.Context, relativePath string) (int, error)
	ReferencedPaths(ctx context.Context) (map[string]struct{}, error)
	FindAll(ctx context.Context) ([]model.Attachment, error)
	FindByAsset(ctx context.Context, assetID int64) ([]model.Attachment, error)
	FindByMaintenanceRecord(ctx context.Context, recordID int64) ([]model.Attachment, error)
	FindByType(ctx context.Context, attachmentType string) ([]model.Attachment, error)
}

// AttachmentFilter selects attachments for List. Owner ids take
// precedence over Type; a type still narrows an owner's attachments.
type AttachmentFilter struct {
	AssetID             *int64
	MaintenanceRecordID *int64
	Type                string
}

// NewAttachment describes a file being attached. Exactly one of AssetID
// and MaintenanceRecordID is normally set.
type NewAttachment struct {
	AssetID             *int64
	MaintenanceRecordID *int64
	Type                string
	Filename            string
}

// AttachmentService keeps attachment rows and their blobs in step.
// Rows are written after their blob and deleted before it, so a crash
// can only leave unreferenced blobs behind; Sweep removes those.
type AttachmentService struct {
	rows  AttachmentRows
	files *filestore.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewAttachmentService returns a service over rows and files.
func NewAttachmentService(rows AttachmentRows, files *filestore.Store, log logrus.FieldLogger) *AttachmentService {
	return &AttachmentService{rows: rows, files: files, log: orStandard(log), now: time.Now}
}

// Add stores r and records it as an attachment.
func (s *AttachmentService) Add(ctx context.Context, r io.Reader, in NewAttachment) (model.Attachment, error) {
	name := filepath.Base(in.Filename)
	blob, err := s.files.Put(r, name)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("storing %s: %w", name, err)
	}

	size := blob.Size
	att, err := s.rows.Create(ctx, model.Attachment{
		AssetID:             in.AssetID,
		MaintenanceRecordID: in.MaintenanceRecordID,
		Type:                in.Type,
		Filename:            name,
		RelativePath:        blob.RelativePath,
		FileSize:            &size,
		MimeType:            blob.MimeType,
	})
	if err != nil {
		// Only a blob written by this call can be unreferenced.
		if !blob.Existing {
			if rmErr := s.files.Remove(blob.RelativePath); rmErr != nil {
				s.log.WithError(rmErr).WithField("path", blob.RelativePath).
					Warn("could not remove blob after failed insert")
			}
		}
		return model.Attachment{}, err
	}

	s.log.WithFields(logrus.Fields{
		"attachment_id": att.ID,
		"path":          att.RelativePath,
		"deduplicated":  blob.Existing,
	}).Info("attachment added")
	return att, nil
}

// Remove deletes the attachment row, then its blob when no other row
// shares it. It reports false when the attachment does not exist. A blob
// that cannot be removed is logged and left for Sweep.
func (s *AttachmentService) Remove(ctx context.Context, id int64) (bool, error) {
	att, err := s.rows.FindByID(ctx, id)
	if err != nil || att == nil {
		return false, err
	}

	removed, err := s.rows.Delete(ctx, id)
	if err != nil || !removed {
		return removed, err
	}

	refs, err := s.rows.CountByPath(ctx, att.RelativePath)
	if err != nil {
		return true, err
	}
	if refs > 0 {
		return true, nil
	}

	if err := s.files.Remove(att.RelativePath); err != nil {
		s.log.WithError(err).WithField("path", att.RelativePath).
			Warn("attachment row deleted but blob remains")
	}
	return true, nil
}

// Sweep removes blobs that no attachment row references and returns
// their paths.
func (s *AttachmentService) Sweep(ctx context.Context) ([]string, error) {
	keep, err := s.rows.ReferencedPaths(ctx)
	if err != nil {
		return nil, err
	}
	return s.files.Sweep(keep, s.now())
}

// List returns the attachments matching f.
func (s *AttachmentService) List(ctx context.Context, f AttachmentFilter) ([]model.Attachment, error) {
	var (
		atts []model.Attachment
		err  error
	)
	switch {
	case f.AssetID != nil:
		atts, err = s.rows.FindByAsset(ctx, *f.AssetID)
	case f.MaintenanceRecordID != nil:
		atts, err = s.rows.FindByMaintenanceRecord(ctx, *f.MaintenanceRecordID)
	case f.Type != "":
		return s.rows.FindByType(ctx, f.Type)
	default:
		return s.rows.FindAll(ctx)
	}
	if err != nil || f.Type == "" {
		return atts, err
	}

	out := atts[:0]
	for _, a := range atts {
		if a.Type == f.Type {
			out = append(out, a)
		}
	}
	return out, nil
}

// Open returns the attachment and a reader over its stored file. The
// attachment is nil when id is unknown.
func (s *AttachmentService) Open(ctx context.Context, id int64) (*model.Attachment, io.ReadCloser, error) {
	att, err := s.rows.FindByID(ctx, id)
	if err != nil || att == nil {
		return nil, nil, err
	}
	f, err := s.files.Open(att.RelativePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening attachment %d: %w", id, err)
	}
	return att, f, nil
}

// Missing returns referenced paths whose file is gone, sorted.
func (s *AttachmentService) Missing(ctx context.Context) ([]string, error) {
	refs, err := s.rows.ReferencedPaths(ctx)
	if err != nil {
		return nil, err
	}

	var missing []string
	for rel := range refs {
		ok, err := s.files.Exists(rel)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, rel)
		}
	}
	sort.Strings(missing)
	return missing, nil
}
