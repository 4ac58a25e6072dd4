// Package filestore keeps attachment blobs on disk, addressed by the
// SHA-256 of their content.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const stagingDir = ".staging"

// stagingTTL is how old a staging file must be before Sweep treats it as
// left over from an interrupted Put.
const stagingTTL = time.Hour

var (
	// ErrTooLarge is returned by Put when the content exceeds the size cap.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrInvalidPath is returned for relative paths that are absolute,
	// empty, or escape the storage root.
	ErrInvalidPath = errors.New("invalid relative path")
)

// Blob describes content written by Put.
type Blob struct {
	RelativePath string
	Hash         string
	Size         int64
	MimeType     string

	// Existing is true when identical content was already stored and the
	// new upload was discarded.
	Existing bool
}

// Store reads and writes blobs below a root directory.
type Store struct {
	fs      afero.Fs
	root    string
	maxSize int64
	log     logrus.FieldLogger
}

// New returns a Store rooted at root on fs, creating the directory if
// needed. maxSize <= 0 disables the size cap.
func New(fs afero.Fs, root string, maxSize int64, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := fs.MkdirAll(filepath.Join(root, stagingDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating attachment root %s: %w", root, err)
	}
	return &Store{fs: fs, root: root, maxSize: maxSize, log: log}, nil
}

// NewOS returns a Store on the real filesystem.
func NewOS(root string, maxSize int64, log logrus.FieldLogger) (*Store, error) {
	return New(afero.NewOsFs(), root, maxSize, log)
}

// Root returns the storage root directory.
func (s *Store) Root() string { return s.root }

// Put copies r into the store. filename is only used to pick an extension
// when the content type has none.
func (s *Store) Put(r io.Reader, filename string) (Blob, error) {
	staging := filepath.Join(s.root, stagingDir, uuid.NewString())
	f, err := s.fs.Create(staging)
	if err != nil {
		return Blob{}, fmt.Errorf("creating staging file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = s.fs.Remove(staging)
		}
	}()

	h := sha256.New()
	src := r
	if s.maxSize > 0 {
		src = io.LimitReader(r, s.maxSize+1)
	}
	n, err := io.Copy(io.MultiWriter(f, h), src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Blob{}, fmt.Errorf("writing staging file: %w", err)
	}
	if s.maxSize > 0 && n > s.maxSize {
		return Blob{}, fmt.Errorf("%s: %w (%d bytes)", filename, ErrTooLarge, s.maxSize)
	}

	mtype, err := s.detect(staging)
	if err != nil {
		return Blob{}, err
	}

	sum := hex.EncodeToString(h.Sum(nil))
	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	rel := path.Join(sum[:2], sum+ext)
	blob := Blob{RelativePath: rel, Hash: sum, Size: n, MimeType: mtype.String()}

	target := s.abs(rel)
	exists, err := afero.Exists(s.fs, target)
	if err != nil {
		return Blob{}, fmt.Errorf("checking %s: %w", rel, err)
	}
	if exists {
		blob.Existing = true
		return blob, nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Blob{}, fmt.Errorf("creating shard directory: %w", err)
	}
	if err := s.fs.Rename(staging, target); err != nil {
		return Blob{}, fmt.Errorf("moving blob into place: %w", err)
	}
	committed = true

	s.log.WithFields(logrus.Fields{
		"path": rel,
		"size": n,
		"mime": blob.MimeType,
	}).Debug("stored blob")
	return blob, nil
}

func (s *Store) detect(name string) (*mimetype.MIME, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening staging file: %w", err)
	}
	defer f.Close()
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detecting content type: %w", err)
	}
	return mtype, nil
}

// Open opens a stored blob for reading.
func (s *Store) Open(rel string) (afero.File, error) {
	if err := checkPath(rel); err != nil {
		return nil, err
	}
	return s.fs.Open(s.abs(rel))
}

// Exists reports whether a blob is stored at rel.
func (s *Store) Exists(rel string) (bool, error) {
	if err := checkPath(rel); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, s.abs(rel))
}

// Remove deletes the blob at rel. A missing blob is not an error.
func (s *Store) Remove(rel string) error {
	if err := checkPath(rel); err != nil {
		return err
	}
	err := s.fs.Remove(s.abs(rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", rel, err)
	}
	return nil
}

// Walk calls fn for every stored blob with its relative path and size.
// Staging files are skipped.
func (s *Store) Walk(fn func(rel string, size int64) error) error {
	return afero.Walk(s.fs, s.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == stagingDir {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info.Size())
	})
}

// Usage returns the number of stored blobs and their total size.
func (s *Store) Usage() (count int, bytes int64, err error) {
	err = s.Walk(func(_ string, size int64) error {
		count++
		bytes += size
		return nil
	})
	return count, bytes, err
}

// Sweep removes every blob whose relative path is not in keep, along
// with staging files older than an hour. It returns the removed paths.
func (s *Store) Sweep(keep map[string]struct{}, now time.Time) ([]string, error) {
	var orphans []string
	err := s.Walk(func(rel string, _ int64) error {
		if _, ok := keep[rel]; !ok {
			orphans = append(orphans, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking attachment root: %w", err)
	}

	removed := make([]string, 0, len(orphans))
	for _, rel := range orphans {
		if err := s.Remove(rel); err != nil {
			return removed, err
		}
		removed = append(removed, rel)
	}

	stale, err := s.sweepStaging(now)
	if err != nil {
		return removed, err
	}

	if len(removed) > 0 || stale > 0 {
		s.log.WithFields(logrus.Fields{
			"orphans": len(removed),
			"staging": stale,
		}).Info("swept attachment storage")
	}
	return removed, nil
}

func (s *Store) sweepStaging(now time.Time) (int, error) {
	entries, err := afero.ReadDir(s.fs, filepath.Join(s.root, stagingDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading staging directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || now.Sub(e.ModTime()) < stagingTTL {
			continue
		}
		if err := s.fs.Remove(filepath.Join(s.root, stagingDir, e.Name())); err != nil {
			return n, fmt.Errorf("removing staging file %s: %w", e.Name(), err)
		}
		n++
	}
	return n, nil
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// checkPath rejects paths that are empty, absolute, or leave the root.
func checkPath(rel string) error {
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) || strings.Contains(rel, `\`) {
		return fmt.Errorf("%q: %w", rel, ErrInvalidPath)
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, stagingDir) {
		return fmt.Errorf("%q: %w", rel, ErrInvalidPath)
	}
	return nil
}
