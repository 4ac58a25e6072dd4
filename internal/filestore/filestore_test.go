package filestore

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal PNG signature plus IHDR header, enough for content detection.
var pngHeader = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xde,
}

func newTestStore(t *testing.T, maxSize int64) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	log := logrus.New()
	log.SetOutput(io.Discard)
	s, err := New(fs, "/data/attachments", maxSize, log)
	require.NoError(t, err)
	return s, fs
}

func TestPut_StoresByContentHash(t *testing.T) {
	s, fs := newTestStore(t, 0)

	blob, err := s.Put(strings.NewReader("furnace manual"), "Manual.TXT")
	require.NoError(t, err)

	assert.Len(t, blob.Hash, 64)
	assert.Equal(t, blob.Hash[:2]+"/"+blob.Hash+".txt", blob.RelativePath)
	assert.Equal(t, int64(len("furnace manual")), blob.Size)
	assert.True(t, strings.HasPrefix(blob.MimeType, "text/plain"))
	assert.False(t, blob.Existing)

	data, err := afero.ReadFile(fs, filepath.Join("/data/attachments", blob.RelativePath))
	require.NoError(t, err)
	assert.Equal(t, "furnace manual", string(data))

	staged, err := afero.ReadDir(fs, "/data/attachments/.staging")
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestPut_DetectsBinaryType(t *testing.T) {
	s, _ := newTestStore(t, 0)

	blob, err := s.Put(bytes.NewReader(pngHeader), "photo")
	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.MimeType)
	assert.True(t, strings.HasSuffix(blob.RelativePath, ".png"))
}

func TestPut_DeduplicatesIdenticalContent(t *testing.T) {
	s, _ := newTestStore(t, 0)

	first, err := s.Put(strings.NewReader("same bytes"), "a.txt")
	require.NoError(t, err)
	second, err := s.Put(strings.NewReader("same bytes"), "b.txt")
	require.NoError(t, err)

	assert.Equal(t, first.RelativePath, second.RelativePath)
	assert.True(t, second.Existing)

	count, _, err := s.Usage()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPut_RejectsOversizedContent(t *testing.T) {
	s, fs := newTestStore(t, 8)

	_, err := s.Put(strings.NewReader("this is longer than eight bytes"), "big.txt")
	require.ErrorIs(t, err, ErrTooLarge)

	count, _, err := s.Usage()
	require.NoError(t, err)
	assert.Zero(t, count)

	staged, err := afero.ReadDir(fs, "/data/attachments/.staging")
	require.NoError(t, err)
	assert.Empty(t, staged, "staging file is cleaned up")

	_, err = s.Put(strings.NewReader("8 bytes!"), "ok.txt")
	assert.NoError(t, err, "content exactly at the cap is accepted")
}

func TestOpenExistsRemove(t *testing.T) {
	s, _ := newTestStore(t, 0)

	blob, err := s.Put(strings.NewReader("receipt"), "r.txt")
	require.NoError(t, err)

	ok, err := s.Exists(blob.RelativePath)
	require.NoError(t, err)
	assert.True(t, ok)

	f, err := s.Open(blob.RelativePath)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "receipt", string(data))

	require.NoError(t, s.Remove(blob.RelativePath))
	ok, err = s.Exists(blob.RelativePath)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.Remove(blob.RelativePath), "removing a missing blob is not an error")
}

func TestInvalidPaths(t *testing.T) {
	s, _ := newTestStore(t, 0)

	for _, rel := range []string{"", "/etc/passwd", "../outside", "ab/../../x", "..", ".staging/x", `ab\cd`} {
		t.Run(rel, func(t *testing.T) {
			_, err := s.Exists(rel)
			assert.ErrorIs(t, err, ErrInvalidPath)
			assert.ErrorIs(t, s.Remove(rel), ErrInvalidPath)
		})
	}
}

func TestSweep(t *testing.T) {
	s, fs := newTestStore(t, 0)

	keep, err := s.Put(strings.NewReader("keep me"), "k.txt")
	require.NoError(t, err)
	orphan, err := s.Put(strings.NewReader("orphaned"), "o.txt")
	require.NoError(t, err)

	stale := "/data/attachments/.staging/leftover"
	require.NoError(t, afero.WriteFile(fs, stale, []byte("partial"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, fs.Chtimes(stale, old, old))

	removed, err := s.Sweep(map[string]struct{}{keep.RelativePath: {}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []string{orphan.RelativePath}, removed)

	ok, err := s.Exists(keep.RelativePath)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = afero.Exists(fs, stale)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsage(t *testing.T) {
	s, _ := newTestStore(t, 0)

	_, err := s.Put(strings.NewReader("abc"), "a.txt")
	require.NoError(t, err)
	_, err = s.Put(strings.NewReader("defgh"), "b.txt")
	require.NoError(t, err)

	count, size, err := s.Usage()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, int64(8), size)
}
