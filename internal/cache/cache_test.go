package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecowas-hr/application-processor/constants"
	"github.com/ecowas-hr/application-processor/internal/common"
	"github.com/ecowas-hr/application-processor/internal/entity"
)

func sampleRecord(name string) *entity.ExtractionRecord {
	return &entity.ExtractionRecord{
		Applicant: name,
		Status:    constants.StatusSuccess,
		Fields: map[constants.Field]entity.FieldValue{
			constants.FieldName: {Value: name, Confidence: 0.9},
		},
		Overall: 0.9,
	}
}

func TestStoreAndLookupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	s := Open(path, dir, nil)

	fp := Fingerprint{Size: 1234, ModTimeUnix: 1700000000}
	require.NoError(t, s.Store("/data/a/form.pdf", fp, sampleRecord("A")))

	rec, hit := s.Lookup("/data/a/form.pdf", fp)
	require.True(t, hit)
	assert.Equal(t, "A", rec.Applicant)
	assert.True(t, rec.CacheHit())
}

func TestLookupMissOnChangedFingerprint(t *testing.T) {
	dir := t.TempDir()
	s := Open(filepath.Join(dir, "cache.json"), dir, nil)

	fp := Fingerprint{Size: 10, ModTimeUnix: 1700000000}
	require.NoError(t, s.Store("/data/a/form.pdf", fp, sampleRecord("A")))

	_, hit := s.Lookup("/data/a/form.pdf", Fingerprint{Size: 11, ModTimeUnix: 1700000000})
	assert.False(t, hit)
	_, hit = s.Lookup("/data/a/form.pdf", Fingerprint{Size: 10, ModTimeUnix: 1700000001})
	assert.False(t, hit)
}

func TestPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	fp := Fingerprint{Size: 42, ModTimeUnix: 1700000000}

	s := Open(path, dir, nil)
	require.NoError(t, s.Store("/data/b/form.docx", fp, sampleRecord("B")))

	reopened := Open(path, dir, nil)
	rec, hit := reopened.Lookup("/data/b/form.docx", fp)
	require.True(t, hit)
	assert.Equal(t, "B", rec.Applicant)
	assert.Equal(t, 1, reopened.Len())
}

func TestCorruptCacheTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Open(path, dir, nil)
	assert.Zero(t, s.Len())

	// And the store must still be usable afterwards.
	fp := Fingerprint{Size: 1, ModTimeUnix: 1}
	require.NoError(t, s.Store("/data/c.pdf", fp, sampleRecord("C")))
	_, hit := s.Lookup("/data/c.pdf", fp)
	assert.True(t, hit)
}

func TestSchemaInvalidCacheTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")
	// Valid JSON, wrong shape: entries must be an object.
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"root":"/x","entries":[]}`), 0o644))

	s := Open(path, dir, nil)
	assert.Zero(t, s.Len())
}

func TestDecodeDocumentWrapsCorruptionSentinel(t *testing.T) {
	for _, data := range []string{
		"{not json",
		`{"version": 1, "root": "/r", "entries": []}`,
	} {
		_, err := decodeDocument([]byte(data))
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrCacheCorrupt), "input %q", data)
	}
}

func TestFilePathDistinctPerRoot(t *testing.T) {
	a := FilePath("", "/batches/2026-january")
	b := FilePath("", "/batches/2026-february")

	assert.NotEqual(t, a, b)
	assert.Equal(t, "/batches/2026-january", filepath.Dir(a))

	c := FilePath("/var/cache/appproc", "/batches/2026-january")
	assert.Equal(t, "/var/cache/appproc", filepath.Dir(c))
	assert.Equal(t, filepath.Base(a), filepath.Base(c))
}

func TestFingerprintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	fp, err := FingerprintFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), fp.Size)
	assert.Equal(t, mtime.Unix(), fp.ModTimeUnix)

	_, err = FingerprintFile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
