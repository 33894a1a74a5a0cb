// Package cache persists extraction results across runs so unchanged files
// are never reprocessed. The durable form is a single JSON document keyed by
// absolute file path; a go-cache memory layer fronts it for lookups. Entries
// are invalidated implicitly when a file's fingerprint (size + mtime) changes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ecowas-hr/application-processor/internal/entity"
)

const documentVersion = 1

// Fingerprint is the cheap change-detection proxy for a file: its size and
// modification time. No content hashing.
type Fingerprint struct {
	Size        int64 `json:"size"`
	ModTimeUnix int64 `json:"mtime_unix"`
}

// FingerprintFile stats path and derives its fingerprint.
func FingerprintFile(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint %s: %w", path, err)
	}
	return Fingerprint{Size: info.Size(), ModTimeUnix: info.ModTime().Unix()}, nil
}

// Entry is one cached extraction result.
type Entry struct {
	Fingerprint Fingerprint              `json:"fingerprint"`
	Record      *entity.ExtractionRecord `json:"record"`
	CachedAt    time.Time                `json:"cached_at"`
}

type document struct {
	Version int              `json:"version"`
	Root    string           `json:"root"`
	Entries map[string]Entry `json:"entries"`
}

// Store is the result cache for one batch root. Writes are serialized by a
// mutex and flushed to disk after every store so partial progress survives a
// crash.
type Store struct {
	path   string
	root   string
	logger *slog.Logger

	mem *gocache.Cache

	mu      sync.Mutex
	entries map[string]Entry
}

// FilePath derives the cache file location for a batch root. Distinct roots
// get distinct caches via a hash of the root path. When dir is empty the
// cache lives inside the root itself.
func FilePath(dir, root string) string {
	if dir == "" {
		dir = root
	}
	sum := sha256.Sum256([]byte(root))
	name := fmt.Sprintf(".appproc_cache_%s.json", hex.EncodeToString(sum[:])[:16])
	return filepath.Join(dir, name)
}

// Open loads the cache document at path. A missing, unreadable, or invalid
// file is never fatal: the cache starts empty and a warning is logged.
func Open(path, root string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		path:    path,
		root:    root,
		logger:  logger,
		mem:     gocache.New(gocache.NoExpiration, 0),
		entries: map[string]Entry{},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s
	}
	if err != nil {
		logger.Warn("cache unreadable, starting empty", "path", path, "error", err)
		return s
	}
	doc, err := decodeDocument(data)
	if err != nil {
		logger.Warn("cache corrupt, starting empty", "path", path, "error", err)
		return s
	}
	s.entries = doc.Entries
	for key, entry := range doc.Entries {
		s.mem.Set(key, entry, gocache.NoExpiration)
	}
	logger.Info("cache loaded", "path", path, "entries", len(s.entries))
	return s
}

// Lookup returns the cached record for (path, fingerprint), or a miss when
// the path is unknown or the file has changed since it was cached. Hits are
// returned as copies stamped with the entry's CachedAt.
func (s *Store) Lookup(path string, fp Fingerprint) (*entity.ExtractionRecord, bool) {
	v, ok := s.mem.Get(path)
	if !ok {
		return nil, false
	}
	entry := v.(Entry)
	if entry.Fingerprint != fp {
		return nil, false
	}
	rec := *entry.Record
	rec.CachedAt = entry.CachedAt
	return &rec, true
}

// Store records a freshly computed result and flushes the document to disk.
func (s *Store) Store(path string, fp Fingerprint, rec *entity.ExtractionRecord) error {
	entry := Entry{Fingerprint: fp, Record: rec, CachedAt: time.Now()}
	s.mem.Set(path, entry, gocache.NoExpiration)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = entry
	return s.flushLocked()
}

// Len reports the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// flushLocked writes the whole document atomically (temp file + rename).
// Callers must hold s.mu.
func (s *Store) flushLocked() error {
	doc := document{Version: documentVersion, Root: s.root, Entries: s.entries}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
