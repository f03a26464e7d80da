// Package cache implements the on-disk store for AI review responses.
// Entries are content-addressed: the key is a SHA-256 digest over the
// request and the key-relevant configuration, and each entry is one JSON
// file named after the key's hex digest. Entries have no expiry and are
// never updated in place.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/codeargus/argus/internal/core"
)

// Key derives the deterministic cache key for a review request under the
// given provider configuration. Criteria are sorted before hashing so the
// key is independent of their order; every other field is hashed verbatim,
// so any single-character change produces a different key.
func Key(req core.ReviewRequest, provider, model, strictness string) string {
	h := sha256.New()
	h.Write([]byte(req.Diff))
	h.Write([]byte(req.Context))

	criteria := append([]string(nil), req.Criteria...)
	sort.Strings(criteria)
	encoded, _ := json.Marshal(criteria)
	h.Write(encoded)

	h.Write([]byte(provider))
	h.Write([]byte(model))
	h.Write([]byte(strictness))

	return hex.EncodeToString(h.Sum(nil))
}

// Store persists review results under their cache keys. Per-request I/O
// problems degrade gracefully: a failed read is a miss and a failed write
// is dropped after logging, so the cache can never fail an analysis.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore opens the store rooted at dir, creating the directory if needed.
// An uncreatable directory is a fatal initialization error.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Get looks up a cached result. Any failure, including a corrupted entry,
// is reported as a miss so the caller falls through to the provider.
func (s *Store) Get(key string) (*core.ReviewResult, bool) {
	data, err := os.ReadFile(s.entryPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read cache entry, treating as miss", "key", shortKey(key), "error", err)
		}
		return nil, false
	}

	var result core.ReviewResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.logger.Warn("corrupted cache entry, treating as miss", "key", shortKey(key), "error", err)
		return nil, false
	}
	return &result, true
}

// Put persists a result under key. The write goes through a temp file and a
// rename so a concurrent reader never observes a partial entry. Failures
// are logged and dropped; the result has already been produced and the miss
// path will simply repeat next time.
func (s *Store) Put(key string, result *core.ReviewResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		s.logger.Warn("failed to encode cache entry", "key", shortKey(key), "error", err)
		return
	}

	tmp, err := os.CreateTemp(s.dir, "entry-*.tmp")
	if err != nil {
		s.logger.Warn("failed to create cache temp file", "key", shortKey(key), "error", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Warn("failed to write cache entry", "key", shortKey(key), "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("failed to close cache temp file", "key", shortKey(key), "error", err)
		return
	}
	if err := os.Rename(tmpName, s.entryPath(key)); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("failed to store cache entry", "key", shortKey(key), "error", err)
		return
	}
	s.logger.Debug("stored cache entry", "key", shortKey(key))
}

// Stats summarizes the store contents.
type Stats struct {
	Dir        string
	Entries    int
	TotalBytes int64
}

// GetStats counts entries and bytes under the store directory.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Dir: s.dir}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
	}
	return stats, nil
}

// Clear removes every entry file. The directory itself is kept.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("removing cache entry %s: %w", e.Name(), err)
		}
	}
	return nil
}

func (s *Store) entryPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// shortKey trims a digest for log lines.
func shortKey(key string) string {
	if len(key) > 8 {
		return key[:8]
	}
	return key
}
