// Package snapshot persists last-known-good copies of each synchronized
// collection as one JSON file per logical key. The cache is a convenience
// layer: a failed write is logged and the in-memory state stays correct,
// and an absent or unparseable file reads as empty rather than failing.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"github.com/edudesk/edudesk/internal/metrics"
)

// Store reads and writes per-key snapshot files under a state directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// NewStore creates a snapshot store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the state directory path.
func (s *Store) Dir() string { return s.dir }

// Write persists v under key, replacing any previous value for that key
// only. The write is atomic (temp file + rename). On a storage-full
// error the largest snapshot files are evicted best-effort and the write
// is retried once; a still-failing write is logged, counted, and
// reported but callers treat it as non-fatal.
func (s *Store) Write(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", key, err)
	}

	if err := s.writeFile(key, data); err != nil {
		if isStorageFull(err) {
			s.evictLargest(key)
			err = s.writeFile(key, data)
		}
		if err != nil {
			metrics.SnapshotWriteFails.Inc()
			slog.Default().Warn(LogMsgWriteFailed, "key", key, "error", err)
			return fmt.Errorf("failed to write snapshot %s: %w", key, err)
		}
	}
	return nil
}

// Read loads the value stored under key into out. Returns false when the
// key is absent or the stored JSON is unreadable; neither is an error.
func (s *Store) Read(key string, out any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		slog.Default().Warn(LogMsgUnreadableSnapshot, "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Delete removes the file stored under key, if any.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+FileExtension)
}

func (s *Store) writeFile(key string, data []byte) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, FilePermissions); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

// evictLargest removes the largest snapshot files other than the one
// being written, freeing space for the pending write. The queue key is
// never evicted; losing deferred mutations is worse than losing a cached
// collection that the server still holds.
func (s *Store) evictLargest(writingKey string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}

	type candidate struct {
		name string
		size int64
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != FileExtension {
			continue
		}
		name := entry.Name()
		if name == writingKey+FileExtension || name == KeyQueue+FileExtension {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: name, size: info.Size()})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].size > candidates[j].size })

	var evicted []string
	for i := 0; i < len(candidates) && i < 2; i++ {
		if err := os.Remove(filepath.Join(s.dir, candidates[i].name)); err == nil {
			evicted = append(evicted, candidates[i].name)
		}
	}
	if len(evicted) > 0 {
		slog.Default().Warn(LogMsgEvicted, "files", evicted)
	}
}

func isStorageFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}
