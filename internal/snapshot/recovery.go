package snapshot

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// RecoverLegacy scans the fixed set of legacy file names from the prior
// storage scheme and promotes any parseable data to the active keys.
// Existing active keys are never overwritten. Returns the current keys
// that received data; a non-empty result means the caller should raise
// the needs-sync flag so the user can push recovered data manually.
func (s *Store) RecoverLegacy() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var recovered []string
	for legacyName, key := range legacyKeys {
		data, err := os.ReadFile(filepath.Join(s.dir, legacyName))
		if err != nil {
			continue
		}

		// Reject unparseable legacy data outright.
		if !json.Valid(data) {
			continue
		}

		// Never clobber an active key that already holds data.
		if _, err := os.Stat(s.path(key)); err == nil {
			continue
		}

		if err := s.writeFile(key, data); err != nil {
			slog.Default().Warn(LogMsgWriteFailed, "key", key, "error", err)
			continue
		}

		slog.Default().Info(LogMsgLegacyRecovered, "legacy", legacyName, "key", key)
		recovered = append(recovered, key)
	}

	sort.Strings(recovered)
	return recovered, nil
}
