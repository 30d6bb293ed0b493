package memory

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"jeongsan/internal/core"
	"jeongsan/internal/records"
)

// NewFromFiles builds a memory store seeded from members.json and
// locations.json in dir. Missing or unreadable files leave the store
// empty; the service can still run with no reference data.
func NewFromFiles(dir string, defaults records.Defaults) *Store {
	var members []core.Member
	if err := readSeed(filepath.Join(dir, "members.json"), &members); err != nil {
		slog.Warn("No member seed loaded", "dir", dir, "error", err)
	}

	var locations []core.Location
	if err := readSeed(filepath.Join(dir, "locations.json"), &locations); err != nil {
		slog.Warn("No location seed loaded", "dir", dir, "error", err)
	}

	valid := members[:0]
	for _, m := range members {
		if err := m.Validate(); err != nil {
			slog.Warn("Skipping invalid member seed", "error", err)
			continue
		}
		valid = append(valid, m)
	}
	members = valid

	validLocs := locations[:0]
	for _, l := range locations {
		if err := l.Validate(); err != nil {
			slog.Warn("Skipping invalid location seed", "error", err)
			continue
		}
		validLocs = append(validLocs, l)
	}
	locations = validLocs

	return New(defaults, members, locations)
}

func readSeed(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
