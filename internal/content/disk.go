package content

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// diskEntry is the on-disk layout: {"ts": <unix ms>, "data": <document>}
type diskEntry struct {
	TS   int64           `json:"ts"`
	Data json.RawMessage `json:"data"`
}

// diskStore is the warm-start tier. Reads that fail for any reason are
// misses; writes report errors for the caller to log and drop.
type diskStore struct {
	dir string
}

func (d *diskStore) file(path string) string {
	return filepath.Join(d.dir, url.QueryEscape(path)+".json")
}

func (d *diskStore) read(path string) (entry, bool) {
	raw, err := os.ReadFile(d.file(path))
	if err != nil {
		return entry{}, false
	}
	var de diskEntry
	if err := json.Unmarshal(raw, &de); err != nil || len(de.Data) == 0 {
		return entry{}, false
	}
	return entry{fetchedAt: time.UnixMilli(de.TS), data: de.Data}, true
}

func (d *diskStore) write(path string, e entry) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	raw, err := json.Marshal(diskEntry{TS: e.fetchedAt.UnixMilli(), Data: e.data})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(d.file(path), raw, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
