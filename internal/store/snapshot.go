package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot is the serialized representation of an entire store: its
// persisted location, metrics, and entry map. The ID identifies the
// snapshot generation and is stamped fresh on every flush.
type Snapshot struct {
	ID      string           `json:"id"`
	Path    string           `json:"path"`
	Metrics Metrics          `json:"metrics"`
	Values  map[string]Entry `json:"values"`
}

// Snapshotter persists and recalls whole-store snapshots. Read reports an
// error wrapping fs.ErrNotExist when no snapshot has been written yet.
type Snapshotter interface {
	// Write persists the snapshot, replacing any previous one.
	Write(snap *Snapshot) error
	// Read recalls the most recently written snapshot.
	Read() (*Snapshot, error)
}

type fileSnapshotter struct {
	path string
}

// Compile-time check to ensure fileSnapshotter implements Snapshotter.
var _ Snapshotter = (*fileSnapshotter)(nil)

// NewFileSnapshotter returns a Snapshotter that keeps the snapshot as a
// JSON document at path, written atomically through a temp file so a
// failed write never clobbers the previous snapshot.
func NewFileSnapshotter(path string) Snapshotter {
	return &fileSnapshotter{path: path}
}

func (f *fileSnapshotter) Write(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".skvs-*")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (f *fileSnapshotter) Read() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", f.path, err)
	}
	return &snap, nil
}
