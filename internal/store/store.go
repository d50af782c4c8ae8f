// Package store implements the embedded key-value core: versioned entries,
// store-level metrics, and snapshot persistence.
//
// A Store maps string keys to Entry values. Writes return a WriteResult
// outcome tag; validation and I/O failures are returned as errors. The
// whole store round-trips through a Snapshot document via Flush and Load.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kisom/skvs/internal/observability"
)

// Store is a key-value store that persists to disk as a snapshot. The
// mutex guards the entry map and metrics as one unit: no caller observes
// a write's entry mutation without its metrics update.
type Store struct {
	mu      sync.Mutex
	path    string
	values  map[string]Entry
	metrics Metrics
	snap    Snapshotter

	log *observability.Logger
	ops *observability.Collector
}

// New returns an empty store persisting to a JSON snapshot at path. An
// empty path disables persistence: Flush becomes a successful no-op.
func New(path string) *Store {
	s := &Store{
		path:   path,
		values: make(map[string]Entry),
	}
	if path != "" {
		s.snap = NewFileSnapshotter(path)
	}
	return s
}

// NewWithSnapshotter returns an empty store persisting through snap.
func NewWithSnapshotter(path string, snap Snapshotter) *Store {
	return &Store{
		path:   path,
		values: make(map[string]Entry),
		snap:   snap,
	}
}

// SetLogger attaches a logger for write and flush events. Attach before
// the first operation.
func (s *Store) SetLogger(l *observability.Logger) {
	s.log = l
}

// SetCollector attaches an operation metrics collector. Attach before the
// first operation.
func (s *Store) SetCollector(c *observability.Collector) {
	s.ops = c
}

// Insert writes a new entry under key. The key is expected to be free: if
// an entry already exists the insert is rejected with AlreadyExists and
// the store is left untouched. This is a rejection, not an upsert.
func (s *Store) Insert(key, value string) (WriteResult, error) {
	defer s.observe(observability.OpInsert, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validate(key, value); err != nil {
		return 0, err
	}
	if _, ok := s.values[key]; ok {
		return AlreadyExists, nil
	}

	ent, err := NewEntry(value)
	if err != nil {
		return 0, err
	}
	s.values[key] = ent
	s.touch()
	s.debug("insert", key, Inserted)
	return Inserted, nil
}

// Update changes the value for key, inserting it when absent. It returns
// Inserted for a fresh key and Updated otherwise. Updated is reported
// even when the new value matches the old one; in that case the entry
// itself is left unchanged (same version, same timestamp) but the store
// metrics are refreshed.
func (s *Store) Update(key, value string) (WriteResult, error) {
	defer s.observe(observability.OpUpdate, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validate(key, value); err != nil {
		return 0, err
	}

	old, ok := s.values[key]
	if !ok {
		ent, err := NewEntry(value)
		if err != nil {
			return 0, err
		}
		s.values[key] = ent
		s.touch()
		s.debug("update", key, Inserted)
		return Inserted, nil
	}

	s.values[key] = old.Update(value)
	s.touch()
	s.debug("update", key, Updated)
	return Updated, nil
}

// Get returns the entry for key if present. It is a pure read: no
// metrics are refreshed.
func (s *Store) Get(key string) (Entry, bool) {
	defer s.observe(observability.OpGet, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.values[key]
	return ent, ok
}

// Delete removes the entry for key, reporting Updated on removal and
// DoesNotExist when there is nothing to remove.
func (s *Store) Delete(key string) WriteResult {
	defer s.observe(observability.OpDelete, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return DoesNotExist
	}
	delete(s.values, key)
	s.touch()
	s.debug("delete", key, Updated)
	return Updated
}

// Len returns the number of entries in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Metrics returns a copy of the store's current metrics.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// Path returns the snapshot location; empty when persistence is disabled.
func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Flush writes the full store snapshot through the snapshotter. LastWrite
// is stamped before serialization, so the persisted snapshot's own
// LastWrite field describes the flush that wrote it. On failure the
// in-memory entries and metrics are left as they were, apart from
// WriteError, which records the failure until the next successful flush.
func (s *Store) Flush() error {
	defer s.observe(observability.OpFlush, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		return nil
	}

	m := s.metrics
	m.LastWrite = time.Now().Unix()
	m.WriteError = ""

	doc := &Snapshot{
		ID:      uuid.New().String(),
		Path:    s.path,
		Metrics: m,
		Values:  maps.Clone(s.values),
	}
	if err := s.snap.Write(doc); err != nil {
		s.metrics.WriteError = err.Error()
		if s.log != nil {
			s.log.Error("flush failed", "path", s.path, "error", err)
		}
		return fmt.Errorf("flush: %w", err)
	}

	s.metrics = m
	if s.log != nil {
		s.log.Debug("flush", "path", s.path, "snapshot_id", doc.ID, "size", m.Size)
	}
	return nil
}

// Load reads the JSON snapshot at path and reconstructs the store it
// describes. A missing file or malformed content is an error; a partially
// populated store is never returned.
func Load(path string) (*Store, error) {
	doc, err := NewFileSnapshotter(path).Read()
	if err != nil {
		return nil, err
	}
	return fromSnapshot(doc, nil), nil
}

// Open loads the snapshot at path, falling back to a fresh store when the
// file does not exist or the path is empty.
func Open(path string) (*Store, error) {
	if path == "" {
		return New(""), nil
	}
	s, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(path), nil
		}
		return nil, err
	}
	return s, nil
}

// OpenWith loads a store through snap, falling back to a fresh store when
// no snapshot has been written yet. The store keeps flushing through snap.
func OpenWith(path string, snap Snapshotter) (*Store, error) {
	doc, err := snap.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewWithSnapshotter(path, snap), nil
		}
		return nil, err
	}
	return fromSnapshot(doc, snap), nil
}

// fromSnapshot rebuilds a store from a snapshot document. The persisted
// path wins over the location the snapshot was read from, so a loaded
// store flushes back to wherever it says it lives. A nil snapshotter is
// rebound to the persisted path.
func fromSnapshot(doc *Snapshot, snap Snapshotter) *Store {
	s := &Store{
		path:    doc.Path,
		values:  doc.Values,
		metrics: doc.Metrics,
		snap:    snap,
	}
	if s.values == nil {
		s.values = make(map[string]Entry)
	}
	if s.snap == nil && s.path != "" {
		s.snap = NewFileSnapshotter(s.path)
	}
	return s
}

// touch refreshes the write-side metrics. Callers hold the mutex.
func (s *Store) touch() {
	s.metrics.LastUpdate = time.Now().Unix()
	s.metrics.Size = len(s.values)
}

func (s *Store) observe(op observability.Op, start time.Time) {
	if s.ops != nil {
		s.ops.Record(op, time.Since(start))
	}
}

func (s *Store) debug(op, key string, r WriteResult) {
	if s.log != nil {
		s.log.Debug(op, "key", key, "result", r.String())
	}
}

func validate(key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	if value == "" {
		return ErrInvalidValue
	}
	return nil
}
