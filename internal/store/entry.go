package store

import "time"

// Entry combines a stored string with its write metadata. Entries are
// immutable values: every change produces a new Entry rather than editing
// fields in place, so the versioning law (the value changes iff the version
// increments) holds by construction.
type Entry struct {
	Time    int64  `json:"time"`    // Unix timestamp of the last version-changing write.
	Version int64  `json:"version"` // Starts at 1; incremented on each value change.
	Value   string `json:"value"`
}

// NewEntry initialises a first-version entry for value. Empty values are
// not valid in this store.
func NewEntry(value string) (Entry, error) {
	if value == "" {
		return Entry{}, ErrInvalidValue
	}
	return Entry{
		Time:    time.Now().Unix(),
		Version: 1,
		Value:   value,
	}, nil
}

// Update returns the next version of e holding value. When value matches
// the current one, the receiver is returned unchanged, timestamp and
// version included.
func (e Entry) Update(value string) Entry {
	if value == e.Value {
		return e
	}
	return Entry{
		Time:    time.Now().Unix(),
		Version: e.Version + 1,
		Value:   value,
	}
}
