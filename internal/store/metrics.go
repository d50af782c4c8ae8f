package store

// Metrics carries basic health information about a store. It is refreshed
// as a side effect of write operations and of Flush, never by readers.
type Metrics struct {
	// LastUpdate is the Unix time of the most recent successful write
	// (insert, update, or delete); 0 if the store has never been written.
	LastUpdate int64 `json:"last_update"`

	// LastWrite is the Unix time of the most recent successful flush to
	// disk; 0 if never flushed.
	LastWrite int64 `json:"last_write"`

	// Size is the current number of keys held by the store.
	Size int `json:"size"`

	// WriteError holds the most recent flush failure, cleared by the next
	// successful flush.
	WriteError string `json:"write_error,omitempty"`
}
