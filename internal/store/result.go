package store

// WriteResult reports the outcome of a write operation. Outcomes are
// informational, not errors: AlreadyExists on insert is a normal rejection,
// not a fault.
type WriteResult int

const (
	// AlreadyExists: an insert was rejected because the key is taken.
	AlreadyExists WriteResult = iota + 1
	// Inserted: a new entry was created under the key.
	Inserted
	// Updated: an existing entry was replaced or removed.
	Updated
	// DoesNotExist: a delete targeted a key with no entry.
	DoesNotExist
)

func (r WriteResult) String() string {
	switch r {
	case AlreadyExists:
		return "key already exists"
	case Inserted:
		return "new entry inserted"
	case Updated:
		return "entry was updated"
	case DoesNotExist:
		return "key doesn't exist"
	default:
		return "unknown result"
	}
}
