package persistence

import "time"

// SnapshotRecord is the stored floor state of one venue. Payload is opaque to the
// persistence layer; Version increases by one on every successful save.
type SnapshotRecord struct {
	VenueID   string
	Version   int64
	Payload   []byte
	UpdatedAt time.Time
}
