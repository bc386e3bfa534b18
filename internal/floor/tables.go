package floor

import (
	"fmt"
	"time"
)

// AddTable places a new table on the floor. New tables start free at their
// original capacity.
func AddTable(s Snapshot, t Table) (Snapshot, Table, error) {
	if _, exists := s.Tables[t.ID]; exists || t.ID == "" {
		return s, Table{}, fmt.Errorf("%w: table %q", ErrDuplicateID, t.ID)
	}
	if _, exists := s.Retired[t.ID]; exists {
		return s, Table{}, fmt.Errorf("%w: table %q", ErrDuplicateID, t.ID)
	}
	if t.Shape == "" {
		t.Shape = ShapeSquare
	}
	if t.OriginalCapacity == 0 {
		t.OriginalCapacity = t.Capacity
	}
	t.Status = StatusFree
	t.SeatedAt = nil
	t.LastOrderAt = nil
	t.IsExtended = t.Capacity > t.OriginalCapacity
	t.SubTableIDs = nil
	t.Reservations = nil

	next := s.Clone()
	t = t.Clone()
	next.put(t)
	next.Order = append(next.Order, t.ID)
	return next, t, nil
}

// RemoveTable deletes a free table. Its upcoming reservations move to the
// unassigned pool; a merged table also drops the leaf records it absorbed.
func RemoveTable(s Snapshot, tableID string, now time.Time) (Snapshot, []Reservation, error) {
	t, ok := s.Table(tableID)
	if !ok {
		return s, nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if t.Status == StatusOccupied {
		return s, nil, fmt.Errorf("%w: %s", ErrTableOccupied, tableID)
	}
	next := s.Clone()
	var moved []Reservation
	for _, r := range t.Reservations {
		if !r.Status.Upcoming() {
			continue
		}
		r.TableID, r.TableName, r.OriginTableID = "", "", ""
		r.UpdatedAt = now
		moved = append(moved, r)
	}
	for _, leaf := range t.SubTableIDs {
		delete(next.Retired, leaf)
	}
	delete(next.Tables, tableID)
	next.removeFromOrder(tableID)
	next.Unassigned = append(next.Unassigned, moved...)
	return next, moved, nil
}

// RenameTable changes the display name, which reservations carry as well.
func RenameTable(s Snapshot, tableID, name string) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	t.Name = name
	for i := range t.Reservations {
		t.Reservations[i].TableName = name
	}
	next.put(t)
	return next, t, nil
}

// AdjustCapacity adds delta seats to a table without dropping below its original
// capacity. The table is extended while it seats more than its baseline.
func AdjustCapacity(s Snapshot, tableID string, delta int) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	t.Capacity = max(t.OriginalCapacity, t.Capacity+delta)
	t.IsExtended = t.Capacity > t.OriginalCapacity
	next.put(t)
	return next, t, nil
}

// MakePermanent keeps a quick-added table in the floor layout.
func MakePermanent(s Snapshot, tableID string) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	t.IsTemporary = false
	next.put(t)
	return next, t, nil
}
