package floor

import (
	"fmt"
	"strings"
)

// Merge combines the target and source tables into one composite table with id
// newID. Inputs must be free and at least two distinct tables must be named. The
// merged table takes the target's place in display order.
func Merge(s Snapshot, targetID string, sourceIDs []string, newID string) (Snapshot, Table, error) {
	ids := distinct(append([]string{targetID}, sourceIDs...))
	if len(ids) < 2 {
		return s, Table{}, ErrMergeTooFew
	}
	if _, exists := s.Tables[newID]; exists || newID == "" {
		return s, Table{}, fmt.Errorf("%w: %q", ErrDuplicateID, newID)
	}
	if _, exists := s.Retired[newID]; exists {
		return s, Table{}, fmt.Errorf("%w: %q", ErrDuplicateID, newID)
	}

	inputs := make([]Table, 0, len(ids))
	for _, id := range ids {
		t, ok := s.Table(id)
		if !ok {
			return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, id)
		}
		if t.Status == StatusOccupied {
			return s, Table{}, fmt.Errorf("%w: %s", ErrMergeOccupied, id)
		}
		inputs = append(inputs, t)
	}

	next := s.Clone()
	target := inputs[0]
	merged := Table{
		ID:          newID,
		Floor:       target.Floor,
		Shape:       ShapeRectangle,
		Status:      StatusFree,
		IsExtended:  true,
		TurnTime:    target.Clone().TurnTime,
		SubTableIDs: []string{},
	}

	names := make([]string, 0, len(inputs))
	var sumX, sumY float64
	for _, t := range inputs {
		names = append(names, t.Name)
		merged.Capacity += t.Capacity
		merged.OriginalCapacity += t.OriginalCapacity
		sumX += t.Position.X
		sumY += t.Position.Y
		merged.IsTemporary = merged.IsTemporary || t.IsTemporary

		if t.IsMerged() {
			merged.SubTableIDs = append(merged.SubTableIDs, t.SubTableIDs...)
		} else {
			leaf := t.Clone()
			leaf.Reservations = nil
			next.Retired[leaf.ID] = leaf
			merged.SubTableIDs = append(merged.SubTableIDs, t.ID)
		}
		for _, r := range t.Reservations {
			if !t.IsMerged() {
				r.OriginTableID = t.ID
			}
			merged.Reservations = append(merged.Reservations, r)
		}
	}
	n := float64(len(inputs))
	merged.Position = Position{X: sumX / n, Y: sumY / n}
	merged.Name = strings.Join(names, "+")
	for i := range merged.Reservations {
		merged.Reservations[i].TableID = merged.ID
		merged.Reservations[i].TableName = merged.Name
	}

	slot := indexOf(next.Order, targetID)
	for _, t := range inputs {
		delete(next.Tables, t.ID)
	}
	order := make([]string, 0, len(next.Order)-len(inputs)+1)
	for i, id := range next.Order {
		if i == slot {
			order = append(order, merged.ID)
		}
		if _, live := next.Tables[id]; live {
			order = append(order, id)
		}
	}
	if slot < 0 {
		order = append(order, merged.ID)
	}
	next.Order = order
	next.put(merged)
	return next, merged, nil
}

// SplitResult holds the tables restored by a split and any reservations that had
// no leaf table to return to.
type SplitResult struct {
	Tables     []Table
	Unassigned []Reservation
}

// Split reverses a merge. Each leaf table is restored as it was saved, free, with
// the reservations originally booked on it. Reservations booked on the composite
// itself move to the unassigned pool. An occupied table must be freed first.
func Split(s Snapshot, tableID string) (Snapshot, SplitResult, error) {
	t, ok := s.Table(tableID)
	if !ok {
		return s, SplitResult{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if !t.IsMerged() {
		return s, SplitResult{}, fmt.Errorf("%w: %s", ErrNothingToSplit, tableID)
	}
	if t.Status == StatusOccupied {
		return s, SplitResult{}, fmt.Errorf("%w: %s", ErrTableOccupied, tableID)
	}

	next := s.Clone()
	byLeaf := make(map[string][]Reservation, len(t.SubTableIDs))
	var result SplitResult
	for _, r := range t.Reservations {
		if r.OriginTableID != "" && contains(t.SubTableIDs, r.OriginTableID) {
			byLeaf[r.OriginTableID] = append(byLeaf[r.OriginTableID], r)
			continue
		}
		r.TableID = ""
		r.TableName = ""
		r.OriginTableID = ""
		result.Unassigned = append(result.Unassigned, r)
	}

	for _, leafID := range t.SubTableIDs {
		leaf, ok := next.Retired[leafID]
		if !ok {
			return s, SplitResult{}, fmt.Errorf("%w: sub-table %s", ErrTableNotFound, leafID)
		}
		restored := leaf.Clone()
		release(&restored)
		restored.Reservations = nil
		for _, r := range byLeaf[leafID] {
			r.TableID = restored.ID
			r.TableName = restored.Name
			restored.Reservations = append(restored.Reservations, r)
		}
		delete(next.Retired, leafID)
		result.Tables = append(result.Tables, restored)
	}

	slot := next.removeFromOrder(tableID)
	delete(next.Tables, tableID)
	restoredIDs := make([]string, 0, len(result.Tables))
	for _, r := range result.Tables {
		next.put(r)
		restoredIDs = append(restoredIDs, r.ID)
	}
	if slot < 0 {
		slot = len(next.Order)
	}
	order := make([]string, 0, len(next.Order)+len(restoredIDs))
	order = append(order, next.Order[:slot]...)
	order = append(order, restoredIDs...)
	order = append(order, next.Order[slot:]...)
	next.Order = order
	next.Unassigned = append(next.Unassigned, result.Unassigned...)
	return next, result, nil
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func contains(ids []string, id string) bool {
	return indexOf(ids, id) >= 0
}
