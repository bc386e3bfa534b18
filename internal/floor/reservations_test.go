package floor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReservationConflicts(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(newTable("t1", "1", 4, 0, 0))
	s = mustAdd(t, s, "t1", newReservation("a", "2026-03-01", "19:00", 4))

	t.Run("later booking after turn time fits", func(t *testing.T) {
		t.Parallel()
		_, r, err := AddReservation(s, "t1", newReservation("b", "2026-03-01", "21:05", 4), false, testCfg)
		require.NoError(t, err)
		assert.Equal(t, "t1", r.TableID)
		assert.Equal(t, "t1", r.OriginTableID)
	})

	t.Run("overlapping booking is a time conflict", func(t *testing.T) {
		t.Parallel()
		_, _, err := AddReservation(s, "t1", newReservation("b", "2026-03-01", "20:30", 4), false, testCfg)
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, ConflictTime, conflict.Kind)
		assert.Equal(t, []string{"a"}, conflict.With)
		assert.Equal(t, []Resolution{ResolutionForce, ResolutionCancel}, conflict.Resolutions)
	})

	t.Run("force accepts the double booking", func(t *testing.T) {
		t.Parallel()
		next, _, err := AddReservation(s, "t1", newReservation("b", "2026-03-01", "20:30", 4), true, testCfg)
		require.NoError(t, err)
		assert.Len(t, next.Tables["t1"].Reservations, 2)
	})

	t.Run("oversized party is a capacity conflict offering merge", func(t *testing.T) {
		t.Parallel()
		_, _, err := AddReservation(s, "t1", newReservation("b", "2026-03-02", "20:30", 6), false, testCfg)
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, ConflictCapacity, conflict.Kind)
		assert.Contains(t, conflict.Resolutions, ResolutionMerge)
	})

	t.Run("cancelled reservation never conflicts", func(t *testing.T) {
		t.Parallel()
		cancelled, _, err := CancelReservation(s, "a", testNow)
		require.NoError(t, err)
		_, _, err = AddReservation(cancelled, "t1", newReservation("b", "2026-03-01", "19:30", 4), false, testCfg)
		assert.NoError(t, err)
	})

	t.Run("unassigned pool accepts any booking", func(t *testing.T) {
		t.Parallel()
		next, r, err := AddReservation(s, "", newReservation("b", "2026-03-01", "19:00", 12), false, testCfg)
		require.NoError(t, err)
		assert.Empty(t, r.TableID)
		assert.Len(t, next.Unassigned, 1)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := AddReservation(s, "", newReservation("a", "2026-03-05", "19:00", 2), false, testCfg)
		assert.ErrorIs(t, err, ErrDuplicateID)
	})
}

func TestPerTableTurnTime(t *testing.T) {
	t.Parallel()

	table := newTable("t1", "1", 4, 0, 0)
	table.TurnTime = &testCfgShort
	s := NewSnapshot(table)
	s = mustAdd(t, s, "t1", newReservation("a", "2026-03-01", "19:00", 4))

	_, _, err := AddReservation(s, "t1", newReservation("b", "2026-03-01", "20:00", 4), false, testCfg)
	assert.NoError(t, err)
}

func TestMoveReservation(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(newTable("t1", "1", 4, 0, 0), newTable("t2", "2", 2, 10, 0), newTable("t3", "3", 6, 20, 0))
	s = mustAdd(t, s, "t1", newReservation("a", "2026-03-01", "19:00", 4))
	s = mustAdd(t, s, "t3", newReservation("c", "2026-03-01", "20:00", 2))
	s = mustAdd(t, s, "", newReservation("pool", "2026-03-01", "13:00", 2))

	t.Run("destination capacity is re-validated", func(t *testing.T) {
		t.Parallel()
		_, _, err := MoveReservation(s, "a", "t1", "t2", false, testCfg, testNow)
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, ConflictCapacity, conflict.Kind)
	})

	t.Run("destination time is re-validated", func(t *testing.T) {
		t.Parallel()
		_, _, err := MoveReservation(s, "a", "t1", "t3", false, testCfg, testNow)
		var conflict *ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, ConflictTime, conflict.Kind)
	})

	t.Run("forced move relocates", func(t *testing.T) {
		t.Parallel()
		next, r, err := MoveReservation(s, "a", "t1", "t3", true, testCfg, testNow)
		require.NoError(t, err)
		assert.Equal(t, "t3", r.TableID)
		assert.Empty(t, next.Tables["t1"].Reservations)
		assert.Len(t, next.Tables["t3"].Reservations, 2)
	})

	t.Run("unassigned reservation is placed", func(t *testing.T) {
		t.Parallel()
		next, _, err := MoveReservation(s, "pool", "", "t2", false, testCfg, testNow)
		require.NoError(t, err)
		assert.Empty(t, next.Unassigned)
		assert.Len(t, next.Tables["t2"].Reservations, 1)
	})

	t.Run("wrong source table is rejected", func(t *testing.T) {
		t.Parallel()
		_, _, err := MoveReservation(s, "a", "t2", "t3", true, testCfg, testNow)
		assert.ErrorIs(t, err, ErrReservationNotOnTable)
	})
}

func TestUpdateReservationRevalidates(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(newTable("t1", "1", 4, 0, 0))
	s = mustAdd(t, s, "t1", newReservation("a", "2026-03-01", "19:00", 2))
	s = mustAdd(t, s, "t1", newReservation("b", "2026-03-01", "21:00", 2))

	edit := newReservation("b", "2026-03-01", "19:45", 2)
	_, _, err := UpdateReservation(s, edit, false, testCfg)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))

	edit.Time = "21:30"
	edit.Notes = "window seat"
	next, r, err := UpdateReservation(s, edit, false, testCfg)
	require.NoError(t, err)
	assert.Equal(t, "21:30", r.Time)
	assert.Equal(t, "t1", r.TableID)
	_, stored, _ := next.FindReservation("b")
	assert.Equal(t, "window seat", stored.Notes)
}

func TestUpdateReservationRequiresUpcoming(t *testing.T) {
	t.Parallel()

	base := NewSnapshot(newTable("t1", "1", 4, 0, 0))
	base = mustAdd(t, base, "t1", newReservation("r1", "2026-03-01", "19:30", 2))
	arrived, _, err := CheckIn(base, "t1", "r1", testNow)
	require.NoError(t, err)
	completed, _, err := Free(arrived, "t1", testNow)
	require.NoError(t, err)
	cancelled, _, err := CancelReservation(base, "r1", testNow)
	require.NoError(t, err)

	tests := map[string]struct {
		snap Snapshot
		want ReservationStatus
	}{
		"arrived":   {snap: arrived, want: ReservationArrived},
		"completed": {snap: completed, want: ReservationCompleted},
		"cancelled": {snap: cancelled, want: ReservationCancelled},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			edit := newReservation("r1", "2026-03-02", "20:00", 3)
			next, _, err := UpdateReservation(tt.snap, edit, true, testCfg)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			_, stored, ok := next.FindReservation("r1")
			require.True(t, ok)
			assert.Equal(t, tt.want, stored.Status)
			assert.Equal(t, "2026-03-01", stored.Date)
			assert.Equal(t, 2, stored.Guests)
		})
	}
}

func TestCancelAndDeleteReservation(t *testing.T) {
	t.Parallel()

	s := NewSnapshot(newTable("t1", "1", 4, 0, 0))
	s = mustAdd(t, s, "t1", newReservation("a", "2026-03-01", "19:30", 2))

	seated, _, err := CheckIn(s, "t1", "a", testNow)
	require.NoError(t, err)
	_, _, err = CancelReservation(seated, "a", testNow)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, _, err = DeleteReservation(seated, "a")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	cancelled, r, err := CancelReservation(s, "a", testNow)
	require.NoError(t, err)
	assert.Equal(t, ReservationCancelled, r.Status)

	deleted, _, err := DeleteReservation(cancelled, "a")
	require.NoError(t, err)
	_, _, found := deleted.FindReservation("a")
	assert.False(t, found)

	_, _, err = DeleteReservation(deleted, "a")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
