package scheduler

// Window is a half-open occupancy interval [Start, End) in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// WindowFor returns the occupancy window of a party starting at start.
func WindowFor(start, guests int, cfg TurnTimeConfig) Window {
	return Window{Start: start, End: start + ResolveTurnTime(guests, cfg)}
}

// Overlaps reports whether the two half-open windows intersect. Touching windows do not.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

// Conflicts reports whether two parties would occupy the same table at the same time.
// Each party holds the table for its own turn time, so the check is symmetric.
func Conflicts(timeA, guestsA, timeB, guestsB int, cfg TurnTimeConfig) bool {
	return WindowFor(timeA, guestsA, cfg).Overlaps(WindowFor(timeB, guestsB, cfg))
}

// Booking is the scheduling view of a reservation held by a table.
type Booking struct {
	ID     string
	Date   string
	Start  int
	Guests int
	// Active is false for cancelled and completed reservations.
	Active bool
}

// Conflict details an overlapping booking that callers can present to users.
type Conflict struct {
	WithBookingID string
	Window        Window
}

// DetectConflicts identifies active bookings on the candidate's date whose windows
// overlap the candidate. Windows are confined to their own date: a late booking
// whose turn runs past midnight never blocks one on the next day. The candidate's own id is ignored so edits do not collide
// with the stored version of themselves.
func DetectConflicts(existing []Booking, candidate Booking, cfg TurnTimeConfig) []Conflict {
	var conflicts []Conflict
	for _, b := range existing {
		if !b.Active || b.Date != candidate.Date {
			continue
		}
		if candidate.ID != "" && b.ID == candidate.ID {
			continue
		}
		if Conflicts(candidate.Start, candidate.Guests, b.Start, b.Guests, cfg) {
			conflicts = append(conflicts, Conflict{
				WithBookingID: b.ID,
				Window:        WindowFor(b.Start, b.Guests, cfg),
			})
		}
	}
	return conflicts
}

// OverlapsWalkIn reports whether a booking's window overlaps a walk-in seated at now.
// The walk-in occupies [now, now+lookahead); a non-positive lookahead is treated as the
// current minute.
func OverlapsWalkIn(start, guests, now, lookahead int, cfg TurnTimeConfig) bool {
	if lookahead < 1 {
		lookahead = 1
	}
	return WindowFor(start, guests, cfg).Overlaps(Window{Start: now, End: now + lookahead})
}
