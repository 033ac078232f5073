package scheduler

import (
	"github.com/kelindar/bitmap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
)

// A SectionKey identifies one cohort whose sessions may never overlap.
type SectionKey struct {
	Program string
	Year    int
	Block   string
}

// A RoomKey identifies one physical room by kind and catalog index.
type RoomKey struct {
	Kind  catalog.RoomKind
	Index int
}

// The Ledger is the occupancy state carried across phases: which slots each
// room and each cohort already hold. Entries only ever grow within a run.
type Ledger struct {
	grid     Grid
	rooms    map[RoomKey]bitmap.Bitmap
	sections map[SectionKey]bitmap.Bitmap
}

func NewLedger(grid Grid) *Ledger {
	return &Ledger{
		grid:     grid,
		rooms:    make(map[RoomKey]bitmap.Bitmap),
		sections: make(map[SectionKey]bitmap.Bitmap),
	}
}

// AvailableSectionStarts returns up to cap start slots, ascending, from
// which a meeting of the given duration would not touch slots the cohort
// already occupies. Labs search only the lab-eligible start set. When fewer
// than cap starts exist, all of them are returned.
func (l *Ledger) AvailableSectionStarts(key SectionKey, duration int, isLab bool, cap int) []int {
	occupied := l.sections[key]
	var starts []int
	consider := func(start int) bool {
		for k := 0; k < duration; k++ {
			if occupied.Contains(uint32(start + k)) {
				return true
			}
		}
		starts = append(starts, start)
		return len(starts) < cap
	}
	if isLab {
		for _, s := range l.grid.LabStarts {
			if !consider(s) {
				break
			}
		}
		return starts
	}
	for s := 0; s <= l.grid.TotalInc-duration; s++ {
		if !consider(s) {
			break
		}
	}
	return starts
}

// AvailableRooms lists the rooms of a kind free over [start, start+duration).
// Advisory only: the solver owns the real room exclusion.
func (l *Ledger) AvailableRooms(kind catalog.RoomKind, numRooms, start, duration int) []int {
	var free []int
rooms:
	for idx := 0; idx < numRooms; idx++ {
		occupied := l.rooms[RoomKey{Kind: kind, Index: idx}]
		for k := 0; k < duration; k++ {
			if occupied.Contains(uint32(start + k)) {
				continue rooms
			}
		}
		free = append(free, idx)
	}
	return free
}

// Commit marks the slots of a placed event occupied for both its cohort and
// its room. Committed slots are immutable for the rest of the run.
func (l *Ledger) Commit(section SectionKey, room RoomKey, start, duration int) {
	sb := l.sections[section]
	rb := l.rooms[room]
	for k := 0; k < duration; k++ {
		sb.Set(uint32(start + k))
		rb.Set(uint32(start + k))
	}
	l.sections[section] = sb
	l.rooms[room] = rb
}
