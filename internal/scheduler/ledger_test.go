package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
)

func testGrid() Grid {
	return NewGrid(catalog.TimeSettings{StartTime: 8, EndTime: 17}, []string{"Mon", "Tue"})
}

func TestAvailableSectionStartsSkipsOccupied(t *testing.T) {
	l := NewLedger(testGrid())
	key := SectionKey{Program: "BSCS", Year: 1, Block: "A"}
	l.Commit(key, RoomKey{Kind: catalog.RoomLecture, Index: 0}, 0, 2)

	starts := l.AvailableSectionStarts(key, 2, false, 1000)
	assert.NotContains(t, starts, 0)
	assert.NotContains(t, starts, 1)
	assert.Contains(t, starts, 2)

	// a different cohort still sees the front of the day
	other := SectionKey{Program: "BSIT", Year: 1, Block: "A"}
	starts = l.AvailableSectionStarts(other, 2, false, 1000)
	assert.Contains(t, starts, 0)
}

func TestAvailableSectionStartsHonorsCap(t *testing.T) {
	l := NewLedger(testGrid())
	key := SectionKey{Program: "BSCS", Year: 1, Block: "A"}

	starts := l.AvailableSectionStarts(key, 2, false, 5)
	require.Len(t, starts, 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, starts)
}

func TestAvailableSectionStartsLabSearchSpace(t *testing.T) {
	g := testGrid()
	l := NewLedger(g)
	key := SectionKey{Program: "BSCS", Year: 2, Block: "A"}

	starts := l.AvailableSectionStarts(key, 3, true, 1000)
	assert.Equal(t, g.LabStarts, starts)
}

func TestAvailableRooms(t *testing.T) {
	l := NewLedger(testGrid())
	l.Commit(SectionKey{Program: "BSCS", Year: 1, Block: "A"}, RoomKey{Kind: catalog.RoomLab, Index: 1}, 3, 3)

	free := l.AvailableRooms(catalog.RoomLab, 3, 4, 3)
	assert.Equal(t, []int{0, 2}, free)

	free = l.AvailableRooms(catalog.RoomLab, 3, 6, 3)
	assert.Equal(t, []int{0, 1, 2}, free)
}
