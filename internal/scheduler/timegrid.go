package scheduler

import "github.com/ALEX0661/OPTISCHEDULE/internal/catalog"

// slotsPerHour fixes the grid at 30-minute granularity.
const slotsPerHour = 2

// A Grid is the discretized weekly timetable. Slot indexes run
// 0..TotalInc-1; slot s sits on day s/IncDay at offset s%IncDay.
type Grid struct {
	StartHour int
	EndHour   int
	IncHr     int
	IncDay    int
	TotalInc  int
	Days      []string
	LabStarts []int
}

// NewGrid discretizes the opening hours over the given days and computes
// the start positions a 3-slot lab may take: every slot except the last two
// of each day, so a lab beginning at IncDay-3 runs into the final two slots.
func NewGrid(ts catalog.TimeSettings, days []string) Grid {
	g := Grid{
		StartHour: ts.StartTime,
		EndHour:   ts.EndTime,
		IncHr:     slotsPerHour,
		Days:      days,
	}
	g.IncDay = (g.EndHour - g.StartHour) * g.IncHr
	g.TotalInc = g.IncDay * len(days)
	for d := range days {
		base := d * g.IncDay
		for s := base; s < base+g.IncDay-2; s++ {
			g.LabStarts = append(g.LabStarts, s)
		}
	}
	return g
}

func (g Grid) DayOf(slot int) int { return slot / g.IncDay }

func (g Grid) OffsetOf(slot int) int { return slot % g.IncDay }
