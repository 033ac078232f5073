package scheduler

import (
	"sort"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
)

// A PhasedCourse pairs a course with its scheduling phase.
type PhasedCourse struct {
	Phase  Phase
	Course catalog.Course
}

// priorityScore ranks courses within a phase: heavier, more constrained
// courses place first.
func priorityScore(c catalog.Course) int {
	return c.YearLevel*1000 +
		(c.UnitsLecture+2*c.UnitsLab)*100 +
		c.UnitsLab*50 +
		c.SectionCount()*10
}

// classify assigns the scheduling phase for one course. The predicate keeps
// the historical grouping: lecture-only courses of any upper year fall into
// the regular tier alongside 2nd-3rd year lab courses.
func classify(c catalog.Course) Phase {
	hasLab := c.UnitsLab > 0
	switch {
	case c.YearLevel <= 1 && !hasLab:
		return PhaseFlexible
	case (c.YearLevel >= 2 && c.YearLevel < 4 && hasLab) || (!hasLab && c.YearLevel >= 2):
		return PhaseRegular
	default:
		return PhaseCritical
	}
}

// Partition orders courses by (phase ascending, priority descending) and
// reports the set of course codes carrying both lecture and lab units,
// which the extractor uses for display-code suffixing.
func Partition(courses []catalog.Course) ([]PhasedCourse, map[string]bool) {
	withBoth := make(map[string]bool)
	parted := make([]PhasedCourse, 0, len(courses))
	for _, c := range courses {
		if c.UnitsLecture > 0 && c.UnitsLab > 0 {
			withBoth[c.Code] = true
		}
		parted = append(parted, PhasedCourse{Phase: classify(c), Course: c})
	}
	sort.SliceStable(parted, func(i, j int) bool {
		if parted[i].Phase != parted[j].Phase {
			return parted[i].Phase < parted[j].Phase
		}
		return priorityScore(parted[i].Course) > priorityScore(parted[j].Course)
	})
	return parted, withBoth
}
