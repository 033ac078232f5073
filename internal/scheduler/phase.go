package scheduler

import "fmt"

// A Phase is one of the three difficulty tiers courses are scheduled in.
// Lower values solve first so the hard tier inherits the least freedom it
// can afford to lose.
type Phase int

const (
	PhaseFlexible Phase = iota + 1 // 1st year, lecture-only
	PhaseRegular                   // 2nd-3rd year with labs, or lecture-only upper years
	PhaseCritical                  // lab courses of 1st year or 4th year and up
)

func (p Phase) String() string {
	switch p {
	case PhaseFlexible:
		return "flexible"
	case PhaseRegular:
		return "regular"
	case PhaseCritical:
		return "critical"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
