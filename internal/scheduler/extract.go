package scheduler

import (
	"fmt"

	"github.com/ALEX0661/OPTISCHEDULE/internal/cpsat"
)

// extractSolution decodes the solver assignment into events and commits each
// one to the ledger so later phases see its occupancy.
func (s *Scheduler) extractSolution(sol *cpsat.Solution, sessions []*Session) []event {
	events := make([]event, 0, len(sessions))
	for _, sess := range sessions {
		start := sol.Value(sess.Start)
		dayIdx := sol.Value(sess.Day)
		roomIdx := sol.Value(sess.Room)

		display := sess.Code
		if s.coursesWithBoth[sess.Code] {
			if sess.Kind == KindLecture {
				display = sess.Code + "A"
			} else {
				display = sess.Code + "L"
			}
		}

		roomKind := sess.Kind.RoomKind()
		ev := event{
			ScheduleID:  sess.ID,
			DisplayCode: display,
			BaseCode:    sess.Code,
			Title:       sess.Title,
			Program:     sess.Program,
			Year:        sess.Year,
			Session:     sess.Kind.Label(),
			Block:       sess.Block,
			Day:         s.grid.Days[dayIdx],
			DayIndex:    dayIdx,
			Period:      s.formatPeriod(start, sess.Duration),
			Room:        s.rooms.ByKind(roomKind)[roomIdx],
			StartSlot:   start,
			Duration:    sess.Duration,
			RoomKind:    roomKind,
			RoomIndex:   roomIdx,
		}
		s.ledger.Commit(
			SectionKey{Program: ev.Program, Year: ev.Year, Block: ev.Block},
			RoomKey{Kind: ev.RoomKind, Index: ev.RoomIndex},
			ev.StartSlot, ev.Duration)
		events = append(events, ev)
	}
	return events
}

// formatPeriod renders a start slot and duration as a human time range,
// e.g. "8:00 AM - 9:00 AM". Noon and midnight render as 12.
func (s *Scheduler) formatPeriod(start, duration int) string {
	minutesPerSlot := 60 / s.grid.IncHr
	from := s.grid.StartHour*60 + s.grid.OffsetOf(start)*minutesPerSlot
	to := from + duration*minutesPerSlot
	return clockTime(from) + " - " + clockTime(to)
}

func clockTime(totalMinutes int) string {
	hour := totalMinutes / 60
	minute := totalMinutes % 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}
