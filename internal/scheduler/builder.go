package scheduler

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/cpsat"
)

var (
	errNoFeasibleDomain = errors.New("no feasible start slots for session")
	errNoRooms          = errors.New("no rooms available for session kind")
)

// roomGroupKey groups sessions that must share one room.
type roomGroupKey struct {
	Code    string
	Program string
	Year    int
	Block   string
	Kind    SessionKind
}

// A phaseModel is one phase's constraint model plus the bookkeeping needed
// to decode its solution.
type phaseModel struct {
	model            *cpsat.Model
	sessions         []*Session
	sectionIntervals map[SectionKey][]*cpsat.Interval
	roomIntervals    map[RoomKey][]*cpsat.Interval
}

// buildPhaseModel constructs the decision variables and constraints for one
// phase. Events already scheduled in earlier phases enter as fixed intervals
// in their room buckets, which is the only mechanism keeping later phases
// off occupied rooms.
func (s *Scheduler) buildPhaseModel(courses []catalog.Course, optimize bool, onCourse func(done int)) (*phaseModel, error) {
	pm := &phaseModel{
		model:            cpsat.NewModel(),
		sectionIntervals: make(map[SectionKey][]*cpsat.Interval),
		roomIntervals:    make(map[RoomKey][]*cpsat.Interval),
	}

	prior := 0
	for _, ev := range s.events {
		key := RoomKey{Kind: ev.RoomKind, Index: ev.RoomIndex}
		iv := pm.model.NewFixedInterval(ev.StartSlot, ev.Duration, fmt.Sprintf("prior_fixed_%d", ev.ScheduleID))
		pm.roomIntervals[key] = append(pm.roomIntervals[key], iv)
		prior++
	}
	if prior > 0 {
		s.log.Info("carry-forward intervals added", zap.Int("count", prior))
	}

	for idx, course := range courses {
		if err := s.buildCourse(pm, course); err != nil {
			return nil, err
		}
		if onCourse != nil {
			onCourse(idx + 1)
		}
	}

	for _, intervals := range pm.sectionIntervals {
		if len(intervals) > 0 {
			pm.model.AddNoOverlap(intervals)
		}
	}
	for _, intervals := range pm.roomIntervals {
		if len(intervals) > 0 {
			pm.model.AddNoOverlap(intervals)
		}
	}

	s.addRoomConsistency(pm)

	if optimize {
		s.addObjectives(pm)
	}
	return pm, nil
}

func (s *Scheduler) buildCourse(pm *phaseModel, course catalog.Course) error {
	for b := 0; b < course.SectionCount(); b++ {
		block := string(rune('A' + b))
		key := SectionKey{Program: course.Program, Year: course.YearLevel, Block: block}
		if course.UnitsLecture > 0 {
			if err := s.buildMeetings(pm, course, key, KindLecture, course.UnitsLecture); err != nil {
				return err
			}
		}
		if course.UnitsLab > 0 {
			if err := s.buildMeetings(pm, course, key, KindLab, course.UnitsLab); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildMeetings creates the variables and intervals for every meeting of one
// (course, block, kind) group, then caps how many land on a single day.
func (s *Scheduler) buildMeetings(pm *phaseModel, course catalog.Course, key SectionKey, kind SessionKind, count int) error {
	duration := kind.MeetingSlots()
	isLab := kind == KindLab

	starts := s.ledger.AvailableSectionStarts(key, duration, isLab, s.cfg.CandidateCap)
	if len(starts) == 0 {
		// let the solver judge the full search space before giving up
		s.log.Warn("no open starts for section, falling back to full space",
			zap.String("course", course.Code),
			zap.String("kind", string(kind)),
			zap.String("block", key.Block))
		if isLab {
			starts = s.grid.LabStarts
		} else {
			for v := 0; v <= s.grid.TotalInc-duration; v++ {
				starts = append(starts, v)
			}
		}
		if len(starts) == 0 {
			return fmt.Errorf("%w: %s %s block %s", errNoFeasibleDomain, course.Code, kind, key.Block)
		}
	}
	if len(starts) > s.cfg.DomainCap {
		s.log.Info("start domain truncated",
			zap.String("course", course.Code),
			zap.String("block", key.Block),
			zap.Int("candidates", len(starts)),
			zap.Int("kept", s.cfg.DomainCap))
		starts = starts[:s.cfg.DomainCap]
	}

	roomKind := kind.RoomKind()
	numRooms := len(s.rooms.ByKind(roomKind))
	if numRooms == 0 {
		return fmt.Errorf("%w: %s needs a %s room", errNoRooms, course.Code, roomKind)
	}

	m := pm.model
	var dayVars []*cpsat.IntVar
	for i := 0; i < count; i++ {
		tag := fmt.Sprintf("%s_%s_%s_%d", course.Code, kind, key.Block, i)

		start := m.NewIntVarFromValues(starts, tag+"_s")
		end := m.NewIntVar(duration, s.grid.TotalInc, tag+"_e")
		m.AddOffset(end, start, duration)

		day := m.NewIntVar(0, len(s.grid.Days)-1, tag+"_d")
		m.AddDiv(day, start, s.grid.IncDay)
		// the meeting must end on the day it starts
		offset := m.NewIntVar(0, s.grid.IncDay-duration, tag+"_off")
		m.AddModulo(offset, start, s.grid.IncDay)

		room := m.NewIntVar(0, numRooms-1, tag+"_room")

		sess := &Session{
			ID:       s.nextID,
			Code:     course.Code,
			Title:    course.Title,
			Program:  course.Program,
			Year:     course.YearLevel,
			Block:    key.Block,
			Kind:     kind,
			Duration: duration,
			Start:    start,
			End:      end,
			Day:      day,
			Room:     room,
		}
		s.nextID++

		iv := m.NewInterval(start, duration, fmt.Sprintf("iv_%d", sess.ID))
		pm.sectionIntervals[key] = append(pm.sectionIntervals[key], iv)

		for r := 0; r < numRooms; r++ {
			lit := m.NewBoolVar(fmt.Sprintf("use_%d_room_%d", sess.ID, r))
			m.AddEqualConstReif(room, r, lit)
			opt := m.NewOptionalInterval(start, duration, lit, fmt.Sprintf("opt_iv_%d_%d", sess.ID, r))
			rk := RoomKey{Kind: roomKind, Index: r}
			pm.roomIntervals[rk] = append(pm.roomIntervals[rk], opt)
		}

		pm.sessions = append(pm.sessions, sess)
		dayVars = append(dayVars, day)
	}

	if len(dayVars) > 1 {
		s.addDayCaps(pm, dayVars, isLab, course.Code, key.Block)
	}
	return nil
}

// addDayCaps bounds how many meetings of one (course, block, kind) group may
// fall on the same day: one lecture, or two lab meetings.
func (s *Scheduler) addDayCaps(pm *phaseModel, dayVars []*cpsat.IntVar, isLab bool, code, block string) {
	cap := s.cfg.MaxLecturesPerDay
	if isLab {
		cap = s.cfg.MaxLabsPerDay
	}
	m := pm.model
	for d := 0; d < len(s.grid.Days); d++ {
		lits := make([]*cpsat.IntVar, len(dayVars))
		for i, dv := range dayVars {
			lit := m.NewBoolVar(fmt.Sprintf("%s_%s_day%d_sess%d", code, block, d, i))
			m.AddEqualConstReif(dv, d, lit)
			lits[i] = lit
		}
		m.AddSumAtMost(lits, cap)
	}
}

// addRoomConsistency chains the room variables of sessions belonging to the
// same (course, program, year, block, kind) group so they resolve to one room.
func (s *Scheduler) addRoomConsistency(pm *phaseModel) {
	groups := make(map[roomGroupKey][]*cpsat.IntVar)
	for _, sess := range pm.sessions {
		key := roomGroupKey{Code: sess.Code, Program: sess.Program, Year: sess.Year, Block: sess.Block, Kind: sess.Kind}
		groups[key] = append(groups[key], sess.Room)
	}
	for _, rooms := range groups {
		for _, other := range rooms[1:] {
			pm.model.AddEqual(other, rooms[0])
		}
	}
}
