package scheduler

import (
	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/cpsat"
)

type SessionKind string

const (
	KindLecture SessionKind = "lecture"
	KindLab     SessionKind = "lab"
)

func (k SessionKind) RoomKind() catalog.RoomKind {
	if k == KindLab {
		return catalog.RoomLab
	}
	return catalog.RoomLecture
}

// Label renders the kind the way events carry it.
func (k SessionKind) Label() string {
	if k == KindLab {
		return "Laboratory"
	}
	return "Lecture"
}

// MeetingSlots is the meeting length in slots: lectures run an hour,
// labs ninety minutes.
func (k SessionKind) MeetingSlots() int {
	if k == KindLab {
		return 3
	}
	return 2
}

// A Session is one weekly meeting awaiting placement, holding the decision
// variables the solver assigns.
type Session struct {
	ID       int
	Code     string
	Title    string
	Program  string
	Year     int
	Block    string
	Kind     SessionKind
	Duration int

	Start *cpsat.IntVar
	End   *cpsat.IntVar
	Day   *cpsat.IntVar
	Room  *cpsat.IntVar
}

// An event is a placed session. The slot fields feed the carry-forward
// intervals and ledger commits of later phases; they are dropped when the
// event is converted for emission.
type event struct {
	ScheduleID  int
	DisplayCode string
	BaseCode    string
	Title       string
	Program     string
	Year        int
	Session     string
	Block       string
	Day         string
	DayIndex    int
	Period      string
	Room        string

	StartSlot int
	Duration  int
	RoomKind  catalog.RoomKind
	RoomIndex int
}

// A ScheduledEvent is the external form of a placed session.
type ScheduledEvent struct {
	ScheduleID     int    `json:"schedule_id"`
	CourseCode     string `json:"courseCode"`
	BaseCourseCode string `json:"baseCourseCode"`
	Title          string `json:"title"`
	Program        string `json:"program"`
	Year           int    `json:"year"`
	Session        string `json:"session"`
	Block          string `json:"block"`
	Day            string `json:"day"`
	Period         string `json:"period"`
	Room           string `json:"room"`
}

func (e event) external() ScheduledEvent {
	return ScheduledEvent{
		ScheduleID:     e.ScheduleID,
		CourseCode:     e.DisplayCode,
		BaseCourseCode: e.BaseCode,
		Title:          e.Title,
		Program:        e.Program,
		Year:           e.Year,
		Session:        e.Session,
		Block:          e.Block,
		Day:            e.Day,
		Period:         e.Period,
		Room:           e.Room,
	}
}
