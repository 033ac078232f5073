// Package catalog defines the input records the scheduler consumes and the
// loader contract its collaborators implement.
package catalog

import (
	"fmt"

	"go.uber.org/multierr"
)

// A Course is one offering to be scheduled. Blocks is the number of parallel
// sections; loaders normalize a missing value to 1.
type Course struct {
	Code         string `json:"courseCode"`
	Title        string `json:"title"`
	Program      string `json:"program"`
	YearLevel    int    `json:"yearLevel"`
	UnitsLecture int    `json:"unitsLecture"`
	UnitsLab     int    `json:"unitsLab"`
	Blocks       int    `json:"blocks"`
}

// SectionCount reports the number of parallel blocks, defaulting to 1.
func (c Course) SectionCount() int {
	if c.Blocks < 1 {
		return 1
	}
	return c.Blocks
}

type RoomKind string

const (
	RoomLecture RoomKind = "lecture"
	RoomLab     RoomKind = "lab"
)

// A RoomCatalog maps each room kind to an ordered list of room names.
// Index positions are stable within a run and identify rooms in decisions.
type RoomCatalog struct {
	Lecture []string `json:"lecture"`
	Lab     []string `json:"lab"`
}

func (rc RoomCatalog) ByKind(k RoomKind) []string {
	if k == RoomLab {
		return rc.Lab
	}
	return rc.Lecture
}

// TimeSettings holds the daily opening hours as integer hours of day.
type TimeSettings struct {
	StartTime int `json:"start_time"`
	EndTime   int `json:"end_time"`
}

// Source is the loader contract: each call may hit a file, a database, or a
// remote store, and reports its own failure.
type Source interface {
	Courses() ([]Course, error)
	Rooms() (RoomCatalog, error)
	TimeSettings() (TimeSettings, error)
	Days() ([]string, error)
}

// Static is an in-memory Source, used by tests and embedding callers.
type Static struct {
	CourseList []Course
	Catalog    RoomCatalog
	Times      TimeSettings
	DayList    []string
}

func (s Static) Courses() ([]Course, error)          { return s.CourseList, nil }
func (s Static) Rooms() (RoomCatalog, error)         { return s.Catalog, nil }
func (s Static) TimeSettings() (TimeSettings, error) { return s.Times, nil }
func (s Static) Days() ([]string, error)             { return s.DayList, nil }

// Validate checks the loaded catalogs against the input contract. All
// violations are reported together.
func Validate(courses []Course, rooms RoomCatalog, ts TimeSettings, days []string) error {
	var err error
	if ts.StartTime >= ts.EndTime {
		err = multierr.Append(err, fmt.Errorf("time settings: start_time %d must precede end_time %d", ts.StartTime, ts.EndTime))
	}
	if len(days) == 0 {
		err = multierr.Append(err, fmt.Errorf("day list is empty"))
	}
	needLecture, needLab := false, false
	for i, c := range courses {
		if c.Code == "" {
			err = multierr.Append(err, fmt.Errorf("course #%d has no course code", i+1))
		}
		if c.UnitsLecture < 0 || c.UnitsLab < 0 {
			err = multierr.Append(err, fmt.Errorf("course %s has negative units", c.Code))
		}
		if c.UnitsLecture == 0 && c.UnitsLab == 0 {
			err = multierr.Append(err, fmt.Errorf("course %s has neither lecture nor lab units", c.Code))
		}
		needLecture = needLecture || c.UnitsLecture > 0
		needLab = needLab || c.UnitsLab > 0
	}
	if needLecture && len(rooms.Lecture) == 0 {
		err = multierr.Append(err, fmt.Errorf("lecture units present but no lecture rooms loaded"))
	}
	if needLab && len(rooms.Lab) == 0 {
		err = multierr.Append(err, fmt.Errorf("lab units present but no lab rooms loaded"))
	}
	return err
}
