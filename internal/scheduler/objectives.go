package scheduler

import (
	"fmt"

	"github.com/ALEX0661/OPTISCHEDULE/internal/cpsat"
)

type cohortKey struct {
	Program string
	Year    int
}

// addObjectives posts the soft goals used in optimize mode: keep each
// cohort's week compact, and keep meetings from starting in the first hour
// of the day or in its last two and a half hours. All penalties weigh equally.
func (s *Scheduler) addObjectives(pm *phaseModel) {
	m := pm.model
	numDays := len(s.grid.Days)
	var terms []*cpsat.IntVar

	cohortDays := make(map[cohortKey][]*cpsat.IntVar)
	var order []cohortKey
	for _, sess := range pm.sessions {
		key := cohortKey{Program: sess.Program, Year: sess.Year}
		if _, seen := cohortDays[key]; !seen {
			order = append(order, key)
		}
		cohortDays[key] = append(cohortDays[key], sess.Day)
	}
	for _, key := range order {
		days := cohortDays[key]
		if len(days) < 2 {
			continue
		}
		tag := fmt.Sprintf("%s_y%d", key.Program, key.Year)
		minDay := m.NewIntVar(0, numDays-1, tag+"_min_day")
		maxDay := m.NewIntVar(0, numDays-1, tag+"_max_day")
		m.AddMinEquality(minDay, days)
		m.AddMaxEquality(maxDay, days)
		span := m.NewIntVar(0, numDays-1, tag+"_day_span")
		m.AddDifference(span, maxDay, minDay)
		terms = append(terms, span)
	}

	for idx, sess := range pm.sessions {
		tod := m.NewIntVar(0, s.grid.IncDay, fmt.Sprintf("time_%d", idx))
		m.AddModulo(tod, sess.Start, s.grid.IncDay)

		early := m.NewBoolVar(fmt.Sprintf("early_%d", idx))
		m.AddLessConstReif(tod, 2, early)
		late := m.NewBoolVar(fmt.Sprintf("late_%d", idx))
		m.AddGreaterConstReif(tod, s.grid.IncDay-6, late)
		terms = append(terms, early, late)
	}

	if len(terms) > 0 {
		m.Minimize(terms)
	}
}
