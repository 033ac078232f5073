// Package scheduler implements the hierarchical course scheduler: courses
// are partitioned into three difficulty tiers, each tier is solved as its
// own constraint model, and an occupancy ledger carries every placement
// forward so later tiers cannot collide with earlier decisions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/progress"
)

// ErrImpossible is returned when no complete schedule exists within the
// solver budgets. Callers never see a partial schedule.
var ErrImpossible = errors.New("impossible")

// Config collects the tunable constants of the pipeline.
type Config struct {
	// BaseTimeouts are the per-phase solver budgets by 1-based phase
	// position; positions beyond the table use ExtraPhaseTimeout.
	BaseTimeouts      []time.Duration
	ExtraPhaseTimeout time.Duration
	// OptimizeRetryFactor scales the budget of the second, objective-driven
	// attempt after a feasibility miss.
	OptimizeRetryFactor float64
	Workers             int
	// DomainCap bounds the start-value domain handed to the solver;
	// CandidateCap bounds how many open slots the ledger enumerates first.
	DomainCap         int
	CandidateCap      int
	MaxLecturesPerDay int
	MaxLabsPerDay     int
	LogSearchProgress bool
	// Seed fixes the randomized search of the last phase; 0 draws a fresh one.
	Seed int64
}

func DefaultConfig() Config {
	return Config{
		BaseTimeouts:        []time.Duration{150 * time.Second, 200 * time.Second, 700 * time.Second},
		ExtraPhaseTimeout:   300 * time.Second,
		OptimizeRetryFactor: 1.5,
		Workers:             10,
		DomainCap:           200,
		CandidateCap:        1000,
		MaxLecturesPerDay:   1,
		MaxLabsPerDay:       2,
	}
}

type Scheduler struct {
	src   catalog.Source
	cfg   Config
	log   *zap.Logger
	board *progress.Board
	runID string

	grid            Grid
	rooms           catalog.RoomCatalog
	ledger          *Ledger
	parted          []PhasedCourse
	coursesWithBoth map[string]bool
	events          []event
	nextID          int
}

func New(src catalog.Source, cfg Config, log *zap.Logger, board *progress.Board, runID string) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		src:    src,
		cfg:    cfg,
		log:    log,
		board:  board,
		runID:  runID,
		nextID: 1,
	}
}

func (s *Scheduler) setProgress(value int) {
	if s.board != nil {
		s.board.Set(s.runID, value)
	}
}

// Generate runs the full pipeline and returns the sorted schedule. Any
// failure — catalog, builder, or solver — surfaces as ErrImpossible with the
// failure sentinel on the progress board; the partial schedule is discarded.
func (s *Scheduler) Generate(ctx context.Context) ([]ScheduledEvent, error) {
	schedule, err := s.run(ctx)
	if err != nil {
		s.log.Error("schedule generation failed", zap.Error(err))
		s.setProgress(progress.Failed)
		return nil, fmt.Errorf("%w: %v", ErrImpossible, err)
	}
	eventsScheduled.Set(float64(len(schedule)))
	s.log.Info("schedule generated", zap.Int("events", len(schedule)))
	return schedule, nil
}

func (s *Scheduler) run(ctx context.Context) ([]ScheduledEvent, error) {
	s.setProgress(5)
	courses, err := s.src.Courses()
	if err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}
	s.parted, s.coursesWithBoth = Partition(courses)
	s.setProgress(15)

	s.rooms, err = s.src.Rooms()
	if err != nil {
		return nil, fmt.Errorf("loading rooms: %w", err)
	}
	s.log.Info("rooms loaded",
		zap.Int("lecture", len(s.rooms.Lecture)),
		zap.Int("lab", len(s.rooms.Lab)))
	s.setProgress(25)

	times, err := s.src.TimeSettings()
	if err != nil {
		return nil, fmt.Errorf("loading time settings: %w", err)
	}
	s.setProgress(35)

	days, err := s.src.Days()
	if err != nil {
		return nil, fmt.Errorf("loading days: %w", err)
	}
	s.setProgress(45)

	if times.StartTime >= times.EndTime || len(days) == 0 {
		return nil, fmt.Errorf("degenerate time settings: hours %d-%d over %d days",
			times.StartTime, times.EndTime, len(days))
	}

	s.grid = NewGrid(times, days)
	s.ledger = NewLedger(s.grid)
	s.setProgress(50)

	// group by phase, preserving the partitioner's priority order
	grouped := make(map[Phase][]catalog.Course)
	var order []Phase
	for _, pc := range s.parted {
		if _, seen := grouped[pc.Phase]; !seen {
			order = append(order, pc.Phase)
		}
		grouped[pc.Phase] = append(grouped[pc.Phase], pc.Course)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for i, phase := range order {
		events, err := s.solvePhase(ctx, grouped[phase], i+1, len(order))
		if err != nil {
			return nil, fmt.Errorf("phase %d (%s): %w", i+1, phase, err)
		}
		s.events = append(s.events, events...)
	}

	sort.SliceStable(s.events, func(i, j int) bool {
		if s.events[i].DayIndex != s.events[j].DayIndex {
			return s.events[i].DayIndex < s.events[j].DayIndex
		}
		return s.events[i].StartSlot < s.events[j].StartSlot
	})

	schedule := make([]ScheduledEvent, 0, len(s.events))
	for _, ev := range s.events {
		schedule = append(schedule, ev.external())
	}
	s.setProgress(95)
	s.setProgress(100)
	return schedule, nil
}
