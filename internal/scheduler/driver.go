package scheduler

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ALEX0661/OPTISCHEDULE/internal/catalog"
	"github.com/ALEX0661/OPTISCHEDULE/internal/cpsat"
)

// errPhaseUnsolved marks a solver attempt that produced no solution within
// its budget; the driver retries once with objectives before failing.
var errPhaseUnsolved = errors.New("phase produced no solution")

// phaseDifficulty estimates how hard a phase is to place, in [0.5, 2.0].
func phaseDifficulty(courses []catalog.Course) float64 {
	if len(courses) == 0 {
		return 0.5
	}
	avgUnits := lo.SumBy(courses, func(c catalog.Course) float64 {
		return float64(c.UnitsLecture + 2*c.UnitsLab)
	}) / float64(len(courses))
	avgBlocks := lo.SumBy(courses, func(c catalog.Course) float64 {
		return float64(c.SectionCount())
	}) / float64(len(courses))

	difficulty := (avgUnits / 5.0) * (avgBlocks / 1.5)
	return math.Max(0.5, math.Min(2.0, difficulty))
}

// phaseTimeout shapes the wall-clock budget by the phase's 1-based position
// and its difficulty multiplier.
func (s *Scheduler) phaseTimeout(position int, difficulty float64) time.Duration {
	base := s.cfg.ExtraPhaseTimeout
	if position <= len(s.cfg.BaseTimeouts) {
		base = s.cfg.BaseTimeouts[position-1]
	}
	seconds := math.Round(base.Seconds() * difficulty)
	return time.Duration(seconds) * time.Second
}

// solvePhase runs the two-attempt strategy for one phase: strict feasibility
// first, then optimization with a half-again budget. Builder failures are
// terminal; only solver misses earn the retry.
func (s *Scheduler) solvePhase(ctx context.Context, courses []catalog.Course, position, total int) ([]event, error) {
	if len(courses) == 0 {
		return nil, nil
	}

	difficulty := phaseDifficulty(courses)
	timeout := s.phaseTimeout(position, difficulty)
	s.log.Info("solving phase",
		zap.Int("phase", position),
		zap.Int("of", total),
		zap.Int("courses", len(courses)),
		zap.Float64("difficulty", difficulty),
		zap.Duration("timeout", timeout))

	events, err := s.attemptPhase(ctx, courses, position, total, timeout, false)
	if err == nil {
		s.log.Info("phase completed in feasibility mode", zap.Int("phase", position))
		return events, nil
	}
	if !errors.Is(err, errPhaseUnsolved) {
		return nil, err
	}

	s.log.Warn("phase feasibility attempt failed, retrying with objectives", zap.Int("phase", position))
	retry := time.Duration(math.Round(timeout.Seconds()*s.cfg.OptimizeRetryFactor)) * time.Second
	events, err = s.attemptPhase(ctx, courses, position, total, retry, true)
	if err == nil {
		s.log.Info("phase completed in optimization mode", zap.Int("phase", position))
		return events, nil
	}
	s.log.Error("phase failed in both modes", zap.Int("phase", position))
	return nil, err
}

func (s *Scheduler) attemptPhase(ctx context.Context, courses []catalog.Course, position, total int, timeout time.Duration, optimize bool) ([]event, error) {
	bandStart := 50 + (position-1)*40/total
	bandEnd := 50 + position*40/total
	onCourse := func(done int) {
		if optimize {
			// the retry rebuilds the same courses after the feasibility
			// attempt already reached bandEnd; progress never moves back
			return
		}
		s.setProgress(bandStart + done*(bandEnd-bandStart)/len(courses))
	}

	pm, err := s.buildPhaseModel(courses, optimize, onCourse)
	if err != nil {
		return nil, err
	}

	params := cpsat.Params{
		MaxTime:            timeout,
		Workers:            s.cfg.Workers,
		LogSearchProgress:  s.cfg.LogSearchProgress,
		LinearizationLevel: 2,
	}
	if position == total {
		// the hardest tier gets a randomized portfolio and domain shaving
		params.RandomizeSearch = true
		params.ProbingLevel = 2
		params.RandomSeed = s.cfg.Seed
		if params.RandomSeed == 0 {
			params.RandomSeed = rand.Int63()
		}
	}

	mode := "feasibility"
	if optimize {
		mode = "optimize"
	}
	started := time.Now()
	status, sol := cpsat.Solve(ctx, pm.model, params, s.log)
	phaseSolveDuration.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	phaseOutcomes.WithLabelValues(status.String()).Inc()

	if status != cpsat.Feasible && status != cpsat.Optimal {
		return nil, errPhaseUnsolved
	}

	events := s.extractSolution(sol, pm.sessions)
	s.log.Info("phase scheduled",
		zap.Int("phase", position),
		zap.String("mode", mode),
		zap.String("status", status.String()),
		zap.Int("sessions", len(events)))
	return events, nil
}
