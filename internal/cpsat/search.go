package cpsat

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Status int

const (
	Unknown Status = iota
	Infeasible
	Feasible
	Optimal
)

func (s Status) String() string {
	switch s {
	case Infeasible:
		return "INFEASIBLE"
	case Feasible:
		return "FEASIBLE"
	case Optimal:
		return "OPTIMAL"
	default:
		return "UNKNOWN"
	}
}

// Params mirrors the solver knobs the scheduler tunes. LinearizationLevel is
// accepted for parity with CP-SAT configuration but the engine always works
// on integer domains directly.
type Params struct {
	MaxTime            time.Duration
	Workers            int
	LogSearchProgress  bool
	LinearizationLevel int
	RandomizeSearch    bool
	RandomSeed         int64
	ProbingLevel       int
}

// A Solution is a complete assignment of the model's variables.
type Solution struct {
	values []int
}

func (sol *Solution) Value(v *IntVar) int { return sol.values[v.id] }

func (sol *Solution) BoolValue(v *IntVar) bool { return sol.values[v.id] == 1 }

var errAborted = errors.New("cpsat: search aborted")

// shared is the cross-worker incumbent state.
type shared struct {
	mu        sync.Mutex
	best      *Solution
	bestObj   int
	solutions int
	exhausted bool
	cancel    context.CancelFunc
	minimize  bool
}

// bound reports the objective value the next solution must beat.
func (sh *shared) bound() int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.bestObj
}

func (sh *shared) offer(sol *Solution, obj int) bool {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.best != nil && sh.minimize && obj >= sh.bestObj {
		return false
	}
	sh.best = sol
	sh.bestObj = obj
	sh.solutions++
	if !sh.minimize {
		// feasibility mode stops at the first solution
		sh.cancel()
	}
	return true
}

func (sh *shared) markExhausted() {
	sh.mu.Lock()
	sh.exhausted = true
	sh.mu.Unlock()
	sh.cancel()
}

// Solve runs a portfolio of search workers over the model within the wall
// clock budget. Worker 0 searches deterministically; with RandomizeSearch set
// the rest perturb value ordering with per-worker seeds, otherwise they search
// ascending as well. Any worker that exhausts the search space
// proves the final status (OPTIMAL or INFEASIBLE).
func Solve(ctx context.Context, m *Model, p Params, log *zap.Logger) (Status, *Solution) {
	if log == nil {
		log = zap.NewNop()
	}
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if p.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.MaxTime)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sh := &shared{bestObj: math.MaxInt, cancel: cancel, minimize: len(m.objective) > 0}

	started := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w := &worker{
				id:     id,
				model:  m,
				params: p,
				ctx:    ctx,
				sh:     sh,
				log:    log,
			}
			// worker 0 always searches ascending so one deterministic,
			// complete probe exists; the rest diversify when asked to
			if p.RandomizeSearch && id > 0 {
				w.rng = rand.New(rand.NewSource(p.RandomSeed + int64(id)*7919))
			}
			w.run()
		}(i)
	}
	wg.Wait()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	status := Unknown
	switch {
	case sh.best != nil && sh.exhausted && sh.minimize:
		status = Optimal
	case sh.best != nil:
		status = Feasible
	case sh.exhausted:
		status = Infeasible
	}
	if p.LogSearchProgress {
		log.Info("solver finished",
			zap.String("status", status.String()),
			zap.Int("solutions", sh.solutions),
			zap.Int("variables", m.NumVars()),
			zap.Int("constraints", m.NumConstraints()),
			zap.Duration("walltime", time.Since(started)))
	}
	return status, sh.best
}

type worker struct {
	id     int
	model  *Model
	params Params
	ctx    context.Context
	sh     *shared
	rng    *rand.Rand
	log    *zap.Logger
	nodes  int
}

func (w *worker) run() {
	s := newStore(w.model)
	if err := s.propagateAll(); err != nil {
		w.sh.markExhausted()
		return
	}
	if w.params.ProbingLevel >= 2 {
		if err := w.probe(s); err != nil {
			w.sh.markExhausted()
			return
		}
	}
	if err := w.dfs(s); err == nil {
		// the whole tree was explored
		w.sh.markExhausted()
	}
}

// probe shaves root domains: any value whose assignment fails propagation
// cannot be part of a solution and is removed permanently for this worker.
const probeLimit = 16

func (w *worker) probe(s *store) error {
	for varID := range s.doms {
		d := s.doms[varID]
		if d.fixed() || d.size() > probeLimit {
			continue
		}
		for _, v := range d.copyValues() {
			select {
			case <-w.ctx.Done():
				return nil
			default:
			}
			s.push()
			err := s.assign(varID, v)
			s.pop()
			if err != nil {
				if err := s.update(varID, s.doms[varID].removeValue(v)); err != nil {
					return err
				}
				if err := s.propagate(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (w *worker) dfs(s *store) error {
	select {
	case <-w.ctx.Done():
		return errAborted
	default:
	}
	w.nodes++
	if w.sh.minimize && w.objectiveFloor(s) >= w.sh.bound() {
		return nil
	}
	varID := w.pickVar(s)
	if varID < 0 {
		w.record(s)
		return nil
	}
	values := s.doms[varID].copyValues()
	if w.rng != nil {
		w.rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	}
	for _, v := range values {
		s.push()
		if err := s.assign(varID, v); err == nil {
			if err := w.dfs(s); err != nil {
				s.pop()
				return err
			}
		}
		s.pop()
	}
	return nil
}

// pickVar selects the unfixed variable with the smallest domain.
func (w *worker) pickVar(s *store) int {
	best, bestSize := -1, math.MaxInt
	for id := range s.doms {
		if sz := s.doms[id].size(); sz > 1 && sz < bestSize {
			best, bestSize = id, sz
			if sz == 2 {
				break
			}
		}
	}
	return best
}

// objectiveFloor sums the domain minimums of the objective terms: no
// completion of the current branch can score below it.
func (w *worker) objectiveFloor(s *store) int {
	floor := 0
	for _, t := range w.model.objective {
		floor += s.doms[t.id].min()
	}
	return floor
}

func (w *worker) record(s *store) {
	values := make([]int, len(s.doms))
	for id := range s.doms {
		values[id] = s.doms[id].value()
	}
	sol := &Solution{values: values}
	obj := 0
	for _, t := range w.model.objective {
		obj += values[t.id]
	}
	if w.sh.offer(sol, obj) && w.params.LogSearchProgress {
		w.log.Debug("solution found",
			zap.Int("worker", w.id),
			zap.Int("objective", obj),
			zap.Int("nodes", w.nodes))
	}
}
