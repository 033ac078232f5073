// Package cpsat is a small finite-domain constraint solver covering the
// subset of CP-SAT used by the course scheduler: integer variables with
// enumerated domains, interval variables (fixed and optional), no-overlap,
// reified comparisons against constants, min/max/div/mod equalities, and
// objective minimization by branch-and-bound over a pool of seeded workers.
package cpsat

// An IntVar is a handle to one integer decision variable.
// Booleans are IntVars with domain {0,1}.
type IntVar struct {
	id   int
	name string
}

func (v *IntVar) Name() string { return v.name }

// An Interval is a (start, duration, end) triple consumed by AddNoOverlap.
// Optional intervals participate only when their literal is true; fixed
// intervals have a constant start and always participate.
type Interval struct {
	start      *IntVar // nil for fixed intervals
	fixedStart int
	duration   int
	literal    *IntVar // nil for mandatory intervals
	name       string
}

type Model struct {
	initial   []domain
	names     []string
	props     []propagator
	watchers  [][]int // var id -> indexes into props
	objective []*IntVar
}

func NewModel() *Model {
	return &Model{}
}

func (m *Model) newVar(d domain, name string) *IntVar {
	id := len(m.initial)
	m.initial = append(m.initial, d)
	m.names = append(m.names, name)
	m.watchers = append(m.watchers, nil)
	return &IntVar{id: id, name: name}
}

func (m *Model) NewIntVar(lo, hi int, name string) *IntVar {
	return m.newVar(domainFromRange(lo, hi), name)
}

func (m *Model) NewIntVarFromValues(values []int, name string) *IntVar {
	return m.newVar(domainFromValues(values), name)
}

func (m *Model) NewBoolVar(name string) *IntVar {
	return m.NewIntVar(0, 1, name)
}

func (m *Model) NewInterval(start *IntVar, duration int, name string) *Interval {
	return &Interval{start: start, duration: duration, name: name}
}

func (m *Model) NewFixedInterval(start, duration int, name string) *Interval {
	return &Interval{fixedStart: start, duration: duration, name: name}
}

func (m *Model) NewOptionalInterval(start *IntVar, duration int, literal *IntVar, name string) *Interval {
	return &Interval{start: start, duration: duration, literal: literal, name: name}
}

func (m *Model) addProp(p propagator) {
	idx := len(m.props)
	m.props = append(m.props, p)
	for _, id := range p.watched() {
		m.watchers[id] = append(m.watchers[id], idx)
	}
}

// AddOffset posts y = x + c.
func (m *Model) AddOffset(y, x *IntVar, c int) {
	m.addProp(&offsetProp{x: x.id, y: y.id, c: c})
}

// AddDiv posts q = x / d for non-negative x and positive d.
func (m *Model) AddDiv(q, x *IntVar, d int) {
	m.addProp(&divProp{q: q.id, x: x.id, d: d})
}

// AddModulo posts r = x mod d for non-negative x and positive d.
func (m *Model) AddModulo(r, x *IntVar, d int) {
	m.addProp(&modProp{r: r.id, x: x.id, d: d})
}

// AddEqual posts a = b.
func (m *Model) AddEqual(a, b *IntVar) {
	m.addProp(&eqProp{a: a.id, b: b.id})
}

// AddDifference posts t = a - b.
func (m *Model) AddDifference(t, a, b *IntVar) {
	m.addProp(&diffProp{t: t.id, a: a.id, b: b.id})
}

// AddMinEquality posts t = min(vars).
func (m *Model) AddMinEquality(t *IntVar, vars []*IntVar) {
	ids := varIDs(vars)
	m.addProp(&minMaxProp{t: t.id, vars: ids, isMin: true})
}

// AddMaxEquality posts t = max(vars).
func (m *Model) AddMaxEquality(t *IntVar, vars []*IntVar) {
	ids := varIDs(vars)
	m.addProp(&minMaxProp{t: t.id, vars: ids, isMin: false})
}

// AddEqualConstReif posts lit <=> (x == c).
func (m *Model) AddEqualConstReif(x *IntVar, c int, lit *IntVar) {
	m.addProp(&reifEqProp{x: x.id, c: c, lit: lit.id})
}

// AddLessConstReif posts lit <=> (x < c).
func (m *Model) AddLessConstReif(x *IntVar, c int, lit *IntVar) {
	m.addProp(&reifLessProp{x: x.id, c: c, lit: lit.id})
}

// AddGreaterConstReif posts lit <=> (x > c).
func (m *Model) AddGreaterConstReif(x *IntVar, c int, lit *IntVar) {
	m.addProp(&reifLessProp{x: x.id, c: c + 1, lit: lit.id, negated: true})
}

// AddSumAtMost posts sum(lits) <= k over boolean vars.
func (m *Model) AddSumAtMost(lits []*IntVar, k int) {
	m.addProp(&sumAtMostProp{lits: varIDs(lits), k: k})
}

// AddNoOverlap posts pairwise disjointness over the given intervals.
// Optional intervals conflict only when their literal holds.
func (m *Model) AddNoOverlap(intervals []*Interval) {
	refs := make([]ivRef, 0, len(intervals))
	for _, iv := range intervals {
		ref := ivRef{startVar: -1, fixedStart: iv.fixedStart, duration: iv.duration, litVar: -1}
		if iv.start != nil {
			ref.startVar = iv.start.id
		}
		if iv.literal != nil {
			ref.litVar = iv.literal.id
		}
		refs = append(refs, ref)
	}
	m.addProp(&noOverlapProp{intervals: refs})
}

// Minimize sets the objective to the sum of the given variables.
func (m *Model) Minimize(terms []*IntVar) {
	m.objective = append([]*IntVar(nil), terms...)
}

func (m *Model) NumVars() int { return len(m.initial) }

func (m *Model) NumConstraints() int { return len(m.props) }

func varIDs(vars []*IntVar) []int {
	ids := make([]int, len(vars))
	for i, v := range vars {
		ids[i] = v.id
	}
	return ids
}
