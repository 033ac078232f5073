package cpsat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func solve(t *testing.T, m *Model, p Params) (Status, *Solution) {
	t.Helper()
	if p.MaxTime == 0 {
		p.MaxTime = 10 * time.Second
	}
	if p.Workers == 0 {
		p.Workers = 1
	}
	return Solve(context.Background(), m, p, nil)
}

func TestOffsetAndDivLink(t *testing.T) {
	m := NewModel()
	start := m.NewIntVarFromValues([]int{3, 7, 20}, "start")
	end := m.NewIntVar(0, 30, "end")
	m.AddOffset(end, start, 2)
	day := m.NewIntVar(0, 2, "day")
	m.AddDiv(day, start, 10)

	// force the last day; the start must follow through the div link
	always := m.NewIntVarFromValues([]int{1}, "always")
	m.AddEqualConstReif(day, 2, always)

	status, sol := solve(t, m, Params{})
	require.Equal(t, Feasible, status)
	require.Equal(t, 20, sol.Value(start))
	require.Equal(t, 22, sol.Value(end))
	require.Equal(t, 2, sol.Value(day))
}

func TestNoOverlapSeparatesSameRoom(t *testing.T) {
	m := NewModel()
	a := m.NewIntVarFromValues([]int{0, 1, 2, 3, 4}, "a")
	b := m.NewIntVarFromValues([]int{0, 1, 2, 3, 4}, "b")
	m.AddNoOverlap([]*Interval{
		m.NewInterval(a, 2, "iv_a"),
		m.NewInterval(b, 2, "iv_b"),
	})

	status, sol := solve(t, m, Params{})
	require.Equal(t, Feasible, status)
	av, bv := sol.Value(a), sol.Value(b)
	require.True(t, av+2 <= bv || bv+2 <= av, "intervals overlap: a=%d b=%d", av, bv)
}

func TestNoOverlapAgainstFixedInterval(t *testing.T) {
	m := NewModel()
	start := m.NewIntVarFromValues([]int{0, 1, 2, 3}, "start")
	m.AddNoOverlap([]*Interval{
		m.NewFixedInterval(0, 2, "prior"),
		m.NewInterval(start, 2, "iv"),
	})

	status, sol := solve(t, m, Params{})
	require.Equal(t, Feasible, status)
	require.GreaterOrEqual(t, sol.Value(start), 2)
}

func TestNoOverlapInfeasible(t *testing.T) {
	m := NewModel()
	a := m.NewIntVarFromValues([]int{0}, "a")
	b := m.NewIntVarFromValues([]int{1}, "b")
	m.AddNoOverlap([]*Interval{
		m.NewInterval(a, 2, "iv_a"),
		m.NewInterval(b, 2, "iv_b"),
	})

	status, _ := solve(t, m, Params{})
	require.Equal(t, Infeasible, status)
}

func TestOptionalIntervalsPickDistinctRooms(t *testing.T) {
	// two meetings, two rooms, both must start at 0: the room choices
	// are forced apart by the per-room no-overlap buckets
	m := NewModel()
	roomA := m.NewIntVar(0, 1, "roomA")
	roomB := m.NewIntVar(0, 1, "roomB")
	startA := m.NewIntVarFromValues([]int{0}, "startA")
	startB := m.NewIntVarFromValues([]int{0}, "startB")

	var buckets [2][]*Interval
	for r := 0; r < 2; r++ {
		litA := m.NewBoolVar("litA")
		m.AddEqualConstReif(roomA, r, litA)
		buckets[r] = append(buckets[r], m.NewOptionalInterval(startA, 2, litA, "optA"))

		litB := m.NewBoolVar("litB")
		m.AddEqualConstReif(roomB, r, litB)
		buckets[r] = append(buckets[r], m.NewOptionalInterval(startB, 2, litB, "optB"))
	}
	m.AddNoOverlap(buckets[0])
	m.AddNoOverlap(buckets[1])

	status, sol := solve(t, m, Params{})
	require.Equal(t, Feasible, status)
	require.NotEqual(t, sol.Value(roomA), sol.Value(roomB))
}

func TestMinimizeFindsOptimum(t *testing.T) {
	m := NewModel()
	x := m.NewIntVarFromValues([]int{0, 1, 2, 3}, "x")
	y := m.NewIntVarFromValues([]int{1, 2, 3}, "y")
	m.AddNoOverlap([]*Interval{
		m.NewInterval(x, 1, "iv_x"),
		m.NewInterval(y, 1, "iv_y"),
	})
	m.Minimize([]*IntVar{x, y})

	status, sol := solve(t, m, Params{})
	require.Equal(t, Optimal, status)
	require.Equal(t, 0, sol.Value(x))
	require.Equal(t, 1, sol.Value(y))
}

func TestMinMaxAndDifference(t *testing.T) {
	m := NewModel()
	a := m.NewIntVarFromValues([]int{1, 4}, "a")
	b := m.NewIntVarFromValues([]int{2, 3}, "b")
	lo := m.NewIntVar(0, 10, "lo")
	hi := m.NewIntVar(0, 10, "hi")
	span := m.NewIntVar(0, 10, "span")
	m.AddMinEquality(lo, []*IntVar{a, b})
	m.AddMaxEquality(hi, []*IntVar{a, b})
	m.AddDifference(span, hi, lo)
	m.Minimize([]*IntVar{span})

	status, sol := solve(t, m, Params{})
	require.Equal(t, Optimal, status)
	// closest pair is a=4, b=3 (or a=1, b=2), span 1
	require.Equal(t, 1, sol.Value(span))
	require.Equal(t, min(sol.Value(a), sol.Value(b)), sol.Value(lo))
	require.Equal(t, max(sol.Value(a), sol.Value(b)), sol.Value(hi))
}

func TestModuloReification(t *testing.T) {
	m := NewModel()
	x := m.NewIntVarFromValues([]int{0, 5, 11, 13}, "x")
	r := m.NewIntVar(0, 9, "r")
	m.AddModulo(r, x, 10)
	early := m.NewBoolVar("early")
	m.AddLessConstReif(r, 2, early)
	m.Minimize([]*IntVar{early})

	status, sol := solve(t, m, Params{})
	require.Equal(t, Optimal, status)
	require.Equal(t, 0, sol.Value(early))
	require.GreaterOrEqual(t, sol.Value(x)%10, 2)
}

func TestEmptyModelIsFeasible(t *testing.T) {
	status, sol := solve(t, NewModel(), Params{})
	require.Equal(t, Feasible, status)
	require.NotNil(t, sol)
}

func TestRandomizedWorkersStaySound(t *testing.T) {
	m := NewModel()
	starts := make([]*IntVar, 4)
	var intervals []*Interval
	for i := range starts {
		starts[i] = m.NewIntVarFromValues([]int{0, 2, 4, 6}, "s")
		intervals = append(intervals, m.NewInterval(starts[i], 2, "iv"))
	}
	m.AddNoOverlap(intervals)

	status, sol := solve(t, m, Params{Workers: 4, RandomizeSearch: true, RandomSeed: 42, ProbingLevel: 2})
	require.Equal(t, Feasible, status)
	seen := make(map[int]bool)
	for _, s := range starts {
		v := sol.Value(s)
		require.False(t, seen[v], "two intervals share start %d", v)
		seen[v] = true
	}
}
