package cpsat

type propagator interface {
	// watched lists the variables whose domain changes re-trigger this propagator.
	watched() []int
	propagate(s *store) error
}

// offsetProp: y = x + c
type offsetProp struct {
	x, y, c int
}

func (p *offsetProp) watched() []int { return []int{p.x, p.y} }

func (p *offsetProp) propagate(s *store) error {
	dx, dy := s.doms[p.x], s.doms[p.y]
	if err := s.update(p.y, dy.intersectSorted(shiftValues(dx.values, p.c))); err != nil {
		return err
	}
	dy = s.doms[p.y]
	return s.update(p.x, dx.intersectSorted(shiftValues(dy.values, -p.c)))
}

func shiftValues(values []int, c int) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = v + c
	}
	return out
}

// divProp: q = x / d, x >= 0, d > 0
type divProp struct {
	q, x, d int
}

func (p *divProp) watched() []int { return []int{p.q, p.x} }

func (p *divProp) propagate(s *store) error {
	dx, dq := s.doms[p.x], s.doms[p.q]
	quots := make([]int, 0, dq.size())
	for _, v := range dx.values {
		q := v / p.d
		if len(quots) == 0 || quots[len(quots)-1] != q {
			quots = append(quots, q)
		}
	}
	if err := s.update(p.q, dq.intersectSorted(quots)); err != nil {
		return err
	}
	dq = s.doms[p.q]
	return s.update(p.x, dx.filter(func(v int) bool { return dq.contains(v / p.d) }))
}

// modProp: r = x mod d, x >= 0, d > 0
type modProp struct {
	r, x, d int
}

func (p *modProp) watched() []int { return []int{p.r, p.x} }

func (p *modProp) propagate(s *store) error {
	dx, dr := s.doms[p.x], s.doms[p.r]
	seen := make(map[int]bool, p.d)
	rems := make([]int, 0, p.d)
	for _, v := range dx.values {
		r := v % p.d
		if !seen[r] {
			seen[r] = true
			rems = append(rems, r)
		}
	}
	if err := s.update(p.r, dr.intersectSorted(domainFromValues(rems).values)); err != nil {
		return err
	}
	dr = s.doms[p.r]
	return s.update(p.x, dx.filter(func(v int) bool { return dr.contains(v % p.d) }))
}

// eqProp: a = b
type eqProp struct {
	a, b int
}

func (p *eqProp) watched() []int { return []int{p.a, p.b} }

func (p *eqProp) propagate(s *store) error {
	da, db := s.doms[p.a], s.doms[p.b]
	if err := s.update(p.a, da.intersectSorted(db.values)); err != nil {
		return err
	}
	return s.update(p.b, db.intersectSorted(s.doms[p.a].values))
}

// diffProp: t = a - b, bounds consistency
type diffProp struct {
	t, a, b int
}

func (p *diffProp) watched() []int { return []int{p.t, p.a, p.b} }

func (p *diffProp) propagate(s *store) error {
	dt, da, db := s.doms[p.t], s.doms[p.a], s.doms[p.b]
	if err := s.update(p.t, dt.removeBelow(da.min()-db.max()).removeAbove(da.max()-db.min())); err != nil {
		return err
	}
	dt = s.doms[p.t]
	if err := s.update(p.a, da.removeBelow(dt.min()+db.min()).removeAbove(dt.max()+db.max())); err != nil {
		return err
	}
	da = s.doms[p.a]
	return s.update(p.b, db.removeBelow(da.min()-dt.max()).removeAbove(da.max()-dt.min()))
}

// minMaxProp: t = min(vars) or t = max(vars), bounds consistency
type minMaxProp struct {
	t     int
	vars  []int
	isMin bool
}

func (p *minMaxProp) watched() []int { return append([]int{p.t}, p.vars...) }

func (p *minMaxProp) propagate(s *store) error {
	if p.isMin {
		lo, hi := s.doms[p.vars[0]].min(), s.doms[p.vars[0]].max()
		for _, id := range p.vars[1:] {
			if m := s.doms[id].min(); m < lo {
				lo = m
			}
			if m := s.doms[id].max(); m < hi {
				hi = m
			}
		}
		if err := s.update(p.t, s.doms[p.t].removeBelow(lo).removeAbove(hi)); err != nil {
			return err
		}
		tmin := s.doms[p.t].min()
		for _, id := range p.vars {
			if err := s.update(id, s.doms[id].removeBelow(tmin)); err != nil {
				return err
			}
		}
		return nil
	}
	lo, hi := s.doms[p.vars[0]].min(), s.doms[p.vars[0]].max()
	for _, id := range p.vars[1:] {
		if m := s.doms[id].min(); m > lo {
			lo = m
		}
		if m := s.doms[id].max(); m > hi {
			hi = m
		}
	}
	if err := s.update(p.t, s.doms[p.t].removeBelow(lo).removeAbove(hi)); err != nil {
		return err
	}
	tmax := s.doms[p.t].max()
	for _, id := range p.vars {
		if err := s.update(id, s.doms[id].removeAbove(tmax)); err != nil {
			return err
		}
	}
	return nil
}

// reifEqProp: lit <=> (x == c)
type reifEqProp struct {
	x, c, lit int
}

func (p *reifEqProp) watched() []int { return []int{p.x, p.lit} }

func (p *reifEqProp) propagate(s *store) error {
	dx, dl := s.doms[p.x], s.doms[p.lit]
	if dl.fixed() {
		if dl.value() == 1 {
			return s.update(p.x, dx.removeBelow(p.c).removeAbove(p.c))
		}
		return s.update(p.x, dx.removeValue(p.c))
	}
	if !dx.contains(p.c) {
		return s.update(p.lit, dl.removeValue(1))
	}
	if dx.fixed() {
		return s.update(p.lit, dl.removeValue(0))
	}
	return nil
}

// reifLessProp: lit <=> (x < c); with negated set, lit <=> !(x < c).
type reifLessProp struct {
	x, c, lit int
	negated   bool
}

func (p *reifLessProp) watched() []int { return []int{p.x, p.lit} }

func (p *reifLessProp) propagate(s *store) error {
	dx, dl := s.doms[p.x], s.doms[p.lit]
	truthy, falsy := 1, 0
	if p.negated {
		truthy, falsy = 0, 1
	}
	if dl.fixed() {
		if dl.value() == truthy {
			return s.update(p.x, dx.removeAbove(p.c-1))
		}
		return s.update(p.x, dx.removeBelow(p.c))
	}
	if dx.max() < p.c {
		return s.update(p.lit, dl.removeValue(falsy))
	}
	if dx.min() >= p.c {
		return s.update(p.lit, dl.removeValue(truthy))
	}
	return nil
}

// sumAtMostProp: sum of boolean lits <= k
type sumAtMostProp struct {
	lits []int
	k    int
}

func (p *sumAtMostProp) watched() []int { return p.lits }

func (p *sumAtMostProp) propagate(s *store) error {
	ones := 0
	for _, id := range p.lits {
		d := s.doms[id]
		if d.fixed() && d.value() == 1 {
			ones++
		}
	}
	if ones > p.k {
		return errFailed
	}
	if ones == p.k {
		for _, id := range p.lits {
			d := s.doms[id]
			if !d.fixed() {
				if err := s.update(id, d.removeValue(1)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// noOverlapProp enforces pairwise disjointness of intervals on one resource
// using time-table filtering over compulsory parts: an interval whose start
// window [est, lst] is tight enough must run over [lst, est+dur), and no
// other active interval may use those slots. Exact once all starts and
// literals are fixed.
type ivRef struct {
	startVar   int // -1 when the start is fixed
	fixedStart int
	duration   int
	litVar     int // -1 when mandatory
}

type noOverlapProp struct {
	intervals []ivRef
	watch     []int
}

func (p *noOverlapProp) watched() []int {
	if p.watch == nil {
		for _, iv := range p.intervals {
			if iv.startVar >= 0 {
				p.watch = append(p.watch, iv.startVar)
			}
			if iv.litVar >= 0 {
				p.watch = append(p.watch, iv.litVar)
			}
		}
	}
	return p.watch
}

type compulsory struct {
	owner  int
	lo, hi int // occupied slots [lo, hi)
}

func (p *noOverlapProp) propagate(s *store) error {
	const (
		off = iota
		on
		maybe
	)
	status := make([]int, len(p.intervals))
	parts := make([]compulsory, 0, len(p.intervals))
	for i, iv := range p.intervals {
		status[i] = on
		if iv.litVar >= 0 {
			dl := s.doms[iv.litVar]
			switch {
			case dl.fixed() && dl.value() == 0:
				status[i] = off
				continue
			case !dl.fixed():
				status[i] = maybe
				continue
			}
		}
		est, lst := iv.fixedStart, iv.fixedStart
		if iv.startVar >= 0 {
			d := s.doms[iv.startVar]
			est, lst = d.min(), d.max()
		}
		if lst < est+iv.duration {
			parts = append(parts, compulsory{owner: i, lo: lst, hi: est + iv.duration})
		}
	}

	// two mandatory occupations may not collide
	for i := 0; i < len(parts); i++ {
		for j := i + 1; j < len(parts); j++ {
			if parts[i].lo < parts[j].hi && parts[j].lo < parts[i].hi {
				return errFailed
			}
		}
	}

	for i, iv := range p.intervals {
		if status[i] == off || iv.startVar < 0 {
			continue
		}
		d := s.doms[iv.startVar]
		dur := iv.duration
		nd := d.filter(func(v int) bool {
			for _, part := range parts {
				if part.owner == i {
					continue
				}
				if v < part.hi && part.lo < v+dur {
					return false
				}
			}
			return true
		})
		if status[i] == on {
			if err := s.update(iv.startVar, nd); err != nil {
				return err
			}
			continue
		}
		// optional interval with no viable placement left cannot be active
		if nd.empty() {
			if err := s.update(iv.litVar, s.doms[iv.litVar].removeValue(1)); err != nil {
				return err
			}
		}
	}
	return nil
}
