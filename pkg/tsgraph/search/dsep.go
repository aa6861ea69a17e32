package search

import (
	"slices"

	"github.com/causalgo/tsoracle/pkg/tsgraph"
)

// mark records how a path touches a traversal node: with an arrow tail
// (the path leaves through a parent link), with an arrowhead (a link
// points at the node), or as a start/end node of the search. A node may
// carry several marks, one per direction it was reached from.
type mark int

const (
	markStart mark = iota
	markTail
	markArrowhead
)

// visit is one recorded step: the node it came from and the mark that node
// carried. Stored per (node, mark) so the backtrace can alternate marks
// while walking predecessor chains.
type visit struct {
	node tsgraph.Node
	mark mark
}

// markTable records, per traversal node, which marks it holds and the step
// that produced each mark.
type markTable map[tsgraph.Node]map[mark]visit

func (t markTable) has(n tsgraph.Node, m mark) bool {
	_, ok := t[n][m]
	return ok
}

func (t markTable) record(n tsgraph.Node, m mark, from visit) {
	marks, ok := t[n]
	if !ok {
		marks = make(map[mark]visit)
		t[n] = marks
	}
	marks[m] = from
}

// HasOpenPath reports whether any member of X is d-connected to any member
// of Y given conds in the graph truncated at maxLag, and returns the first
// connecting path found as an ordered node sequence from x to y inclusive.
//
// Paths are walked according to the d-separation rules: only the motifs
// <-- v <--, <-- v -->, --> v --> and --> [v] <-- may be traversed, where
// [.] marks a conditioned node. Path nodes must satisfy -maxLag <= lag <= 0.
// The graph's selection variables are implicitly added to conds at every
// lag up to maxLag. With backdoor set, the first step away from x must be
// into a parent (paths leaving x as a tail are excluded).
func HasOpenPath(g *tsgraph.Graph, X, Y, conds []tsgraph.Node, maxLag int, backdoor bool) ([]tsgraph.Node, bool) {
	exclude := make(map[tsgraph.Node]bool, len(X)+len(Y))
	for _, n := range X {
		exclude[n] = true
	}
	for _, n := range Y {
		exclude[n] = true
	}
	condSet := make(map[tsgraph.Node]bool, len(conds))
	for _, c := range conds {
		if !exclude[c] {
			condSet[c] = true
		}
	}
	for _, sel := range g.Selection() {
		for tau := 0; tau <= maxLag; tau++ {
			condSet[tsgraph.Node{Var: sel, Lag: -tau}] = true
		}
	}

	for _, x := range X {
		for _, y := range Y {
			s := &pathSearch{
				g:        g,
				conds:    condSet,
				maxLag:   maxLag,
				backdoor: backdoor,
				x:        x,
				y:        y,
				pred:     markTable{x: {markStart: {}}},
				succ:     markTable{y: {markStart: {}}},
			}
			if path, ok := s.run(); ok {
				return path, true
			}
		}
	}
	return nil, false
}

// pathSearch is the bidirectional BFS state for a single (x, y) pair.
// pred holds the frontier state grown forward from x, succ the state grown
// backward from y.
type pathSearch struct {
	g        *tsgraph.Graph
	conds    map[tsgraph.Node]bool
	maxLag   int
	backdoor bool
	x, y     tsgraph.Node
	pred     markTable
	succ     markTable
}

func (s *pathSearch) run() ([]tsgraph.Node, bool) {
	forward := []visit{{s.x, markStart}}
	reverse := []visit{{s.y, markStart}}

	for len(forward) > 0 && len(reverse) > 0 {
		// Expand the smaller frontier to bound the work done per round.
		if len(forward) <= len(reverse) {
			conn, fringe := s.walkFringe(forward, s.pred, s.succ)
			forward = fringe
			if conn != nil {
				return s.backtrace(*conn), true
			}
		} else {
			conn, fringe := s.walkFringe(reverse, s.succ, s.pred)
			reverse = fringe
			if conn != nil {
				return s.backtrace(*conn), true
			}
		}
	}
	return nil, false
}

// walkFringe expands one frontier level. this is the mark table of the
// side being expanded, other the opposite side's. It returns the meeting
// point if the frontiers connected, and the next frontier level otherwise.
func (s *pathSearch) walkFringe(level []visit, this, other markTable) (*visit, []visit) {
	var fringe []visit

	// In backdoor mode the very first step from x may only enter parents.
	if s.backdoor && len(level) == 1 && level[0] == (visit{s.x, markStart}) {
		return s.walkToParents(s.x, fringe, this, other)
	}

	for _, lv := range level {
		v, m := lv.node, lv.mark
		var conn *visit
		if s.conds[v] {
			if m == markArrowhead || m == markStart {
				// Motif: --> [v] <--. Standing on a condition and coming
				// from an arrowhead, the path may only turn into parents.
				conn, fringe = s.walkToParents(v, fringe, this, other)
				if conn != nil {
					return conn, fringe
				}
			}
		} else {
			switch m {
			case markTail, markStart:
				// Motif: <-- v <-- or <-- v -->. Off-condition and coming
				// from a tail, both parents and children are legal.
				conn, fringe = s.walkToParents(v, fringe, this, other)
				if conn != nil {
					return conn, fringe
				}
				conn, fringe = s.walkToChildren(v, fringe, this, other)
				if conn != nil {
					return conn, fringe
				}
			case markArrowhead:
				// Motif: --> v -->. Off-condition and coming from an
				// arrowhead, only children are legal.
				conn, fringe = s.walkToChildren(v, fringe, this, other)
				if conn != nil {
					return conn, fringe
				}
			}
		}
	}
	return nil, fringe
}

// walkToParents expands v into its lagged parents, marking them as reached
// by a tail. Conditioned parents cannot be entered, and no step may leave
// the [-maxLag, 0] window. A parent already present in the other side's
// table is a connection: a tail-reached node here is never conditioned, so
// it composes with any mark on the other side.
func (s *pathSearch) walkToParents(v tsgraph.Node, fringe []visit, this, other markTable) (*visit, []visit) {
	for _, w := range s.g.ParentsOf(v, false) {
		if s.backdoor && w == s.x {
			continue
		}
		if s.conds[w] || w.Lag > 0 || -w.Lag > s.maxLag {
			continue
		}
		if !this.has(w, markTail) && !this.has(w, markStart) {
			fringe = append(fringe, visit{w, markTail})
			this.record(w, markTail, visit{v, markArrowhead})
		}
		if _, ok := other[w]; ok {
			return &visit{w, markTail}, fringe
		}
	}
	return nil, fringe
}

// walkToChildren expands v into its lagged children, marking them as
// reached by an arrowhead. Conditioned children may be entered (they are
// collider candidates). A child present in the other side's table connects
// only if the marks compose: a tail there requires the node to be
// unconditioned, an arrowhead there requires it to be conditioned, and a
// start/end node always connects.
func (s *pathSearch) walkToChildren(v tsgraph.Node, fringe []visit, this, other markTable) (*visit, []visit) {
	for _, w := range s.g.ChildrenOf(v, false) {
		if w.Lag > 0 || -w.Lag > s.maxLag {
			continue
		}
		if !this.has(w, markArrowhead) && !this.has(w, markStart) {
			fringe = append(fringe, visit{w, markArrowhead})
			this.record(w, markArrowhead, visit{v, markTail})
		}
		if marks, ok := other[w]; ok {
			_, tail := marks[markTail]
			_, arrow := marks[markArrowhead]
			_, start := marks[markStart]
			if (tail && !s.conds[w]) || (arrow && s.conds[w]) || start {
				return &visit{w, markArrowhead}, fringe
			}
		}
	}
	return nil, fringe
}

// backtrace reconstructs the connecting path through the meeting node by
// walking the recorded predecessor links back to x and the successor links
// forward to y. The mark to follow at each step is inferred from the
// stored direction: stepping through an arrowhead flips to a tail unless
// the node is conditioned (collider), and stepping through a tail keeps
// the tail only if a distinct tail record exists.
func (s *pathSearch) backtrace(conn visit) []tsgraph.Node {
	path := []tsgraph.Node{conn.node}

	node := conn.node
	m := markArrowhead
	if s.pred.has(node, markTail) {
		m = markTail
	}
	for path[len(path)-1] != s.x {
		prev := s.pred[node][m]
		path = append(path, prev.node)
		m = nextMark(s.pred, prev, node, m, s.conds)
		node = prev.node
	}
	slices.Reverse(path)

	node = conn.node
	m = markArrowhead
	if s.succ.has(node, markTail) {
		m = markTail
	}
	for path[len(path)-1] != s.y {
		next := s.succ[node][m]
		path = append(path, next.node)
		m = nextMark(s.succ, next, node, m, s.conds)
		node = next.node
	}

	return path
}

// nextMark picks the mark to follow from step.node after arriving there
// through step.mark, given the table the walk is tracing.
func nextMark(table markTable, step visit, from tsgraph.Node, fromMark mark, conds map[tsgraph.Node]bool) mark {
	switch step.mark {
	case markArrowhead:
		if conds[step.node] {
			return markArrowhead
		}
		return markTail
	case markTail:
		if rec, ok := table[step.node][markTail]; ok && rec != (visit{from, fromMark}) {
			return markTail
		}
		return markArrowhead
	}
	return fromMark
}
