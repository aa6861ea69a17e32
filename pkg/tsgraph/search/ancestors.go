package search

import (
	"errors"

	"github.com/causalgo/tsoracle/pkg/tsgraph"
)

// Mode selects the truncation policy of [Ancestors].
type Mode int

const (
	// NonRepeating admits an ancestor link only if no time-shifted
	// equivalent of it has been walked before. The deepest admitted
	// ancestor defines the discovered horizon.
	NonRepeating Mode = iota

	// MaxLagBound admits ancestors up to an explicit absolute-lag bound.
	MaxLagBound
)

// ErrMissingBound is returned by [Ancestors] when [MaxLagBound] mode is
// requested without a non-negative bound.
var ErrMissingBound = errors.New("max lag bound required in MaxLagBound mode")

// Ancestry holds the result of an ancestor search: the ancestor list of
// every seed node (in discovery order) and the maximum absolute lag seen
// across all of them.
type Ancestry struct {
	Sets   map[tsgraph.Node][]tsgraph.Node
	MaxLag int
}

// Ancestors runs a forward breadth-first traversal from each seed over the
// lagged-parent relation, never entering a node in the conditioning set.
// Conditioning nodes that are themselves seeds are ignored, and the graph's
// selection variables are implicitly conditioned on at every lag from 0 up
// to the search bound.
//
// In [NonRepeating] mode maxLag is ignored and the horizon is discovered;
// in [MaxLagBound] mode maxLag must be >= 0 and caps every admitted
// ancestor's absolute lag.
func Ancestors(g *tsgraph.Graph, seeds, conds []tsgraph.Node, mode Mode, maxLag int) (*Ancestry, error) {
	if mode == MaxLagBound && maxLag < 0 {
		return nil, ErrMissingBound
	}
	return ancestors(g, seeds, conds, mode, maxLag), nil
}

// ancestors runs the traversal after bound validation; NonRepeating mode
// discards the incoming bound and discovers its own.
func ancestors(g *tsgraph.Graph, seeds, conds []tsgraph.Node, mode Mode, maxLag int) *Ancestry {
	if mode == NonRepeating {
		maxLag = 0
	}

	seedSet := make(map[tsgraph.Node]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}
	condSet := make(map[tsgraph.Node]bool, len(conds))
	for _, c := range conds {
		if !seedSet[c] {
			condSet[c] = true
		}
	}
	for _, sel := range g.Selection() {
		for tau := 0; tau <= maxLag; tau++ {
			condSet[tsgraph.Node{Var: sel, Lag: -tau}] = true
		}
	}

	sets := make(map[tsgraph.Node][]tsgraph.Node, len(seeds))
	for _, seed := range seeds {
		if mode == NonRepeating && -seed.Lag > maxLag {
			maxLag = -seed.Lag
		}

		// Two links repeat each other if they connect the same variable
		// pair with the same relative lag offset, regardless of absolute
		// lags (shift-invariance).
		seen := make(map[[3]int]bool)
		var found []tsgraph.Node
		inSet := make(map[tsgraph.Node]bool)

		level := []tsgraph.Node{seed}
		for len(level) > 0 {
			var next []tsgraph.Node
			for _, v := range level {
				for _, par := range g.ParentsOf(v, false) {
					if condSet[par] || inSet[par] {
						continue
					}
					switch mode {
					case NonRepeating:
						key := [3]int{par.Var, v.Var, abs(v.Lag - par.Lag)}
						if seen[key] {
							continue
						}
						seen[key] = true
						if -par.Lag > maxLag {
							maxLag = -par.Lag
						}
					case MaxLagBound:
						if abs(par.Lag) > maxLag {
							continue
						}
					}
					found = append(found, par)
					inSet[par] = true
					next = append(next, par)
				}
			}
			level = next
		}
		sets[seed] = found
	}

	return &Ancestry{Sets: sets, MaxLag: maxLag}
}

// MaxLagFromXYZ returns the maximum non-repeated ancestral time lag of the
// query (X, Y, Z): the largest horizon any of the three node sets can
// reach through ancestors not blocked by Z. Truncating the unrolled graph
// there is sufficient for an exact d-separation answer.
func MaxLagFromXYZ(g *tsgraph.Graph, X, Y, Z []tsgraph.Node) int {
	maxLag := 0
	for _, seeds := range [][]tsgraph.Node{X, Y, Z} {
		anc := ancestors(g, seeds, Z, NonRepeating, 0)
		if anc.MaxLag > maxLag {
			maxLag = anc.MaxLag
		}
	}
	return maxLag
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
