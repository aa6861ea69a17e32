package tsgraph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoLinks is returned by [New] and [NewWithVars] when the link map
	// is empty. A graph needs at least one variable.
	ErrNoLinks = errors.New("graph requires at least one variable")

	// ErrIncompleteLinks is returned when the link map is not keyed
	// contiguously from 0 to N-1. Every variable needs an entry, even if
	// its parent list is empty.
	ErrIncompleteLinks = errors.New("links must be keyed contiguously from 0")

	// ErrUnknownSource is returned when a link references a source
	// variable outside [0, N).
	ErrUnknownSource = errors.New("link source out of range")

	// ErrPositiveLag is returned when a link carries a positive relative
	// lag. Parents lie at or before their child in time.
	ErrPositiveLag = errors.New("link lags must be non-positive")

	// ErrVarsNotSubset is returned when an observed or selection variable
	// list references an index outside [0, N).
	ErrVarsNotSubset = errors.New("variable list out of range")

	// ErrVarsUnordered is returned when an observed or selection variable
	// list is not sorted ascending.
	ErrVarsUnordered = errors.New("variable list must be sorted ascending")

	// ErrVarsDuplicate is returned when an observed or selection variable
	// list contains duplicates.
	ErrVarsDuplicate = errors.New("variable list must not contain duplicates")
)

// Graph is an immutable time-series causal graph: per-variable incoming
// links plus the partition of variables into observed and synthetic
// (latent/selection) indices. Construct with [New], [NewWithVars], or
// [FromEdgeMatrix]; the zero value is not usable.
type Graph struct {
	links     map[int][]Link
	children  map[int][]Node // source var -> (child var, +lag) entries
	observed  []int
	selection []int
	selSet    map[int]bool
	obsSet    map[int]bool
	n         int
}

// New creates a graph from a link map in which every variable is observed
// and none is a selection variable. The map must contain an entry for each
// variable index 0..len(links)-1.
func New(links map[int][]Link) (*Graph, error) {
	return NewWithVars(links, nil, nil)
}

// NewWithVars creates a graph with explicit observed and selection
// variable lists. A nil observed list means all variables are observed; a
// nil selection list means none are selected. Both lists must be sorted
// ascending, duplicate-free subsets of [0, N).
func NewWithVars(links map[int][]Link, observed, selection []int) (*Graph, error) {
	n := len(links)
	if n == 0 {
		return nil, ErrNoLinks
	}
	for v := 0; v < n; v++ {
		ls, ok := links[v]
		if !ok {
			return nil, fmt.Errorf("missing variable %d: %w", v, ErrIncompleteLinks)
		}
		for _, l := range ls {
			if l.Source < 0 || l.Source >= n {
				return nil, fmt.Errorf("variable %d links to %d: %w", v, l.Source, ErrUnknownSource)
			}
			if l.Lag > 0 {
				return nil, fmt.Errorf("variable %d has link lag %d: %w", v, l.Lag, ErrPositiveLag)
			}
		}
	}

	if observed == nil {
		observed = make([]int, n)
		for v := range observed {
			observed[v] = v
		}
	} else if err := checkVarList("observed", observed, n); err != nil {
		return nil, err
	}
	if selection == nil {
		selection = []int{}
	} else if err := checkVarList("selection", selection, n); err != nil {
		return nil, err
	}

	g := &Graph{
		links:     make(map[int][]Link, n),
		observed:  slices.Clone(observed),
		selection: slices.Clone(selection),
		selSet:    make(map[int]bool, len(selection)),
		obsSet:    make(map[int]bool, len(observed)),
		n:         n,
	}
	for v := 0; v < n; v++ {
		g.links[v] = slices.Clone(links[v])
	}
	for _, v := range selection {
		g.selSet[v] = true
	}
	for _, v := range observed {
		g.obsSet[v] = true
	}

	// Invert the parent links once; children lie later in time, so their
	// relative lag is the positive mirror of the parent link's lag.
	g.children = make(map[int][]Node, n)
	for child := 0; child < n; child++ {
		for _, l := range g.links[child] {
			if l.Coeff == 0 {
				continue
			}
			g.children[l.Source] = append(g.children[l.Source], Node{Var: child, Lag: -l.Lag})
		}
	}

	return g, nil
}

func checkVarList(name string, vars []int, n int) error {
	for i, v := range vars {
		if v < 0 || v >= n {
			return fmt.Errorf("%s variable %d not in [0, %d): %w", name, v, n, ErrVarsNotSubset)
		}
		if i > 0 {
			if v < vars[i-1] {
				return fmt.Errorf("%s variables: %w", name, ErrVarsUnordered)
			}
			if v == vars[i-1] {
				return fmt.Errorf("%s variable %d: %w", name, v, ErrVarsDuplicate)
			}
		}
	}
	return nil
}

// N returns the total number of variables, including synthetic
// latent/selection variables.
func (g *Graph) N() int { return g.n }

// Observed returns the observed variable indices in ascending order.
func (g *Graph) Observed() []int { return slices.Clone(g.observed) }

// Selection returns the selection variable indices in ascending order.
// Selection variables are implicitly conditioned on at every lag by the
// search algorithms.
func (g *Graph) Selection() []int { return slices.Clone(g.selection) }

// IsObserved reports whether v is an observed variable.
func (g *Graph) IsObserved(v int) bool { return g.obsSet[v] }

// IsSelection reports whether v is a selection variable.
func (g *Graph) IsSelection(v int) bool { return g.selSet[v] }

// LinksOf returns the incoming links of variable v.
func (g *Graph) LinksOf(v int) []Link { return slices.Clone(g.links[v]) }

// ParentsOf returns the lagged parents of node: for each incoming link of
// node's variable, the source variable at lag node.Lag + link.Lag.
// Zero-coefficient links are skipped, and contemporaneous (relative lag 0)
// links are skipped when excludeContemp is set.
func (g *Graph) ParentsOf(node Node, excludeContemp bool) []Node {
	var parents []Node
	for _, l := range g.links[node.Var] {
		if l.Coeff == 0 {
			continue
		}
		if excludeContemp && l.Lag == 0 {
			continue
		}
		parents = append(parents, Node{Var: l.Source, Lag: node.Lag + l.Lag})
	}
	return parents
}

// ChildrenOf returns the lagged children of node: the inverse of
// [Graph.ParentsOf], with child lags later in time (less negative).
// Contemporaneous children are skipped when excludeContemp is set.
func (g *Graph) ChildrenOf(node Node, excludeContemp bool) []Node {
	var children []Node
	for _, c := range g.children[node.Var] {
		if excludeContemp && c.Lag == 0 {
			continue
		}
		children = append(children, Node{Var: c.Var, Lag: node.Lag + c.Lag})
	}
	return children
}
