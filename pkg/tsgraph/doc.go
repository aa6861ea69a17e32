// Package tsgraph provides the time-series causal graph model used by the
// d-separation oracle.
//
// # Overview
//
// A time-series causal graph is shift-invariant: a link X^i_{t-τ} → X^j_t
// that holds for one time origin t holds identically for every shifted
// origin. The graph is therefore stored once per variable as a list of
// incoming links with non-positive relative lags, and unrolled on demand
// during traversal. Contemporaneous (lag-0) links are assumed acyclic;
// lagged links may be cyclic across variables because time itself breaks
// the cycle.
//
// # Basic Usage
//
// Build a graph from explicit links with [New], giving each variable its
// list of lagged parents:
//
//	g, _ := tsgraph.New(map[int][]tsgraph.Link{
//	    0: {},
//	    1: {tsgraph.L(0, -1)},          // X0_{t-1} --> X1_t
//	    2: {tsgraph.L(1, 0), tsgraph.L(2, -1)},
//	})
//
// Or compile a dense edge-type matrix (possibly a Maximal Ancestral Graph)
// with [FromEdgeMatrix]. Bidirected edges ("<->") compile to synthetic
// latent variables, undirected edges ("---") to synthetic selection
// variables; both participate in traversal but are not observed.
//
// Query adjacency with [Graph.ParentsOf] and [Graph.ChildrenOf], which
// return variable-lag nodes relative to the queried node's lag.
//
// # Variable Classes
//
// Every compiled variable index is one of:
//
//   - observed: an original variable of the input graph
//   - latent: a synthetic common cause introduced for a "<->" edge
//   - selection: a synthetic collider introduced for a "---" edge,
//     implicitly conditioned on at every lag by the search algorithms
//
// # Concurrency
//
// Graph instances are immutable after construction and safe for concurrent
// readers.
//
// # Related Packages
//
// The [search] subpackage implements ancestor search with adaptive horizon
// discovery and the d-separation path search over graphs from this package.
//
// [search]: github.com/causalgo/tsoracle/pkg/tsgraph/search
package tsgraph
