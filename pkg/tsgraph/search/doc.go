// Package search implements graph reachability over time-series causal
// graphs: ancestor search with adaptive horizon discovery, and the
// bidirectional d-separation path search.
//
// The time-unrolled graph is infinite in time, so every exact reachability
// question must first be truncated to a finite horizon. [Ancestors] in
// [NonRepeating] mode discovers a sufficient horizon by refusing to follow
// time-shifted repetitions of links it has already walked: shift-invariant
// graphs stabilize once every distinct structural link has been seen once.
// [MaxLagFromXYZ] composes this over a full query. [HasOpenPath] then runs
// a bidirectional breadth-first search over the truncated graph, walking
// only d-connection-legal motifs, and reconstructs a concrete connecting
// path when one exists.
package search
