// Package oracle answers conditional-independence queries against a known
// time-series causal graph, exactly, by d-separation.
//
// # Overview
//
// An [Oracle] stands in for a statistical independence test when the true
// generating graph is known: instead of estimating dependence from data it
// decides, purely graph-theoretically, whether X and Y are d-separated
// given Z. The numeric conventions match generic independence-test call
// sites: [Oracle.RunTest] returns (0, 1) for "independent" and (1, 0) for
// "dependent", and [Oracle.Measure] identifies the test as "oracle_ci".
// Its main use is validating causal-discovery algorithms against ground
// truth, with no sampling noise.
//
// # Queries
//
// X, Y and Z are lists of variable-lag nodes phrased in observed-variable
// indices with non-positive lags; at least one Y node must have lag zero.
// Queries are canonicalized (deduplicated, Z cross-filtered against X and
// Y) and memoized: each distinct query runs at most one underlying search,
// even under concurrent callers. An optional [cache.Cache] persists
// verdicts across oracle instances over the same graph.
//
// # Concurrency
//
// The graph is immutable after construction and every query is a pure
// function of it, so a single Oracle may serve concurrent queries.
package oracle
