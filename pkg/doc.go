// Package pkg provides the core libraries of the tsoracle
// conditional-independence oracle.
//
// # Overview
//
// tsoracle answers d-separation queries against a known time-series causal
// graph, standing in for a statistical independence test when ground truth
// is available. The pkg directory is organized into five areas:
//
//  1. [tsgraph] - Graph model (links, lagged parents/children, edge-matrix compiler)
//  2. [tsgraph/search] - Search algorithms (ancestor horizon, bidirectional path search)
//  3. [oracle] - Query facade (validation, memoization, test conventions)
//  4. [graphio] - Graph serialization (JSON, TOML)
//  5. [cache] - Verdict persistence (memory, file, null backends)
//
// # Architecture
//
// The typical data flow through a query:
//
//	Link map / edge matrix
//	         ↓
//	    [tsgraph] package (compile + validate the graph)
//	         ↓
//	    [tsgraph/search] package (horizon + d-separation search)
//	         ↓
//	    [oracle] package (canonicalize, memoize, answer)
//
// # Quick Start
//
// Build an oracle and test an independence claim:
//
//	import (
//	    "github.com/causalgo/tsoracle/pkg/oracle"
//	    "github.com/causalgo/tsoracle/pkg/tsgraph"
//	)
//
//	o, _ := oracle.New(oracle.Config{
//	    Links: map[int][]tsgraph.Link{
//	        0: nil,
//	        1: {tsgraph.L(0, -1)},
//	        2: {tsgraph.L(1, 0)},
//	    },
//	})
//
//	X := []tsgraph.Node{{Var: 0, Lag: -1}}
//	Y := []tsgraph.Node{{Var: 2}}
//	Z := []tsgraph.Node{{Var: 1}}
//
//	val, pval, _ := o.RunTest(X, Y, Z, 0)  // 0, 1: independent given Z
//
// # Main Packages
//
// [tsgraph] - The immutable graph model: per-variable incoming links with
// non-positive lags, the observed/selection variable partition, and the
// edge-matrix compiler that maps "<->" and "---" edges onto synthetic
// latent and selection variables.
//
// [tsgraph/search] - The two search primitives. The ancestor search
// discovers a sufficient truncation horizon for the infinite unrolled
// graph; the path search decides d-connection over the truncated window
// and reconstructs a connecting path.
//
// [oracle] - The user-facing facade: query validation and translation to
// internal indices, per-query memoization with single-flight deduplication,
// and the (val, pval) conventions of statistical tests.
//
// [graphio] - Reading and writing graph definitions as JSON or TOML
// documents.
//
// [cache] - Byte caches for persisting verdicts across runs and sharing
// them between oracle instances over the same graph.
//
// [errors] - Structured error codes shared by the facade.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/tsgraph/...   # Specific package
//	go test -run Example        # Examples only
//
// [tsgraph]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/tsgraph
// [tsgraph/search]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/tsgraph/search
// [oracle]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/oracle
// [graphio]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/graphio
// [cache]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/cache
// [errors]: https://pkg.go.dev/github.com/causalgo/tsoracle/pkg/errors
package pkg
